package mediatypes

import (
	"path/filepath"
	"strings"
)

// Category represents the media category of a file.
type Category string

const (
	// CategoryImage represents a photo file, including RAW formats.
	CategoryImage Category = "image"
	// CategoryVideo represents a video container file.
	CategoryVideo Category = "video"
	// CategoryOther represents an unknown or unsupported file type.
	CategoryOther Category = "other"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".cr2":  true,
	".cr3":  true,
}

// RawExtensions maps file extensions to whether they are RAW camera formats.
// RAW files are a subset of ImageExtensions with their own decode path.
var RawExtensions = map[string]bool{
	".cr2": true,
	".cr3": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".m4v": true,
	".3gp": true,
	".gif": true,
}

// Classify returns the Category for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns CategoryOther if the extension is not recognized.
func Classify(ext string) Category {
	if ImageExtensions[ext] {
		return CategoryImage
	}
	if VideoExtensions[ext] {
		return CategoryVideo
	}
	return CategoryOther
}

// ClassifyPath returns the Category for a path based on its extension.
func ClassifyPath(path string) Category {
	return Classify(Ext(path))
}

// Ext returns the lowercased extension of a path, including the leading dot.
// Returns "" when the path has no extension.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// FileType returns the normalized filetype string recorded for a path:
// the lowercased extension without the leading dot, or "none" if the path
// has no extension.
func FileType(path string) string {
	ext := strings.TrimPrefix(Ext(path), ".")
	if ext == "" {
		return "none"
	}
	return ext
}

// Stem returns the base name of a path with the extension removed.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
