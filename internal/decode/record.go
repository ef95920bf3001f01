package decode

import (
	"math"
	"os"
	"path/filepath"

	"gallery-inspector/internal/mediatypes"
)

// Record is the normalized metadata record for one filesystem entry.
// The base fields are always populated; Image and Video are set only for
// the matching category, with every optional attribute modeled as a
// pointer that is nil when the source carried no usable value.
// Records are immutable once produced.
type Record struct {
	Name      string
	FileType  string
	Directory string
	Category  mediatypes.Category
	SizeBytes int64

	Image *ImageMeta
	Video *VideoMeta
}

// ImageMeta holds the photo attributes extracted from EXIF or, for CR3,
// from container-level track attributes.
type ImageMeta struct {
	DateTaken    *string // "YYYY:MM:DD"
	TimeTaken    *string // "HH:MM:SS"
	Camera       *string
	Lens         *string
	FocalLength  *float64 // mm
	Aperture     *float64 // f-number
	ISO          *int
	ShutterSpeed *string // "1/800s" or "2.50s"
	Width        *int
	Height       *int
}

// VideoMeta holds the attributes read from a video container's tracks.
type VideoMeta struct {
	DateTaken  *string // "YYYY:MM:DD"
	TimeTaken  *string // "HH:MM:SS"
	Width      *int
	Height     *int
	DurationMS *float64
	Codec      *string
	FrameRate  *float64
}

// SizeMB returns the record's size in megabytes, rounded to 2 decimals.
func (r *Record) SizeMB() float64 {
	return math.Round(float64(r.SizeBytes)/1048576*100) / 100
}

// baseRecord fills the fields shared by every category.
func baseRecord(path string, info os.FileInfo, category mediatypes.Category) *Record {
	return &Record{
		Name:      mediatypes.Stem(path),
		FileType:  mediatypes.FileType(path),
		Directory: filepath.Dir(path),
		Category:  category,
		SizeBytes: info.Size(),
	}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
