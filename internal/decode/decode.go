package decode

import (
	"os"

	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
	"gallery-inspector/internal/metrics"
)

// File decodes a single path into a metadata record. The returned category
// is always meaningful; the record is nil when the file could not be read
// at all, in which case the caller excludes it from further processing.
// Absent or malformed metadata never fails a decode, it only leaves fields
// unset.
func File(path string) (mediatypes.Category, *Record) {
	category := mediatypes.ClassifyPath(path)

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Warn("cannot stat %s: %v", path, err)
		metrics.DecodeFailures.WithLabelValues(string(category)).Inc()
		return category, nil
	}

	var rec *Record
	switch category {
	case mediatypes.CategoryImage:
		rec, err = decodeImage(path, info)
	case mediatypes.CategoryVideo:
		rec, err = decodeVideo(path, info)
	default:
		rec = baseRecord(path, info, mediatypes.CategoryOther)
	}
	if err != nil {
		logging.Warn("cannot decode %s: %v", path, err)
		metrics.DecodeFailures.WithLabelValues(string(category)).Inc()
		return category, nil
	}
	return category, rec
}

// decodeImage dispatches on extension: Canon raw formats need their own
// paths, everything else is a standard image container.
func decodeImage(path string, info os.FileInfo) (*Record, error) {
	ext := mediatypes.Ext(path)
	if mediatypes.RawExtensions[ext] {
		if ext == ".cr2" {
			return decodeCR2(path, info)
		}
		return decodeCR3(path, info)
	}
	return decodeStandardImage(path, info)
}
