package decode

import (
	"fmt"
	"image"
	"os"
	"strings"

	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
	"gallery-inspector/internal/metrics"

	// Image format decoders for dimension reading
	_ "image/jpeg"
	_ "image/png"

	exifscan "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP format support
)

// exifFields is the untyped-source-to-typed-field bridge shared by all EXIF
// strategies. Every field is optional; a strategy fills what it can.
type exifFields struct {
	timestamp string // raw, normalized later
	camera    string
	lens      string
	focal     *float64
	aperture  *float64
	iso       *int
	shutter   string
	width     *int
	height    *int
}

func (f *exifFields) empty() bool {
	return f.timestamp == "" && f.camera == "" && f.lens == "" &&
		f.focal == nil && f.aperture == nil && f.iso == nil &&
		f.shutter == "" && f.width == nil && f.height == nil
}

// exifStrategy is one named way of reading EXIF from a file. Strategies are
// tried in order; the first one that returns usable fields wins.
type exifStrategy struct {
	name string
	read func(path string) (*exifFields, error)
}

// imageExifStrategies reads the embedded EXIF blob through the container
// first, then falls back to scanning the file itself for an EXIF segment.
var imageExifStrategies = []exifStrategy{
	{name: "goexif", read: readExifEmbedded},
	{name: "exifscan", read: readExifFileScan},
}

// readExif runs the given strategies in order and returns the first usable
// field set along with the winning strategy name.
func readExif(path string, strategies []exifStrategy) (*exifFields, string, error) {
	var lastErr error
	for _, s := range strategies {
		fields, err := s.read(path)
		if err != nil {
			lastErr = err
			continue
		}
		if fields == nil || fields.empty() {
			continue
		}
		metrics.DecodeStrategyHits.WithLabelValues(s.name).Inc()
		return fields, s.name, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no exif data in %s", path)
	}
	return nil, "", lastErr
}

// readExifEmbedded reads EXIF via goexif, which understands the embedded
// APP1 blob in JPEG containers and bare TIFF streams (CR2).
func readExifEmbedded(path string) (*exifFields, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, err
	}

	out := &exifFields{}

	out.timestamp = tagString(x, exif.DateTimeOriginal)
	if out.timestamp == "" {
		out.timestamp = tagString(x, exif.DateTime)
	}
	out.camera = tagString(x, exif.Model)
	out.lens = tagString(x, exif.LensModel)
	out.focal = tagRatFloat(x, exif.FocalLength)
	out.aperture = tagRatFloat(x, exif.FNumber)
	out.iso = tagInt(x, exif.ISOSpeedRatings)

	if num, den, ok := tagRat(x, exif.ExposureTime); ok {
		out.shutter = FormatShutter(num, den)
	}

	out.width = tagInt(x, exif.PixelXDimension)
	out.height = tagInt(x, exif.PixelYDimension)
	if out.width == nil {
		out.width = tagInt(x, exif.ImageWidth)
	}
	if out.height == nil {
		out.height = tagInt(x, exif.ImageLength)
	}

	return out, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.Trim(s, "\x00 ")
}

func tagRat(x *exif.Exif, name exif.FieldName) (num, den int64, ok bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, 0, false
	}
	num, den, err = tag.Rat2(0)
	if err != nil {
		return 0, 0, false
	}
	return num, den, true
}

func tagRatFloat(x *exif.Exif, name exif.FieldName) *float64 {
	num, den, ok := tagRat(x, name)
	if !ok || den == 0 {
		return nil
	}
	return floatPtr(float64(num) / float64(den))
}

func tagInt(x *exif.Exif, name exif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return intPtr(v)
}

// readExifFileScan locates an EXIF segment anywhere in the file and decodes
// it as a flat tag list. This catches containers goexif does not open,
// such as PNG and WebP with an eXIf chunk.
func readExifFileScan(path string) (*exifFields, error) {
	raw, err := exifscan.SearchFileAndExtractExif(path)
	if err != nil {
		return nil, err
	}

	entries, _, err := exifscan.GetFlatExifData(raw, nil)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		if _, seen := byName[e.TagName]; !seen {
			byName[e.TagName] = e.Value
		}
	}

	out := &exifFields{}
	if s, ok := flatString(byName["DateTimeOriginal"]); ok {
		out.timestamp = s
	} else if s, ok := flatString(byName["DateTime"]); ok {
		out.timestamp = s
	}
	if s, ok := flatString(byName["Model"]); ok {
		out.camera = s
	}
	if s, ok := flatString(byName["LensModel"]); ok {
		out.lens = s
	}
	if v, ok := flatFloat(byName["FocalLength"]); ok {
		out.focal = floatPtr(v)
	}
	if v, ok := flatFloat(byName["FNumber"]); ok {
		out.aperture = floatPtr(v)
	}
	if v, ok := flatInt(byName["ISOSpeedRatings"]); ok {
		out.iso = intPtr(v)
	}
	if num, den, ok := flatRational(byName["ExposureTime"]); ok {
		out.shutter = FormatShutter(num, den)
	}
	if v, ok := flatInt(byName["PixelXDimension"]); ok {
		out.width = intPtr(v)
	}
	if v, ok := flatInt(byName["PixelYDimension"]); ok {
		out.height = intPtr(v)
	}

	return out, nil
}

// flatString coerces a flat-tag value to a trimmed string.
func flatString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.Trim(s, "\x00 ")
	return s, s != ""
}

// flatRational coerces a flat-tag value to a single rational pair.
func flatRational(v interface{}) (num, den int64, ok bool) {
	switch r := v.(type) {
	case []exifcommon.Rational:
		if len(r) == 0 {
			return 0, 0, false
		}
		return int64(r[0].Numerator), int64(r[0].Denominator), true
	case []exifcommon.SignedRational:
		if len(r) == 0 {
			return 0, 0, false
		}
		return int64(r[0].Numerator), int64(r[0].Denominator), true
	}
	return 0, 0, false
}

// flatFloat coerces a flat-tag value to a float. Rationals with a zero
// denominator are treated as absent, never as an error.
func flatFloat(v interface{}) (float64, bool) {
	if num, den, ok := flatRational(v); ok {
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}
	if n, ok := flatInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

// flatInt coerces a flat-tag value to an int.
func flatInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case []uint16:
		if len(n) == 0 {
			return 0, false
		}
		return int(n[0]), true
	case []uint32:
		if len(n) == 0 {
			return 0, false
		}
		return int(n[0]), true
	case []int32:
		if len(n) == 0 {
			return 0, false
		}
		return int(n[0]), true
	}
	return 0, false
}

// imageDimensions reads pixel dimensions without fully decoding the image.
func imageDimensions(path string) (width, height int, err error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn("failed to close image file %s: %v", path, cerr)
		}
	}()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}

// decodeStandardImage handles jpg, jpeg, png and webp files.
func decodeStandardImage(path string, info os.FileInfo) (*Record, error) {
	rec := baseRecord(path, info, mediatypes.CategoryImage)
	meta := &ImageMeta{}

	w, h, err := imageDimensions(path)
	if err != nil {
		// Unreadable container: treat as a decode failure, consistent
		// with the per-file absorption contract.
		return nil, fmt.Errorf("read dimensions of %s: %w", path, err)
	}
	meta.Width = intPtr(w)
	meta.Height = intPtr(h)

	fields, strategy, err := readExif(path, imageExifStrategies)
	if err != nil {
		logging.Debug("no exif for %s: %v", path, err)
	} else {
		logging.Debug("exif for %s via %s", path, strategy)
		applyExifFields(fields, meta, false)
	}

	rec.Image = meta
	return rec, nil
}

// applyExifFields copies a strategy's field set into an ImageMeta.
// When overrideDims is false, dimensions already read from the container
// are kept in preference to EXIF-reported ones.
func applyExifFields(fields *exifFields, meta *ImageMeta, overrideDims bool) {
	if fields.timestamp != "" {
		applyTimestamp(fields.timestamp, &meta.DateTaken, &meta.TimeTaken)
	}
	if fields.camera != "" {
		meta.Camera = strPtr(fields.camera)
	}
	if fields.lens != "" {
		meta.Lens = strPtr(fields.lens)
	}
	if fields.focal != nil {
		meta.FocalLength = fields.focal
	}
	if fields.aperture != nil {
		meta.Aperture = fields.aperture
	}
	if fields.iso != nil {
		meta.ISO = fields.iso
	}
	if fields.shutter != "" {
		meta.ShutterSpeed = strPtr(fields.shutter)
	}
	if overrideDims || meta.Width == nil {
		if fields.width != nil {
			meta.Width = fields.width
		}
	}
	if overrideDims || meta.Height == nil {
		if fields.height != nil {
			meta.Height = fields.height
		}
	}
}
