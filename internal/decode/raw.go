package decode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
)

// decodeCR2 handles Canon CR2 raw files. CR2 is TIFF-structured, so goexif
// reads it directly from offset zero.
func decodeCR2(path string, info os.FileInfo) (*Record, error) {
	rec := baseRecord(path, info, mediatypes.CategoryImage)
	meta := &ImageMeta{}

	fields, strategy, err := readExif(path, imageExifStrategies)
	if err != nil {
		logging.Debug("no exif for %s: %v", path, err)
	} else {
		logging.Debug("exif for %s via %s", path, strategy)
		applyExifFields(fields, meta, true)
	}

	rec.Image = meta
	return rec, nil
}

// cr3ExifStrategies tries exiftool's container parse first, then a scan for
// embedded TIFF blocks, then a last-resort scan for literal Canon model and
// lens strings. The later strategies are best effort; fields they fill are
// lower confidence than a real container parse.
var cr3ExifStrategies = []exifStrategy{
	{name: "container", read: readCR3Container},
	{name: "tiffscan", read: readCR3TiffScan},
	{name: "nameprobe", read: readCR3NameProbe},
}

// decodeCR3 handles Canon CR3 raw files, which are ISO-BMFF containers
// rather than TIFF and so need their own strategies.
func decodeCR3(path string, info os.FileInfo) (*Record, error) {
	rec := baseRecord(path, info, mediatypes.CategoryImage)
	meta := &ImageMeta{}

	fields, strategy, err := readExif(path, cr3ExifStrategies)
	if err != nil {
		logging.Debug("no exif for %s: %v", path, err)
	} else {
		logging.Debug("exif for %s via %s", path, strategy)
		applyExifFields(fields, meta, true)
	}

	rec.Image = meta
	return rec, nil
}

// readCR3Container maps exiftool's container fields onto the image field
// set. exiftool understands the CR3 box structure natively.
func readCR3Container(path string) (*exifFields, error) {
	m, err := readContainer(path)
	if err != nil {
		return nil, err
	}

	out := &exifFields{}
	if s, ok := m.str("DateTimeOriginal", "CreateDate"); ok {
		out.timestamp = s
	}
	if s, ok := m.str("Model"); ok {
		out.camera = strings.TrimSpace(s)
	}
	if s, ok := m.str("LensModel", "Lens"); ok {
		out.lens = strings.TrimSpace(s)
	}
	if v, ok := m.float("FocalLength"); ok {
		out.focal = floatPtr(v)
	}
	if v, ok := m.float("FNumber", "Aperture"); ok {
		out.aperture = floatPtr(v)
	}
	if v, ok := m.int("ISO"); ok {
		out.iso = intPtr(v)
	}
	if s, ok := m.str("ShutterSpeed", "ExposureTime"); ok {
		out.shutter = normalizeShutterLabel(s)
	} else if v, ok := m.float("ExposureTime"); ok && v > 0 {
		if v >= 1 {
			out.shutter = fmt.Sprintf("%.2fs", v)
		} else {
			out.shutter = fmt.Sprintf("1/%.0f", 1/v)
		}
	}
	if v, ok := m.int("ImageWidth"); ok {
		out.width = intPtr(v)
	}
	if v, ok := m.int("ImageHeight"); ok {
		out.height = intPtr(v)
	}
	return out, nil
}

// normalizeShutterLabel brings exiftool's shutter formatting ("1/400" or
// "2.5") in line with the canonical form, which always carries a trailing
// "s" unit.
func normalizeShutterLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "/") {
		if !strings.HasSuffix(s, "s") {
			s += "s"
		}
		return s
	}
	if v := ParseShutter(s); v >= 1 {
		return fmt.Sprintf("%.2fs", v)
	}
	if !strings.HasSuffix(s, "s") {
		s += "s"
	}
	return s
}

// cr3ScanLimit bounds how much of a CR3 file the TIFF scan reads. The
// metadata boxes sit near the start of the container, well inside this.
const cr3ScanLimit = 4 << 20

var tiffMagics = [][]byte{
	[]byte("II*\x00"),
	[]byte("MM\x00*"),
}

// readCR3TiffScan scans the head of the file for embedded TIFF blocks and
// decodes each as EXIF. CR3 stores several TIFF-structured metadata boxes;
// the later ones carry the EXIF IFD proper, so later successful blocks
// override earlier ones.
func readCR3TiffScan(path string) (*exifFields, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn("failed to close %s: %v", path, cerr)
		}
	}()

	head, err := io.ReadAll(io.LimitReader(f, cr3ScanLimit))
	if err != nil {
		return nil, err
	}

	var merged *exifFields
	for _, magic := range tiffMagics {
		for off := 0; off < len(head); {
			i := bytes.Index(head[off:], magic)
			if i < 0 {
				break
			}
			pos := off + i
			x, err := exif.Decode(bytes.NewReader(head[pos:]))
			if err == nil {
				fields := fieldsFromGoexif(x)
				if !fields.empty() {
					if merged == nil {
						merged = fields
					} else {
						mergeExifFields(merged, fields)
					}
				}
			}
			off = pos + len(magic)
		}
	}

	if merged == nil {
		return nil, fmt.Errorf("no tiff blocks in %s", path)
	}
	return merged, nil
}

// fieldsFromGoexif extracts the standard field set from a decoded goexif
// handle.
func fieldsFromGoexif(x *exif.Exif) *exifFields {
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
	return out
}

// mergeExifFields overlays src's non-empty fields onto dst. Later blocks
// win over earlier ones.
func mergeExifFields(dst, src *exifFields) {
	if src.timestamp != "" {
		dst.timestamp = src.timestamp
	}
	if src.camera != "" {
		dst.camera = src.camera
	}
	if src.lens != "" {
		dst.lens = src.lens
	}
	if src.focal != nil {
		dst.focal = src.focal
	}
	if src.aperture != nil {
		dst.aperture = src.aperture
	}
	if src.iso != nil {
		dst.iso = src.iso
	}
	if src.shutter != "" {
		dst.shutter = src.shutter
	}
	if src.width != nil {
		dst.width = src.width
	}
	if src.height != nil {
		dst.height = src.height
	}
}

// readCR3NameProbe is the last resort: scan the file head for the literal
// "Canon EOS " model prefix and an RF/EF lens designation. It recovers
// only the camera and lens names, and only for Canon bodies, but that is
// enough for model- and lens-keyed grouping.
func readCR3NameProbe(path string) (*exifFields, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn("failed to close %s: %v", path, cerr)
		}
	}()

	head, err := io.ReadAll(io.LimitReader(f, cr3ScanLimit))
	if err != nil {
		return nil, err
	}

	out := &exifFields{}
	if model := probeLiteral(head, []byte("Canon EOS ")); model != "" {
		out.camera = model
	}
	for _, prefix := range [][]byte{[]byte("RF"), []byte("EF")} {
		if lens := probeLens(head, prefix); lens != "" {
			out.lens = lens
			break
		}
	}

	if out.empty() {
		return nil, fmt.Errorf("no canon markers in %s", path)
	}
	return out, nil
}

// probeLiteral finds the first occurrence of prefix and returns the
// printable run starting at it.
func probeLiteral(data, prefix []byte) string {
	i := bytes.Index(data, prefix)
	if i < 0 {
		return ""
	}
	return printableRun(data[i:])
}

// probeLens looks for a lens designation: the prefix followed by a
// printable run containing "mm". Short false positives ("EF" appears in
// arbitrary binary) are rejected by the mm requirement.
func probeLens(data, prefix []byte) string {
	for off := 0; off < len(data); {
		i := bytes.Index(data[off:], prefix)
		if i < 0 {
			return ""
		}
		pos := off + i
		run := printableRun(data[pos:])
		if len(run) > len(prefix) && strings.Contains(run, "mm") {
			return run
		}
		off = pos + len(prefix)
	}
	return ""
}

// printableRun returns the longest prefix of data consisting of printable
// ASCII, trimmed of trailing spaces.
func printableRun(data []byte) string {
	end := 0
	for end < len(data) && data[end] >= 0x20 && data[end] < 0x7f {
		end++
	}
	return strings.TrimRight(string(data[:end]), " ")
}
