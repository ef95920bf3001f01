package table

import (
	"strings"
	"time"

	"gallery-inspector/internal/decode"
)

// Fixed column schemas. These are a contract with export and dashboard
// code; never reorder or conditionally omit columns.
var (
	ImageColumns = []string{
		"name", "filetype", "directory", "date_taken", "time_taken",
		"camera", "lens", "focal_length", "aperture", "iso",
		"shutter_speed", "size_bytes", "size (MB)", "width", "height",
	}
	VideoColumns = []string{
		"name", "filetype", "directory", "date_taken", "time_taken",
		"size_bytes", "size (MB)", "width", "height",
		"duration_ms", "codec", "frame_rate",
	}
	OtherColumns = []string{
		"name", "filetype", "directory", "size_bytes", "size (MB)",
	}
)

// Table is a column-stable tabular container. Cells are nil when the
// source record carried no value for that column.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// Images builds the image table. Date cells are calendar dates; string
// cells are sanitized for spreadsheet export.
func Images(recs []*decode.Record) Table {
	t := Table{Columns: ImageColumns, Rows: make([][]interface{}, 0, len(recs))}
	for _, r := range recs {
		m := r.Image
		if m == nil {
			m = &decode.ImageMeta{}
		}
		t.Rows = append(t.Rows, []interface{}{
			Sanitize(r.Name),
			Sanitize(r.FileType),
			Sanitize(r.Directory),
			dateCell(m.DateTaken),
			strCell(m.TimeTaken),
			strCell(m.Camera),
			strCell(m.Lens),
			floatCell(m.FocalLength),
			floatCell(m.Aperture),
			intCell(m.ISO),
			strCell(m.ShutterSpeed),
			r.SizeBytes,
			r.SizeMB(),
			intCell(m.Width),
			intCell(m.Height),
		})
	}
	return t
}

// Videos builds the video table.
func Videos(recs []*decode.Record) Table {
	t := Table{Columns: VideoColumns, Rows: make([][]interface{}, 0, len(recs))}
	for _, r := range recs {
		m := r.Video
		if m == nil {
			m = &decode.VideoMeta{}
		}
		t.Rows = append(t.Rows, []interface{}{
			Sanitize(r.Name),
			Sanitize(r.FileType),
			Sanitize(r.Directory),
			dateCell(m.DateTaken),
			strCell(m.TimeTaken),
			r.SizeBytes,
			r.SizeMB(),
			intCell(m.Width),
			intCell(m.Height),
			floatCell(m.DurationMS),
			strCell(m.Codec),
			floatCell(m.FrameRate),
		})
	}
	return t
}

// Others builds the table for files outside the media categories.
func Others(recs []*decode.Record) Table {
	t := Table{Columns: OtherColumns, Rows: make([][]interface{}, 0, len(recs))}
	for _, r := range recs {
		t.Rows = append(t.Rows, []interface{}{
			Sanitize(r.Name),
			Sanitize(r.FileType),
			Sanitize(r.Directory),
			r.SizeBytes,
			r.SizeMB(),
		})
	}
	return t
}

// Sanitize strips control characters (U+0000 through U+001F and U+007F
// through U+009F) from s. Strings without control characters are returned
// unchanged.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return -1
		}
		return r
	}, s)
}

func strCell(p *string) interface{} {
	if p == nil {
		return nil
	}
	return Sanitize(*p)
}

func intCell(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatCell(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// dateCell parses a canonical "YYYY:MM:DD" date into a calendar date.
// Unparsable input is missing, never an error.
func dateCell(p *string) interface{} {
	if p == nil {
		return nil
	}
	d, err := time.Parse("2006:01:02", *p)
	if err != nil {
		return nil
	}
	return d
}
