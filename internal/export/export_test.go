package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/table"
)

func strPtr(s string) *string { return &s }

func TestWorkbookSheets(t *testing.T) {
	rec := &decode.Record{
		Name: "IMG_0001", FileType: "jpg", Directory: "/p", SizeBytes: 1024,
		Image: &decode.ImageMeta{Camera: strPtr("Canon EOS R6")},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	err := Workbook(path,
		table.Images([]*decode.Record{rec}),
		table.Videos(nil),
		table.Others(nil),
	)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, sheet := range []string{"images", "videos", "others"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("missing sheet %q", sheet)
		}
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		t.Error("default sheet must be removed")
	}

	got, err := f.GetCellValue("images", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "IMG_0001" {
		t.Errorf("A2 = %q, want IMG_0001", got)
	}

	header, err := f.GetCellValue("videos", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if header != "name" {
		t.Errorf("empty sheet must still carry headers, A1 = %q", header)
	}
}
