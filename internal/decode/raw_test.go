package decode

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeLiteral(t *testing.T) {
	data := append([]byte{0x00, 0x01, 0xff}, []byte("Canon EOS R6\x00junk")...)
	got := probeLiteral(data, []byte("Canon EOS "))
	if got != "Canon EOS R6" {
		t.Errorf("probeLiteral = %q, want %q", got, "Canon EOS R6")
	}

	if got := probeLiteral([]byte("nothing here"), []byte("Canon EOS ")); got != "" {
		t.Errorf("probeLiteral on miss = %q, want empty", got)
	}
}

func TestProbeLens(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		prefix string
		want   string
	}{
		{
			"rf lens",
			append([]byte{0x03, 0xEF}, []byte("RF24-105mm F4 L IS USM\x00")...),
			"RF",
			"RF24-105mm F4 L IS USM",
		},
		{
			"ef lens after false positive",
			[]byte("EF\x01\x02 then EF-S18-55mm f/3.5-5.6 III\x00"),
			"EF",
			"EF-S18-55mm f/3.5-5.6 III",
		},
		{
			"prefix without mm rejected",
			[]byte("EFGH just text\x00"),
			"EF",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := probeLens(tt.data, []byte(tt.prefix))
			if got != tt.want {
				t.Errorf("probeLens = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintableRun(t *testing.T) {
	if got := printableRun([]byte("hello world\x00trailing")); got != "hello world" {
		t.Errorf("printableRun = %q", got)
	}
	if got := printableRun([]byte("padded   \x00")); got != "padded" {
		t.Errorf("trailing spaces must be trimmed, got %q", got)
	}
	if got := printableRun([]byte{0x01, 0x02}); got != "" {
		t.Errorf("binary input should yield empty, got %q", got)
	}
}

func TestReadCR3NameProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.cr3")

	content := append([]byte{0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70}, []byte("crx ")...)
	content = append(content, 0xde, 0xad)
	content = append(content, []byte("Canon EOS R5\x00")...)
	content = append(content, 0x01, 0x02)
	content = append(content, []byte("RF50mm F1.8 STM\x00")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fields, err := readCR3NameProbe(path)
	if err != nil {
		t.Fatalf("readCR3NameProbe: %v", err)
	}
	if fields.camera != "Canon EOS R5" {
		t.Errorf("camera = %q, want Canon EOS R5", fields.camera)
	}
	if fields.lens != "RF50mm F1.8 STM" {
		t.Errorf("lens = %q, want RF50mm F1.8 STM", fields.lens)
	}
}

func TestReadCR3NameProbeNoMarkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.cr3")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := readCR3NameProbe(path); err == nil {
		t.Error("expected an error for a file without Canon markers")
	}
}

func TestReadCR3TiffScanNoBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.cr3")
	if err := os.WriteFile(path, []byte("no tiff magic anywhere"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := readCR3TiffScan(path); err == nil {
		t.Error("expected an error when no TIFF blocks are present")
	}
}

func TestMergeExifFields(t *testing.T) {
	dst := &exifFields{camera: "early", iso: intPtr(100)}
	src := &exifFields{camera: "late", lens: "RF35mm F1.8"}

	mergeExifFields(dst, src)

	if dst.camera != "late" {
		t.Errorf("later block must win, camera = %q", dst.camera)
	}
	if dst.lens != "RF35mm F1.8" {
		t.Errorf("lens = %q", dst.lens)
	}
	if dst.iso == nil || *dst.iso != 100 {
		t.Errorf("unset src fields must not clear dst, iso = %v", dst.iso)
	}
}

func TestNormalizeShutterLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1/400", "1/400s"},
		{"1/400s", "1/400s"},
		{"2.5", "2.50s"},
		{"0.004", "0.004s"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeShutterLabel(tt.input); got != tt.want {
			t.Errorf("normalizeShutterLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
