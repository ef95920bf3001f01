package organize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gallery-inspector/internal/control"
	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/mediatypes"
)

func strPtr(s string) *string { return &s }

func imageRec(date, camera, lens string) *decode.Record {
	m := &decode.ImageMeta{}
	if date != "" {
		m.DateTaken = strPtr(date)
	}
	if camera != "" {
		m.Camera = strPtr(camera)
	}
	if lens != "" {
		m.Lens = strPtr(lens)
	}
	return &decode.Record{Category: mediatypes.CategoryImage, Image: m}
}

func TestDestinationFor(t *testing.T) {
	root := "/out"
	tests := []struct {
		name     string
		category mediatypes.Category
		rec      *decode.Record
		opts     Options
		want     string
	}{
		{
			"year month",
			mediatypes.CategoryImage,
			imageRec("2021:05:17", "", ""),
			Options{ByMediaType: true, Structure: []Dimension{DimYear, DimMonth}},
			filepath.Join(root, "Photos", "2021", "05"),
		},
		{
			"model and lens sanitized",
			mediatypes.CategoryImage,
			imageRec("", "Canon EOS R6", "EF-S18-55mm f/3.5-5.6 III"),
			Options{ByMediaType: true, Structure: []Dimension{DimModel, DimLens}},
			filepath.Join(root, "Photos", "Canon EOS R6", "EF-S18-55mm f_3.5-5.6 III"),
		},
		{
			"no info collapses remaining dimensions",
			mediatypes.CategoryImage,
			imageRec("", "Canon EOS R6", ""),
			Options{ByMediaType: true, Structure: []Dimension{DimYear, DimModel}},
			filepath.Join(root, "Photos", "No Info"),
		},
		{
			"no bucket without media type split",
			mediatypes.CategoryImage,
			imageRec("2021:05:17", "", ""),
			Options{Structure: []Dimension{DimYear}},
			filepath.Join(root, "2021"),
		},
		{
			"video empty structure gets no info",
			mediatypes.CategoryVideo,
			&decode.Record{Category: mediatypes.CategoryVideo, Video: &decode.VideoMeta{}},
			Options{ByMediaType: true},
			filepath.Join(root, "Videos", "No Info"),
		},
		{
			"other bucket",
			mediatypes.CategoryOther,
			&decode.Record{Category: mediatypes.CategoryOther},
			Options{ByMediaType: true, Structure: []Dimension{DimYear}},
			filepath.Join(root, "Other", "No Info"),
		},
		{
			"nil record lands in no info",
			mediatypes.CategoryImage,
			nil,
			Options{ByMediaType: true, Structure: []Dimension{DimYear}},
			filepath.Join(root, "Photos", "No Info"),
		},
		{
			"empty structure image stays flat",
			mediatypes.CategoryImage,
			imageRec("2021:05:17", "", ""),
			Options{ByMediaType: true},
			filepath.Join(root, "Photos"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := destinationFor(tt.category, tt.rec, root, tt.opts)
			if got != tt.want {
				t.Errorf("destinationFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"EF-S18-55mm f/3.5-5.6 III", "EF-S18-55mm f_3.5-5.6 III"},
		{"Canon EOS R6", "Canon EOS R6"},
		{"a:b*c?", "a_b_c_"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFolderName(tt.input); got != tt.want {
			t.Errorf("SanitizeFolderName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunCopiesIntoBuckets(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(src, name)
		writeFile(t, p, "data-"+name)
		paths = append(paths, p)
	}

	report, err := Run(paths, out, Options{ByMediaType: true}, control.NewToken(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if report.Total != 3 || report.Copied != 3 || report.Skipped != 0 || report.Errored != 0 {
		t.Errorf("report = %+v", report)
	}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		dest := filepath.Join(out, "Other", name)
		content, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("expected %s: %v", dest, err)
		}
		if string(content) != "data-"+name {
			t.Errorf("content of %s = %q", dest, content)
		}
	}
}

func TestRunPreservesModTime(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "old.txt")
	writeFile(t, p, "x")

	stamp := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
	if err := os.Chtimes(p, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	if _, err := Run([]string{p}, out, Options{}, control.NewToken(), nil); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(out, "old.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), stamp)
	}
}

func TestRunRenameOnConflict(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "dup.txt")
	writeFile(t, p, "new content")
	writeFile(t, filepath.Join(out, "dup.txt"), "existing")

	report, err := Run([]string{p}, out, Options{OnExist: Rename}, control.NewToken(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Copied != 1 {
		t.Fatalf("report = %+v", report)
	}

	existing, _ := os.ReadFile(filepath.Join(out, "dup.txt"))
	if string(existing) != "existing" {
		t.Errorf("original destination was modified: %q", existing)
	}
	renamed, err := os.ReadFile(filepath.Join(out, "dup_1.txt"))
	if err != nil {
		t.Fatalf("expected dup_1.txt: %v", err)
	}
	if string(renamed) != "new content" {
		t.Errorf("renamed copy = %q", renamed)
	}
}

func TestRunSkipOnConflict(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "dup.txt")
	writeFile(t, p, "new content")

	dest := filepath.Join(out, "dup.txt")
	writeFile(t, dest, "existing")
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(dest, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	report, err := Run([]string{p}, out, Options{OnExist: Skip}, control.NewToken(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped != 1 || report.Copied != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Excluded) != 1 || report.Excluded[0] != p {
		t.Errorf("Excluded = %v", report.Excluded)
	}

	content, _ := os.ReadFile(dest)
	if string(content) != "existing" {
		t.Errorf("skip must leave destination bytes untouched, got %q", content)
	}
	info, _ := os.Stat(dest)
	if !info.ModTime().Equal(stamp) {
		t.Errorf("skip must leave destination timestamp untouched, got %v", info.ModTime())
	}
	if _, err := os.Stat(filepath.Join(out, "dup_1.txt")); !os.IsNotExist(err) {
		t.Error("skip must not create renamed variants")
	}
}

func TestRunWritesExclusionLog(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "dup.txt")
	writeFile(t, p, "x")
	writeFile(t, filepath.Join(out, "dup.txt"), "existing")

	if _, err := Run([]string{p}, out, Options{OnExist: Skip}, control.NewToken(), nil); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(out, "logs"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", entries, err)
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "error_") || !strings.HasSuffix(name, ".log") {
		t.Errorf("log name = %q", name)
	}
	content, err := os.ReadFile(filepath.Join(out, "logs", name))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), p) {
		t.Errorf("log must list the excluded path, got:\n%s", content)
	}
}

func TestRunNoLogWhenClean(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "a.txt")
	writeFile(t, p, "x")

	if _, err := Run([]string{p}, out, Options{}, control.NewToken(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "logs")); !os.IsNotExist(err) {
		t.Error("clean runs must not create a logs directory")
	}
}

func TestRunIgnoresDirectories(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	sub := filepath.Join(src, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(src, "a.txt")
	writeFile(t, p, "x")

	report, err := Run([]string{sub, p}, out, Options{}, control.NewToken(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Total != 1 || report.Copied != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestRunCanceled(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	p := filepath.Join(src, "a.txt")
	writeFile(t, p, "x")

	tok := control.NewToken()
	tok.Cancel()

	report, err := Run([]string{p}, out, Options{}, tok, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Copied != 0 {
		t.Errorf("canceled run must not copy, report = %+v", report)
	}
}

func TestRenameDestinationSequence(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "img.jpg")
	writeFile(t, base, "0")
	writeFile(t, filepath.Join(dir, "img_1.jpg"), "1")

	got := renameDestination(base)
	if got != filepath.Join(dir, "img_2.jpg") {
		t.Errorf("renameDestination = %q, want img_2.jpg", got)
	}
}
