package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gallery-inspector/internal/control"
	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
	"gallery-inspector/internal/metrics"
)

// Dimension is one folder-hierarchy level derived from file metadata.
type Dimension string

const (
	DimYear  Dimension = "Year"
	DimMonth Dimension = "Month"
	DimModel Dimension = "Model"
	DimLens  Dimension = "Lens"
)

// ConflictPolicy decides what happens when a destination already exists.
type ConflictPolicy string

const (
	// Rename appends _1, _2, ... to the stem until the name is free.
	Rename ConflictPolicy = "rename"
	// Skip leaves the existing destination untouched and records a skip.
	Skip ConflictPolicy = "skip"
)

// noInfo is the folder level used when a dimension cannot be resolved.
const noInfo = "No Info"

// Options configures one reorganization run. The engine never mutates it.
type Options struct {
	// ByMediaType prepends a Photos, Videos or Other bucket.
	ByMediaType bool
	// Structure is the ordered list of dimension levels below the bucket.
	Structure []Dimension
	// OnExist is the conflict policy; defaults to Rename when empty.
	OnExist ConflictPolicy
	// Verbose logs every copied file.
	Verbose bool
}

// Report summarizes a run. Excluded holds the source path of every file
// that was skipped or errored.
type Report struct {
	Total    int
	Copied   int
	Skipped  int
	Errored  int
	Excluded []string
}

// Run copies every file in paths into a tree under outputRoot derived per
// the options. Directories in the input are ignored. Cancellation stops
// after the file in flight; already-copied files stay in place. The only
// propagated error is failure to create the output root itself.
func Run(paths []string, outputRoot string, opts Options, tok *control.Token, sink control.Sink) (*Report, error) {
	start := time.Now()

	if opts.OnExist == "" {
		opts.OnExist = Rename
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root %s: %w", outputRoot, err)
	}

	files := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := filesystem.StatWithRetry(p, filesystem.DefaultRetryConfig())
		if err == nil && info.IsDir() {
			continue
		}
		files = append(files, p)
	}

	report := &Report{Total: len(files)}
	reporter := control.NewReporter(len(files), sink)

	for _, path := range files {
		if !tok.Step() {
			logging.Warn("reorganization stopped after %d of %d files", report.Copied, report.Total)
			break
		}
		processFile(path, outputRoot, opts, report)
		reporter.Complete()
	}

	metrics.OrganizeDuration.Observe(time.Since(start).Seconds())
	logging.Info("reorganization finished: %d copied, %d skipped, %d errored of %d",
		report.Copied, report.Skipped, report.Errored, report.Total)

	writeExclusionLog(outputRoot, report)
	return report, nil
}

func processFile(path, outputRoot string, opts Options, report *Report) {
	dir := destinationDir(path, outputRoot, opts)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Warn("cannot create %s: %v", dir, err)
		recordError(report, path)
		return
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		if opts.OnExist == Skip {
			report.Skipped++
			report.Excluded = append(report.Excluded, path)
			metrics.OrganizeFilesTotal.WithLabelValues("skipped").Inc()
			return
		}
		dest = renameDestination(dest)
	}

	if err := copyPreservingTimes(path, dest); err != nil {
		logging.Warn("cannot copy %s: %v", path, err)
		recordError(report, path)
		return
	}

	if opts.Verbose {
		logging.Info("copied %s -> %s", path, dest)
	}
	report.Copied++
	metrics.OrganizeFilesTotal.WithLabelValues("copied").Inc()
}

func recordError(report *Report, path string) {
	report.Errored++
	report.Excluded = append(report.Excluded, path)
	metrics.OrganizeFilesTotal.WithLabelValues("error").Inc()
}

// destinationDir resolves the target directory for one file. Metadata
// extraction failures are absorbed here: the file lands in "No Info" and
// the copy still proceeds.
func destinationDir(path, outputRoot string, opts Options) string {
	category, rec := decode.File(path)
	return destinationFor(category, rec, outputRoot, opts)
}

// destinationFor derives the target directory from an already-decoded
// record. rec may be nil when extraction failed; every dimension then
// resolves to "No Info".
func destinationFor(category mediatypes.Category, rec *decode.Record, outputRoot string, opts Options) string {
	dir := outputRoot
	if opts.ByMediaType {
		switch category {
		case mediatypes.CategoryImage:
			dir = filepath.Join(dir, "Photos")
		case mediatypes.CategoryVideo:
			dir = filepath.Join(dir, "Videos")
		default:
			dir = filepath.Join(dir, "Other")
		}
	}

	structure := opts.Structure
	if category == mediatypes.CategoryVideo && len(structure) == 0 {
		// A flat video bucket is not useful; videos without structure
		// dimensions always land in "No Info".
		return filepath.Join(dir, noInfo)
	}

	for _, dim := range structure {
		value := resolveDimension(rec, dim)
		if value == "" {
			return filepath.Join(dir, noInfo)
		}
		dir = filepath.Join(dir, value)
	}
	return dir
}

// resolveDimension extracts one structure level's value, or "" when the
// record carries no usable data for it.
func resolveDimension(rec *decode.Record, dim Dimension) string {
	if rec == nil {
		return ""
	}

	switch dim {
	case DimYear, DimMonth:
		date := captureDate(rec)
		if date == nil {
			return ""
		}
		parts := strings.SplitN(*date, ":", 3)
		if len(parts) < 2 {
			return ""
		}
		if dim == DimYear {
			return parts[0]
		}
		return parts[1]

	case DimModel:
		if rec.Image == nil || rec.Image.Camera == nil {
			return ""
		}
		return SanitizeFolderName(*rec.Image.Camera)

	case DimLens:
		if rec.Image == nil || rec.Image.Lens == nil {
			return ""
		}
		return SanitizeFolderName(*rec.Image.Lens)
	}
	return ""
}

func captureDate(rec *decode.Record) *string {
	switch {
	case rec.Image != nil:
		return rec.Image.DateTaken
	case rec.Video != nil:
		return rec.Video.DateTaken
	}
	return nil
}

// SanitizeFolderName replaces every character outside [A-Za-z0-9_.- ] with
// an underscore so metadata values are safe as directory names.
func SanitizeFolderName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '.' || r == '-' || r == ' ':
			return r
		}
		return '_'
	}, name)
}

// renameDestination finds the first free _1, _2, ... variant of dest.
func renameDestination(dest string) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// copyPreservingTimes copies src to dest and carries over the source's
// modification and access times.
func copyPreservingTimes(src, dest string) error {
	info, err := filesystem.StatWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}

	in, err := filesystem.OpenWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			logging.Warn("failed to close %s: %v", src, cerr)
		}
	}()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

// writeExclusionLog writes the timestamped exclusion report under a logs/
// directory inside the output root. Best effort: failures are logged and
// never fail the run.
func writeExclusionLog(outputRoot string, report *Report) {
	if len(report.Excluded) == 0 {
		return
	}

	logDir := filepath.Join(outputRoot, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logging.Warn("cannot create log directory %s: %v", logDir, err)
		return
	}

	name := fmt.Sprintf("error_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(logDir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Reorganization report %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total: %d, copied: %d, skipped: %d, errored: %d\n\n",
		report.Total, report.Copied, report.Skipped, report.Errored)
	for _, p := range report.Excluded {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		logging.Warn("cannot write exclusion log %s: %v", path, err)
		return
	}
	logging.Info("exclusion log written to %s", path)
}
