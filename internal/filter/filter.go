package filter

import (
	"strings"
	"time"

	"gallery-inspector/internal/control"
	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/mediatypes"
)

// Range is a closed numeric interval with optional bounds. A Range with
// both bounds nil still requires the field to be present; absence of the
// field always excludes once the section is active.
type Range struct {
	Min *float64
	Max *float64
}

func (r *Range) contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Criteria is the conjunctive predicate set. Zero-valued sections are
// inactive; a file must pass every active section to be kept. Camera,
// lens, aperture, ISO and shutter criteria only apply to photos, so
// activating any of them restricts the result to the image category.
type Criteria struct {
	Categories []mediatypes.Category
	Extensions []string

	DateFrom *time.Time
	DateTo   *time.Time

	Cameras []string
	Lenses  []string

	Aperture *Range
	ISO      *Range
	Shutter  *Range
}

// impliesImage reports whether any active section is photo-specific.
func (c *Criteria) impliesImage() bool {
	return len(c.Cameras) > 0 || len(c.Lenses) > 0 ||
		c.Aperture != nil || c.ISO != nil || c.Shutter != nil
}

func (c *Criteria) dateActive() bool {
	return c.DateFrom != nil || c.DateTo != nil
}

// Apply evaluates every path against the criteria and returns the subset
// that passes, in input order. Each file is decoded on demand; progress is
// reported per evaluated file whether it matched or not. Cancellation
// returns the matches accumulated so far.
func Apply(paths []string, c Criteria, tok *control.Token, sink control.Sink) []string {
	reporter := control.NewReporter(len(paths), sink)

	var matched []string
	for _, path := range paths {
		if !tok.Step() {
			break
		}
		if matches(path, &c) {
			matched = append(matched, path)
		}
		reporter.Complete()
	}
	return matched
}

func matches(path string, c *Criteria) bool {
	category := mediatypes.ClassifyPath(path)

	if c.impliesImage() && category != mediatypes.CategoryImage {
		return false
	}
	if len(c.Categories) > 0 && !containsCategory(c.Categories, category) {
		return false
	}
	if len(c.Extensions) > 0 && !containsExtension(c.Extensions, mediatypes.Ext(path)) {
		return false
	}

	_, rec := decode.File(path)
	if rec == nil {
		return false
	}
	return recordMatches(path, rec, c)
}

// recordMatches evaluates the metadata-dependent sections against an
// already-decoded record. path is the file as it was given to Apply; the
// record's reconstructed path lowercases the extension and must not be
// used to touch the filesystem.
func recordMatches(path string, rec *decode.Record, c *Criteria) bool {
	if c.dateActive() && !dateMatches(path, rec, c) {
		return false
	}

	if len(c.Cameras) > 0 {
		if rec.Image == nil || rec.Image.Camera == nil ||
			!containsString(c.Cameras, *rec.Image.Camera) {
			return false
		}
	}
	if len(c.Lenses) > 0 {
		if rec.Image == nil || rec.Image.Lens == nil ||
			!containsString(c.Lenses, *rec.Image.Lens) {
			return false
		}
	}

	if c.Aperture != nil {
		if rec.Image == nil || rec.Image.Aperture == nil ||
			!c.Aperture.contains(*rec.Image.Aperture) {
			return false
		}
	}
	if c.ISO != nil {
		if rec.Image == nil || rec.Image.ISO == nil ||
			!c.ISO.contains(float64(*rec.Image.ISO)) {
			return false
		}
	}
	if c.Shutter != nil {
		if rec.Image == nil || rec.Image.ShutterSpeed == nil ||
			!c.Shutter.contains(decode.ParseShutter(*rec.Image.ShutterSpeed)) {
			return false
		}
	}

	return true
}

// dateMatches resolves the file's capture date, falling back to the
// filesystem modification time when no metadata date is present. A file
// with no resolvable date at all is excluded.
func dateMatches(path string, rec *decode.Record, c *Criteria) bool {
	date, ok := captureDate(rec)
	if !ok {
		info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
		if err != nil {
			return false
		}
		date = info.ModTime().Truncate(24 * time.Hour)
	}

	if c.DateFrom != nil && date.Before(*c.DateFrom) {
		return false
	}
	if c.DateTo != nil && date.After(*c.DateTo) {
		return false
	}
	return true
}

// captureDate extracts the decoded capture date as a calendar date.
func captureDate(rec *decode.Record) (time.Time, bool) {
	var raw *string
	switch {
	case rec.Image != nil:
		raw = rec.Image.DateTaken
	case rec.Video != nil:
		raw = rec.Video.DateTaken
	}
	if raw == nil {
		return time.Time{}, false
	}
	d, err := time.Parse("2006:01:02", *raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func containsCategory(list []mediatypes.Category, c mediatypes.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsExtension(list []string, ext string) bool {
	for _, v := range list {
		v = strings.ToLower(v)
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		if v == ext {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
