package decode

import (
	"regexp"
	"strings"
)

// timestampPattern matches the timestamp shapes produced by EXIF readers
// ("2021:05:17 11:49:34") and container parsers ("2021-05-17 11:49:34",
// possibly with surrounding text such as a "UTC" marker).
var timestampPattern = regexp.MustCompile(`(\d{4})[-:](\d{2})[-:](\d{2})[ T](\d{2}:\d{2}:\d{2})`)

// normalizeTimestamp extracts a capture timestamp from s and returns it in
// the canonical "YYYY:MM:DD HH:MM:SS" representation. The boolean is false
// when no timestamp shape is present.
func normalizeTimestamp(s string) (string, bool) {
	s = strings.ReplaceAll(s, " UTC", "")
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1] + ":" + m[2] + ":" + m[3] + " " + m[4], true
}

// splitTimestamp splits a canonical timestamp into its date ("YYYY:MM:DD")
// and time ("HH:MM:SS") components. A date without a time component is
// returned with an empty time part.
func splitTimestamp(canonical string) (date, clock string) {
	parts := strings.SplitN(canonical, " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return canonical, ""
}

// applyTimestamp normalizes a raw timestamp string and stores the split
// date/time parts into the given pointers. Unparsable input leaves both nil.
func applyTimestamp(raw string, date, clock **string) {
	canonical, ok := normalizeTimestamp(raw)
	if !ok {
		return
	}
	d, c := splitTimestamp(canonical)
	*date = strPtr(d)
	if c != "" {
		*clock = strPtr(c)
	}
}
