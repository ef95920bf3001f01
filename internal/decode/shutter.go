package decode

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatShutter formats an EXIF exposure-time rational as a display string:
// "2.50s" for exposures longer than one second, "1/800s" otherwise.
// A zero denominator yields "".
func FormatShutter(num, den int64) string {
	if den == 0 {
		return ""
	}
	if num > den {
		return fmt.Sprintf("%.2fs", float64(num)/float64(den))
	}
	return fmt.Sprintf("%d/%ds", num, den)
}

// ParseShutter parses a formatted shutter-speed string back into seconds.
// Accepted shapes: "1/400" or "1/400s" (fractional), "2.50s" or "0.004"
// (plain numeric). Unparsable input yields 0.0.
func ParseShutter(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "s")
	if s == "" {
		return 0
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d == 0 {
			return 0
		}
		return n / d
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
