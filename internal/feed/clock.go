package feed

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts an H:MM:SS clock string into seconds since the start of the service day.
// Hours are unbounded so post-midnight times such as 25:10:00 are accepted as is.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var values [3]int
	for i, p := range parts {
		if p == "" {
			return 0, false
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		values[i] = v
	}
	if values[1] > 59 || values[2] > 59 {
		return 0, false
	}
	return values[0]*3600 + values[1]*60 + values[2], true
}

// FormatClock renders seconds since the start of the service day as HH:MM:SS without wrapping
// at 24 hours.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
