package scrobble

import (
	"fmt"
	"strconv"
	"strings"
)

// notImplemented is the sentinel some devices report instead of a clock
// value when track timing is unavailable (radio streams, line-in).
const notImplemented = "NOT_IMPLEMENTED"

// ParseClock converts a colon-separated clock string into seconds.
// Accepted forms are "H:MM:SS" and "MM:SS". An empty string or the
// NOT_IMPLEMENTED sentinel means the device has no timing data: ok is
// false and err is nil. Anything else that does not parse is an error,
// never silently coerced to zero.
func ParseClock(text string) (seconds int, ok bool, err error) {
	if text == "" || text == notImplemented {
		return 0, false, nil
	}

	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false, fmt.Errorf("invalid clock value %q", text)
	}

	fields := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false, fmt.Errorf("invalid clock value %q", text)
		}
		fields[i] = n
	}

	if len(fields) == 2 {
		return fields[0]*60 + fields[1], true, nil
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], true, nil
}
