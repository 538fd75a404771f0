// Package wallclock converts schedule time strings to and from
// minutes-of-day. Both core computations share these rules so their
// interval arithmetic agrees.
package wallclock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Clock layout constants.
const (
	minutesPerHour = 60
	hoursPerDay    = 24
	maxHour        = 23
	maxMinute      = 59
	maxSecond      = 59
)

// ErrBadClock marks an unparseable wall-clock string. Callers must let it
// propagate; silently coercing a bad time to midnight would misrender an
// entire schedule.
var ErrBadClock = errors.New("bad wall-clock time")

// ParseMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// A seconds component is validated but discarded: scheduling granularity
// is minutes, so 09:00:59 buckets as 09:00.
func ParseMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	hour, err := parseComponent(parts[0], maxHour)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: hour %v", ErrBadClock, s, err)
	}
	minute, err := parseComponent(parts[1], maxMinute)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minute %v", ErrBadClock, s, err)
	}
	if len(parts) == 3 {
		if _, err := parseComponent(parts[2], maxSecond); err != nil {
			return 0, fmt.Errorf("%w: %q: second %v", ErrBadClock, s, err)
		}
	}
	return hour*minutesPerHour + minute, nil
}

// FormatMinutes renders minutes-of-day as "HH:MM". Values past midnight
// wrap modulo 24 hours: a scene starting 23:50 with a 30 minute duration
// ends at "00:20". This is a display label only; day-boundary semantics
// stay with the caller's day numbers.
func FormatMinutes(m int) string {
	m %= hoursPerDay * minutesPerHour
	if m < 0 {
		m += hoursPerDay * minutesPerHour
	}
	return fmt.Sprintf("%02d:%02d", m/minutesPerHour, m%minutesPerHour)
}

func parseComponent(s string, max int) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("out of range 0..%d", max)
	}
	return n, nil
}
