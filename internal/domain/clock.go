package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var ErrInvalidClock = errors.New("invalid clock")

// Clock is a time of day with second precision, stored as seconds since midnight (0..86399).
type Clock int

// NewClock builds a Clock from hour, minute and second. Values are not normalized.
func NewClock(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q, expected HH:MM or HH:MM:SS", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidClock, s)
	}
	var sec int
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("%w: invalid second in %q", ErrInvalidClock, s)
		}
	}
	return NewClock(h, m, sec), nil
}

// MustParseClock is ParseClock for constants; it panics on bad input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode lets envconfig read a Clock from an environment variable.
func (c *Clock) Decode(value string) error {
	parsed, err := ParseClock(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Seconds returns seconds since midnight.
func (c Clock) Seconds() int { return int(c) }

// String returns HH:MM:SS.
func (c Clock) String() string {
	s := int(c) % secondsPerDay
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
