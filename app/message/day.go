package message

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/luaviz/amanhecer/app/cfg"
)

// Zone returns the fixed content timezone. The offset is explicit UTC
// arithmetic, never a locale lookup, so DST of the host environment can
// not shift the content day.
func Zone() *time.Location {
	offset := cfg.Get().UTCOffset
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*3600)
}

// EffectiveDay computes the content day for the given instant: the wall
// clock date in the content timezone, minus one day while the local hour
// is still before the rollover hour. The result is midnight in the content
// timezone.
func EffectiveDay(now time.Time) time.Time {
	loc := Zone()
	local := now.In(loc)

	if local.Hour() < cfg.Get().RolloverHour {
		local = local.AddDate(0, 0, -1)
	}

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ParseDayToken parses a DD/MM/YYYY day token into midnight of that day in
// the content timezone. Tokens that do not name a real calendar day (for
// example 31/02/2025) are rejected rather than rolled over.
func ParseDayToken(token string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid day token: %q", token)
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in token %q: %w", token, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in token %q: %w", token, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in token %q: %w", token, err)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, Zone())
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, fmt.Errorf("day token %q does not name a calendar day", token)
	}

	return d, nil
}

// FormatDayToken renders a date as the canonical DD/MM/YYYY day token.
func FormatDayToken(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// SameDay reports whether two instants fall on the same calendar date,
// ignoring their time components.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
