package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" with two-digit fields.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var layout string
	switch len(s) {
	case len("15:04"):
		layout = "15:04"
	case len("15:04:05"):
		layout = "15:04:05"
	default:
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// TimeOfDayOf projects a timestamp onto its time of day. Sub-second precision is dropped.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.seconds() < o.seconds()
}

func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// HourRange is a half-open [From, To) range of hours.
type HourRange struct {
	From int
	To   int
}

func (r HourRange) Contains(hour int) bool {
	return hour >= r.From && hour < r.To
}

var buckets = map[string]HourRange{
	"morning":   {From: 6, To: 12},
	"afternoon": {From: 12, To: 17},
	"evening":   {From: 17, To: 21},
	"am":        {From: 0, To: 12},
	"pm":        {From: 12, To: 24},
}

// Bucket resolves a named time-of-day bucket, case-insensitively.
func Bucket(name string) (HourRange, bool) {
	r, ok := buckets[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// DayBounds returns the half-open window [start of day, start of next day) for the date part of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
