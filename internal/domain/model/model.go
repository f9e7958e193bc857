// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Platform identifies the social network a plan targets. An empty
// platform selects the default posting windows.
type Platform string

// Known platforms.
const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
)

// DateSource records how an entry received its calendar date.
type DateSource string

const (
	// SourceManual marks entries whose date was pinned by the operator.
	SourceManual DateSource = "manual"
	// SourceAuto marks entries whose date was chosen by the allocator.
	SourceAuto DateSource = "auto"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether Start is on or before End.
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ParseDate parses an ISO calendar date and normalizes it to UTC
// midnight. Out-of-range components (e.g. 2025-02-30) are rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateKey formats a date in the canonical wire form. It is the key used
// for reserved-date and pinned-date sets.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ScheduleItem is one content item submitted for scheduling. Payload is
// an opaque content reference resolved by upstream ingestion; the
// scheduler never inspects it.
type ScheduleItem struct {
	PinnedDate string // ISO date pinned by the operator, empty for auto
	Payload    string
}

// Pinned reports whether the operator fixed this item's date.
func (i ScheduleItem) Pinned() bool {
	return i.PinnedDate != ""
}

// ScheduledEntry is one item placed on the calendar.
type ScheduledEntry struct {
	Date    time.Time
	Time    string // "HH:MM", 24-hour
	Source  DateSource
	Payload string
}

// SchedulePlan is the composed output of one allocation run. It is
// created fresh per call and never mutated afterwards; the caller owns
// persistence.
type SchedulePlan struct {
	Range             DateRange
	Entries           []ScheduledEntry
	ManualCount       int
	AutoCount         int
	BlockedByExisting int
}
