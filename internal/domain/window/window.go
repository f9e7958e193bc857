// Package window holds the static posting-window and engagement-priority
// tables. Windows are expressed in minutes since midnight, venue-local
// time; a weekday may carry two disjoint windows (e.g. a morning and an
// afternoon slot on the same day).
//
// The tables are fixed at compile time. Two historical variants of
// these tables existed upstream; this package is the single canonical
// copy (see DESIGN.md for the reconciliation notes).
package window

import (
	"fmt"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
)

// Window is one contiguous posting window. Both bounds are inclusive.
type Window struct {
	StartMinutes int
	EndMinutes   int
}

// weekdayPriorities ranks weekdays by expected engagement, indexed
// 0=Sunday..6=Saturday. Higher wins when slots are scarce.
var weekdayPriorities = [7]int{3, 1, 2, 4, 6, 7, 5}

// Priority returns the engagement rank for a weekday. Weekday must be
// in 0..6; anything else is a programmer error.
func Priority(weekday int) int {
	mustWeekday(weekday)
	return weekdayPriorities[weekday]
}

func at(h, m int) int { return h*60 + m }

// defaultWindows applies when no platform is given or the platform is
// unknown. Friday is deliberately split morning/afternoon.
var defaultWindows = [7][]Window{
	time.Sunday:    {{at(10, 0), at(13, 0)}},
	time.Monday:    {{at(11, 0), at(13, 0)}},
	time.Tuesday:   {{at(10, 0), at(12, 0)}},
	time.Wednesday: {{at(12, 0), at(15, 0)}},
	time.Thursday:  {{at(12, 0), at(16, 0)}},
	time.Friday:    {{at(9, 0), at(11, 0)}, {at(15, 0), at(17, 0)}},
	time.Saturday:  {{at(10, 0), at(12, 0)}},
}

// platformWindows overrides the default table per platform. Tables are
// complete: every weekday has at least one window.
var platformWindows = map[model.Platform][7][]Window{
	model.PlatformInstagram: {
		time.Sunday:    {{at(11, 0), at(14, 0)}},
		time.Monday:    {{at(11, 0), at(13, 0)}},
		time.Tuesday:   {{at(10, 0), at(13, 0)}},
		time.Wednesday: {{at(11, 0), at(14, 0)}},
		time.Thursday:  {{at(12, 0), at(16, 0)}},
		time.Friday:    {{at(9, 0), at(11, 0)}, {at(15, 0), at(17, 0)}},
		time.Saturday:  {{at(10, 0), at(12, 0)}},
	},
	model.PlatformFacebook: {
		time.Sunday:    {{at(12, 0), at(14, 0)}},
		time.Monday:    {{at(13, 0), at(15, 0)}},
		time.Tuesday:   {{at(13, 0), at(16, 0)}},
		time.Wednesday: {{at(12, 0), at(15, 0)}},
		time.Thursday:  {{at(13, 0), at(16, 0)}},
		time.Friday:    {{at(9, 0), at(12, 0)}, {at(14, 0), at(16, 0)}},
		time.Saturday:  {{at(12, 0), at(13, 0)}},
	},
	model.PlatformTikTok: {
		time.Sunday:    {{at(16, 0), at(20, 0)}},
		time.Monday:    {{at(18, 0), at(21, 0)}},
		time.Tuesday:   {{at(17, 0), at(20, 0)}},
		time.Wednesday: {{at(17, 0), at(21, 0)}},
		time.Thursday:  {{at(18, 0), at(21, 0)}},
		time.Friday:    {{at(12, 0), at(14, 0)}, {at(18, 0), at(21, 0)}},
		time.Saturday:  {{at(11, 0), at(13, 0)}, {at(19, 0), at(21, 0)}},
	},
}

// For returns the posting windows for a weekday on the given platform.
// An empty or unknown platform falls back to the default table. The
// returned slice is a copy; callers may not mutate shared state through
// it. Weekday must be in 0..6.
func For(weekday int, platform model.Platform) []Window {
	mustWeekday(weekday)
	table := defaultWindows
	if t, ok := platformWindows[platform]; ok {
		table = t
	}
	out := make([]Window, len(table[weekday]))
	copy(out, table[weekday])
	return out
}

// Platforms lists the platforms with dedicated window tables.
func Platforms() []model.Platform {
	return []model.Platform{model.PlatformInstagram, model.PlatformFacebook, model.PlatformTikTok}
}

func mustWeekday(weekday int) {
	if weekday < 0 || weekday > 6 {
		panic(fmt.Sprintf("window: weekday %d out of range 0..6", weekday))
	}
}
