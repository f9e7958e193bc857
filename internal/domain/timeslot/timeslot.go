// Package timeslot assigns a deterministic clock time to a scheduled
// date. Times always land inside one of the weekday's posting windows,
// snapped to a 5-minute grid. For a fixed (date, platform, seed) the
// result never changes; a caller wanting a fresh draw after moving a
// post must vary the seed (see Seed and its revision component).
package timeslot

import (
	"fmt"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/seedclock"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/window"
)

const gridMinutes = 5

// windowSuffix salts the window pick so it stays independent of the
// slot pick within the chosen window.
const windowSuffix = "-window"

// Seed derives the per-date draw seed. prefix is caller-supplied
// (typically "<platform>-<batch>"), and revision is the explicit
// changing component for re-draws: revision 0 reproduces the original
// time, any later revision yields a new deterministic draw.
func Seed(prefix string, date time.Time, revision int) string {
	s := prefix + "-" + model.DateKey(date)
	if revision > 0 {
		s = fmt.Sprintf("%s-r%d", s, revision)
	}
	return s
}

// Assign picks a clock time for date on the given platform, returned as
// 24-hour "HH:MM". When the weekday has more than one window, the seed
// deterministically selects one before the in-window slot is drawn.
func Assign(date time.Time, platform model.Platform, seed string) string {
	windows := window.For(int(date.Weekday()), platform)

	w := windows[0]
	if len(windows) > 1 {
		w = windows[seedclock.DrawIndex(seed+windowSuffix, len(windows))]
	}

	// Inclusive of both window ends.
	slots := (w.EndMinutes-w.StartMinutes)/gridMinutes + 1
	minutes := w.StartMinutes + seedclock.DrawIndex(seed, slots)*gridMinutes

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
