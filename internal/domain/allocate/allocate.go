// Package allocate chooses calendar dates for items that arrive without
// an operator-pinned date. Candidates are ranked by weekday engagement
// priority and spread across the weeks of the range with a greedy
// per-week quota; this is a heuristic spread, not an optimizer.
//
// Capacity is the validator's concern: Assign trusts that enough
// candidates exist and simply stops when they run out.
package allocate

import (
	"sort"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/window"
)

const daysPerWeek = 7

// Slot is a date available for auto-assignment, annotated with its
// weekday engagement priority and its week bucket (week 0 is the 7-day
// span starting at the range start).
type Slot struct {
	Date     time.Time
	Priority int
	Week     int
}

// Assignment pairs an unpinned item with its allocated date.
type Assignment struct {
	Date time.Time
	Item model.ScheduleItem
}

// Candidates enumerates every date in rng that is neither reserved nor
// claimed by a pinned item, in chronological order. Both sets are keyed
// by model.DateKey.
func Candidates(rng model.DateRange, reserved, pinned map[string]struct{}) []Slot {
	var slots []Slot
	for d := rng.Start; !d.After(rng.End); d = d.AddDate(0, 0, 1) {
		key := model.DateKey(d)
		if _, ok := reserved[key]; ok {
			continue
		}
		if _, ok := pinned[key]; ok {
			continue
		}
		slots = append(slots, Slot{
			Date:     d,
			Priority: window.Priority(int(d.Weekday())),
			Week:     int(d.Sub(rng.Start).Hours()) / 24 / daysPerWeek,
		})
	}
	return slots
}

// Assign distributes candidate dates across items, spreading them over
// the weeks of rng. The result is sorted chronologically. Items keep
// their input order relative to the sorted dates. When items is empty
// the assignment is empty; when candidates run short the tail of items
// is left unassigned (the validator rejects such requests up front).
func Assign(rng model.DateRange, candidates []Slot, items []model.ScheduleItem) []Assignment {
	if len(items) == 0 {
		return nil
	}

	weekCount := (rng.Days() + daysPerWeek - 1) / daysPerWeek
	if weekCount < 1 {
		weekCount = 1
	}

	// Bucket by week, best weekday first inside each bucket.
	buckets := make([][]Slot, weekCount)
	for _, s := range candidates {
		if s.Week < 0 || s.Week >= weekCount {
			continue
		}
		buckets[s.Week] = append(buckets[s.Week], s)
	}
	for _, b := range buckets {
		sort.Slice(b, func(i, j int) bool {
			if b[i].Priority != b[j].Priority {
				return b[i].Priority > b[j].Priority
			}
			return b[i].Date.Before(b[j].Date)
		})
	}

	target := (len(items) + weekCount - 1) / weekCount
	remaining := len(items)
	taken := make([]int, weekCount)
	var chosen []Slot

	// First pass honors the per-week quota; the fill pass drains
	// whatever is left when small buckets could not meet it.
	for week := 0; week < weekCount && remaining > 0; week++ {
		for taken[week] < target && taken[week] < len(buckets[week]) && remaining > 0 {
			chosen = append(chosen, buckets[week][taken[week]])
			taken[week]++
			remaining--
		}
	}
	for week := 0; week < weekCount && remaining > 0; week++ {
		for taken[week] < len(buckets[week]) && remaining > 0 {
			chosen = append(chosen, buckets[week][taken[week]])
			taken[week]++
			remaining--
		}
	}

	sort.Slice(chosen, func(i, j int) bool { return chosen[i].Date.Before(chosen[j].Date) })

	out := make([]Assignment, 0, len(chosen))
	for i, s := range chosen {
		out = append(out, Assignment{Date: s.Date, Item: items[i]})
	}
	return out
}
