package plan

import (
	"sort"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
)

// Compose merges manual and auto entries into the final plan, ordered
// by date ascending, with summary counts. Inputs have already passed
// validation and allocation, so there are no error paths: entry dates
// are unique by construction.
func Compose(manual, auto []model.ScheduledEntry, rng model.DateRange, blockedByExisting int) model.SchedulePlan {
	entries := make([]model.ScheduledEntry, 0, len(manual)+len(auto))
	entries = append(entries, manual...)
	entries = append(entries, auto...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	return model.SchedulePlan{
		Range:             rng,
		Entries:           entries,
		ManualCount:       len(manual),
		AutoCount:         len(auto),
		BlockedByExisting: blockedByExisting,
	}
}
