// Package validate checks a batch scheduling request before any
// allocation is attempted. All applicable problems are collected in one
// pass rather than failing fast, so the operator can fix an upload in
// one round trip. Allocation must never proceed on a failed result.
package validate

import (
	"fmt"
	"sort"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
)

// Kind labels one class of validation failure.
type Kind string

// Issue kinds, in the order checks run.
const (
	KindRange         Kind = "range"
	KindInvalidDate   Kind = "invalid_date"
	KindOutOfRange    Kind = "out_of_range"
	KindDuplicateDate Kind = "duplicate_date"
	KindConflict      Kind = "conflict"
	KindCapacity      Kind = "capacity"
)

// Issue is one validation failure. Rows are zero-based item indices in
// the submitted batch.
type Issue struct {
	Kind      Kind   `json:"kind"`
	Rows      []int  `json:"rows,omitempty"`
	Date      string `json:"date,omitempty"`
	Needed    int    `json:"needed,omitempty"`
	Available int    `json:"available,omitempty"`
	Message   string `json:"message"`
}

// Err maps the issue onto its sentinel kind, wrapped with the message.
func (i Issue) Err() error {
	var kind error
	switch i.Kind {
	case KindRange:
		kind = ErrRange
	case KindInvalidDate:
		kind = ErrInvalidDate
	case KindOutOfRange:
		kind = ErrOutOfRange
	case KindDuplicateDate:
		kind = ErrDuplicateDate
	case KindConflict:
		kind = ErrConflict
	case KindCapacity:
		kind = ErrCapacity
	default:
		return fmt.Errorf("validate: %s", i.Message)
	}
	return fmt.Errorf("%w: %s", kind, i.Message)
}

// Result is the outcome of one validation pass.
type Result struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues,omitempty"`
}

// Check runs every validation rule against the request and accumulates
// all failures. reserved is keyed by model.DateKey.
func Check(rng model.DateRange, reserved map[string]struct{}, items []model.ScheduleItem) Result {
	var issues []Issue

	if !rng.Valid() {
		issues = append(issues, Issue{
			Kind: KindRange,
			Message: fmt.Sprintf("range start %s is after end %s",
				model.DateKey(rng.Start), model.DateKey(rng.End)),
		})
	}

	// Parse pinned dates once; rows that fail here are excluded from
	// the later per-date checks.
	pinnedRows := make(map[string][]int)
	needed := 0
	for row, item := range items {
		if !item.Pinned() {
			needed++
			continue
		}
		d, err := model.ParseDate(item.PinnedDate)
		if err != nil {
			issues = append(issues, Issue{
				Kind:    KindInvalidDate,
				Rows:    []int{row},
				Date:    item.PinnedDate,
				Message: fmt.Sprintf("row %d: pinned date %q does not parse", row, item.PinnedDate),
			})
			continue
		}
		key := model.DateKey(d)
		if rng.Valid() && !rng.Contains(d) {
			issues = append(issues, Issue{
				Kind:    KindOutOfRange,
				Rows:    []int{row},
				Date:    key,
				Message: fmt.Sprintf("row %d: pinned date %s outside %s..%s", row, key, model.DateKey(rng.Start), model.DateKey(rng.End)),
			})
		}
		pinnedRows[key] = append(pinnedRows[key], row)
	}

	for _, key := range sortedKeys(pinnedRows) {
		rows := pinnedRows[key]
		if len(rows) > 1 {
			issues = append(issues, Issue{
				Kind:    KindDuplicateDate,
				Rows:    rows,
				Date:    key,
				Message: fmt.Sprintf("rows %v pin the same date %s", rows, key),
			})
		}
		if _, taken := reserved[key]; taken {
			issues = append(issues, Issue{
				Kind:    KindConflict,
				Rows:    rows,
				Date:    key,
				Message: fmt.Sprintf("pinned date %s is already reserved", key),
			})
		}
	}

	if rng.Valid() {
		available := freeDates(rng, reserved, pinnedRows)
		if needed > available {
			issues = append(issues, Issue{
				Kind:      KindCapacity,
				Needed:    needed,
				Available: available,
				Message:   fmt.Sprintf("%d items need a date but only %d free dates remain", needed, available),
			})
		}
	}

	return Result{OK: len(issues) == 0, Issues: issues}
}

// freeDates counts in-range dates neither reserved nor claimed by a
// pinned item.
func freeDates(rng model.DateRange, reserved map[string]struct{}, pinned map[string][]int) int {
	n := 0
	for d := rng.Start; !d.After(rng.End); d = d.AddDate(0, 0, 1) {
		key := model.DateKey(d)
		if _, ok := reserved[key]; ok {
			continue
		}
		if _, ok := pinned[key]; ok {
			continue
		}
		n++
	}
	return n
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
