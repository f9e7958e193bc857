// Package plan runs the scheduling pipeline: validate the request,
// allocate dates for unpinned items, draw a clock time per entry, and
// compose the final ordered plan. Every stage is a pure transform of
// its inputs; the pipeline holds no state between calls and may be
// invoked concurrently.
package plan

import (
	"context"
	"fmt"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/allocate"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/timeslot"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
)

// Request carries everything one allocation run needs. Reserved dates
// come from the caller's store snapshot; the pipeline never talks to
// storage itself.
type Request struct {
	Range      model.DateRange
	Reserved   []string // ISO dates already occupied
	Items      []model.ScheduleItem
	Platform   model.Platform
	SeedPrefix string
	Revision   int // bumped by the caller to force fresh time draws
}

// Build executes the full pipeline. On validation failure it returns a
// zero plan together with the collected issues and never produces a
// partial schedule. The returned error covers malformed caller data
// (e.g. an unparseable reserved date), not validation outcomes.
func Build(_ context.Context, req Request) (model.SchedulePlan, validate.Result, error) {
	reserved := make(map[string]struct{}, len(req.Reserved))
	for _, s := range req.Reserved {
		d, err := model.ParseDate(s)
		if err != nil {
			return model.SchedulePlan{}, validate.Result{}, fmt.Errorf("reserved date: %w", err)
		}
		reserved[model.DateKey(d)] = struct{}{}
	}

	res := validate.Check(req.Range, reserved, req.Items)
	if !res.OK {
		return model.SchedulePlan{}, res, nil
	}

	pinned := make(map[string]struct{})
	var manual []model.ScheduledEntry
	var unpinned []model.ScheduleItem
	for _, item := range req.Items {
		if !item.Pinned() {
			unpinned = append(unpinned, item)
			continue
		}
		// Validation already guaranteed these parse.
		d, err := model.ParseDate(item.PinnedDate)
		if err != nil {
			return model.SchedulePlan{}, validate.Result{}, fmt.Errorf("pinned date: %w", err)
		}
		pinned[model.DateKey(d)] = struct{}{}
		manual = append(manual, model.ScheduledEntry{
			Date:    d,
			Time:    timeslot.Assign(d, req.Platform, timeslot.Seed(req.SeedPrefix, d, req.Revision)),
			Source:  model.SourceManual,
			Payload: item.Payload,
		})
	}

	candidates := allocate.Candidates(req.Range, reserved, pinned)
	assignments := allocate.Assign(req.Range, candidates, unpinned)

	auto := make([]model.ScheduledEntry, 0, len(assignments))
	for _, a := range assignments {
		auto = append(auto, model.ScheduledEntry{
			Date:    a.Date,
			Time:    timeslot.Assign(a.Date, req.Platform, timeslot.Seed(req.SeedPrefix, a.Date, req.Revision)),
			Source:  model.SourceAuto,
			Payload: a.Item.Payload,
		})
	}

	blocked := 0
	for key := range reserved {
		d, _ := model.ParseDate(key)
		if req.Range.Contains(d) {
			blocked++
		}
	}

	return Compose(manual, auto, req.Range, blocked), res, nil
}
