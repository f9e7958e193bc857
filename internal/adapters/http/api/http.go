// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/adapters/repository"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/plan"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Preview runs the scheduling pipeline synchronously.
	Preview(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error)

	// Submit queues a request for async plan building. A repeated
	// request id reports duplicate without queueing again.
	Submit(ctx context.Context, requestID string, req plan.Request) (string, bool, error)

	// Plan returns the stored record for a previously submitted plan.
	Plan(ctx context.Context, planID string) (repository.Record, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	plansHandler   *PlansHandler
	windowsHandler *WindowsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		plansHandler:   NewPlansHandler(deps),
		windowsHandler: NewWindowsHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/windows", MetricsMiddleware(s.windowsHandler.HandleGetWindows, "windows"))
	mux.HandleFunc("/plans/preview", MetricsMiddleware(s.plansHandler.HandlePreview, "plans_preview"))
	mux.HandleFunc("/plans", MetricsMiddleware(s.plansHandler.HandleSubmit, "plans"))
	mux.HandleFunc("/plans/", MetricsMiddleware(s.plansHandler.HandleGetPlan, "plan_by_id"))
}

// planRequest mirrors the OpenAPI schema for plan submissions.
type planRequest struct {
	RequestID  string    `json:"request_id,omitempty"`
	Range      rangeDTO  `json:"range"`
	Reserved   []string  `json:"reserved,omitempty"`
	Items      []itemDTO `json:"items"`
	Platform   string    `json:"platform,omitempty"`
	SeedPrefix string    `json:"seed_prefix,omitempty"`
	Revision   int       `json:"revision,omitempty"`
}

type rangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type itemDTO struct {
	Date    string `json:"date,omitempty"`
	Payload string `json:"payload"`
}

// toDomain converts the wire request to a pipeline request. The range
// dates are parsed here; item and reserved dates stay strings so the
// validator can report them row by row.
func (r planRequest) toDomain() (plan.Request, error) {
	start, err := model.ParseDate(r.Range.Start)
	if err != nil {
		return plan.Request{}, fmt.Errorf("range start: %w", err)
	}
	end, err := model.ParseDate(r.Range.End)
	if err != nil {
		return plan.Request{}, fmt.Errorf("range end: %w", err)
	}

	req := plan.Request{
		Range:      model.DateRange{Start: start, End: end},
		Reserved:   r.Reserved,
		Platform:   model.Platform(r.Platform),
		SeedPrefix: r.SeedPrefix,
		Revision:   r.Revision,
	}
	req.Items = make([]model.ScheduleItem, len(r.Items))
	for i, it := range r.Items {
		req.Items[i] = model.ScheduleItem{PinnedDate: it.Date, Payload: it.Payload}
	}
	return req, nil
}

type entryDTO struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Source  string `json:"source"`
	Payload string `json:"payload"`
}

type planDTO struct {
	Range             rangeDTO   `json:"range"`
	Entries           []entryDTO `json:"entries"`
	ManualCount       int        `json:"manual_count"`
	AutoCount         int        `json:"auto_count"`
	BlockedByExisting int        `json:"blocked_by_existing"`
}

func toPlanDTO(p model.SchedulePlan) planDTO {
	out := planDTO{
		Range:             rangeDTO{Start: model.DateKey(p.Range.Start), End: model.DateKey(p.Range.End)},
		Entries:           make([]entryDTO, len(p.Entries)),
		ManualCount:       p.ManualCount,
		AutoCount:         p.AutoCount,
		BlockedByExisting: p.BlockedByExisting,
	}
	for i, e := range p.Entries {
		out.Entries[i] = entryDTO{
			Date:    model.DateKey(e.Date),
			Time:    e.Time,
			Source:  string(e.Source),
			Payload: e.Payload,
		}
	}
	return out
}

type recordDTO struct {
	PlanID      string           `json:"plan_id"`
	Status      string           `json:"status"`
	Plan        *planDTO         `json:"plan,omitempty"`
	Issues      []validate.Issue `json:"issues,omitempty"`
	SubmittedAt string           `json:"submitted_at"`
	CompletedAt string           `json:"completed_at,omitempty"`
}

func toRecordDTO(rec repository.Record) recordDTO {
	out := recordDTO{
		PlanID:      rec.PlanID,
		Status:      string(rec.Status),
		Issues:      rec.Issues,
		SubmittedAt: rec.SubmittedAt.Format(time.RFC3339),
	}
	if rec.Status == repository.StatusComplete {
		p := toPlanDTO(rec.Plan)
		out.Plan = &p
	}
	if !rec.CompletedAt.IsZero() {
		out.CompletedAt = rec.CompletedAt.Format(time.RFC3339)
	}
	return out
}

type ackResponse struct {
	PlanID    string `json:"plan_id,omitempty"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type rejectionResponse struct {
	Code   string           `json:"code"`
	Issues []validate.Issue `json:"issues"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
