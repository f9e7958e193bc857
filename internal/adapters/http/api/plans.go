// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/scottkoons/the-social-studio-sub000/internal/app"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/plan"
)

// PlansHandler handles plan preview, submission, and retrieval.
type PlansHandler struct {
	deps Dependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps Dependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

func (h *PlansHandler) decode(w http.ResponseWriter, r *http.Request) (planRequest, plan.Request, bool) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return planRequest{}, plan.Request{}, false
	}
	if req.Range.Start == "" || req.Range.End == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing range"))
		return planRequest{}, plan.Request{}, false
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing items"))
		return planRequest{}, plan.Request{}, false
	}
	domain, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err)
		return planRequest{}, plan.Request{}, false
	}
	return req, domain, true
}

// writeLimitError maps configured-limit violations to 400.
func writeLimitError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrRangeTooLong):
		writeError(w, http.StatusBadRequest, "range_too_long", err)
	case errors.Is(err, service.ErrTooManyItems):
		writeError(w, http.StatusBadRequest, "too_many_items", err)
	default:
		return false
	}
	return true
}

// HandlePreview handles POST /plans/preview requests. The plan is
// computed synchronously and nothing is stored.
func (h *PlansHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	_, domain, ok := h.decode(w, r)
	if !ok {
		return
	}

	p, res, err := h.deps.Preview(r.Context(), domain)
	if err != nil {
		if writeLimitError(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !res.OK {
		writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Code:   "validation_failed",
			Issues: res.Issues,
		})
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(p))
}

// HandleSubmit handles POST /plans requests: the request is queued and
// the plan built asynchronously. Repeated request ids are acknowledged
// as duplicates without queueing again.
func (h *PlansHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, domain, ok := h.decode(w, r)
	if !ok {
		return
	}

	planID, duplicate, err := h.deps.Submit(r.Context(), req.RequestID, domain)
	if err != nil {
		if writeLimitError(w, err) {
			return
		}
		if errors.Is(err, service.ErrBacklogFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{PlanID: planID, Status: "accepted", Duplicate: false})
}

// HandleGetPlan handles GET /plans/{plan_id} requests.
func (h *PlansHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/plans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rec, err := h.deps.Plan(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}
