// Package repository defines the plan record store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
)

// Status is the lifecycle state of a stored plan record.
type Status string

const (
	// StatusPending marks a submitted job not yet processed.
	StatusPending Status = "pending"
	// StatusComplete marks a job whose plan was built.
	StatusComplete Status = "complete"
	// StatusFailed marks a job rejected by validation.
	StatusFailed Status = "failed"
)

// Record is one stored plan with its lifecycle metadata.
type Record struct {
	PlanID      string
	Status      Status
	Plan        model.SchedulePlan
	Issues      []validate.Issue
	SubmittedAt time.Time
	CompletedAt time.Time
}

// Store provides read/write access to plan records. The store is a
// retrieval cache for async submissions, not the system of record.
type Store interface {
	// Create inserts a new record. Returns ErrExists when the id is taken.
	Create(ctx context.Context, rec Record) error

	// Complete transitions a record to StatusComplete with its plan.
	Complete(ctx context.Context, planID string, plan model.SchedulePlan) error

	// Fail transitions a record to StatusFailed with its issues.
	Fail(ctx context.Context, planID string, issues []validate.Issue) error

	// Get returns a record by id. Returns ErrNotFound when unknown.
	Get(ctx context.Context, planID string) (Record, error)

	// Delete removes a record, e.g. when enqueueing its job failed.
	Delete(ctx context.Context, planID string)

	// Count returns the number of records held.
	Count(ctx context.Context) int
}
