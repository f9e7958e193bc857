package planprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/scottkoons/the-social-studio-sub000/pkg/logger"
)

// probeRequest mirrors the service's plan request schema.
type probeRequest struct {
	RequestID string      `json:"request_id,omitempty"`
	Range     probeRange  `json:"range"`
	Items     []probeItem `json:"items"`
	Platform  string      `json:"platform,omitempty"`
}

type probeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type probeItem struct {
	Payload string `json:"payload"`
}

type probeAck struct {
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type probeRecord struct {
	Status string `json:"status"`
	Plan   *struct {
		Entries []struct {
			Date string `json:"date"`
			Time string `json:"time"`
		} `json:"entries"`
	} `json:"plan"`
}

// Run executes the full probe sequence against a live service.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("planprobe")
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting scheduler probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("items", cfg.Items),
		logger.Int("rangeDays", cfg.RangeDays),
	)

	if err := checkHealth(ctx, c); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	req := buildRequest(cfg)

	if err := checkDeterminism(ctx, c, log, req); err != nil {
		return fmt.Errorf("determinism check failed: %w", err)
	}

	planID, err := submit(ctx, c, log, req)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	if err := pollPlan(ctx, c, log, planID); err != nil {
		return fmt.Errorf("plan retrieval failed: %w", err)
	}

	log.Info(ctx, "probe passed", logger.String("planID", planID))
	return nil
}

// buildRequest creates a request over a range starting today.
func buildRequest(cfg Config) probeRequest {
	start := time.Now().UTC()
	end := start.AddDate(0, 0, cfg.RangeDays-1)

	req := probeRequest{
		Range: probeRange{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		},
		Platform: cfg.Platform,
	}
	for i := 0; i < cfg.Items; i++ {
		req.Items = append(req.Items, probeItem{Payload: fmt.Sprintf("probe-item-%d", i)})
	}
	return req
}

func checkHealth(ctx context.Context, c *client) error {
	status, _, err := c.getJSON(ctx, "/healthz")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", status)
	}
	return nil
}

// checkDeterminism previews the same request twice and requires
// byte-identical plans.
func checkDeterminism(ctx context.Context, c *client, log logger.Logger, req probeRequest) error {
	status1, first, err := c.postJSON(ctx, "/plans/preview", req)
	if err != nil {
		return err
	}
	if status1 != http.StatusOK {
		return fmt.Errorf("preview returned %d: %s", status1, first)
	}

	status2, second, err := c.postJSON(ctx, "/plans/preview", req)
	if err != nil {
		return err
	}
	if status2 != http.StatusOK {
		return fmt.Errorf("repeat preview returned %d: %s", status2, second)
	}

	if !bytes.Equal(first, second) {
		return fmt.Errorf("previews differ for identical input")
	}

	log.Info(ctx, "previews are deterministic", logger.Int("bytes", len(first)))
	return nil
}

func submit(ctx context.Context, c *client, log logger.Logger, req probeRequest) (string, error) {
	req.RequestID = uuid.NewString()

	status, raw, err := c.postJSON(ctx, "/plans", req)
	if err != nil {
		return "", err
	}
	if status != http.StatusAccepted {
		return "", fmt.Errorf("submit returned %d: %s", status, raw)
	}

	var ack probeAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		return "", fmt.Errorf("decode ack: %w", err)
	}
	if ack.PlanID == "" {
		return "", fmt.Errorf("submit ack missing plan id")
	}

	// A retry with the same request id must be acknowledged as duplicate.
	dupStatus, dupRaw, err := c.postJSON(ctx, "/plans", req)
	if err != nil {
		return "", err
	}
	var dup probeAck
	if err := json.Unmarshal(dupRaw, &dup); err != nil {
		return "", fmt.Errorf("decode duplicate ack: %w", err)
	}
	if dupStatus != http.StatusOK || !dup.Duplicate {
		return "", fmt.Errorf("resubmission was not deduplicated (status %d)", dupStatus)
	}

	log.Info(ctx, "submission accepted", logger.String("planID", ack.PlanID))
	return ack.PlanID, nil
}

// pollPlan waits for the stored record to leave pending.
func pollPlan(ctx context.Context, c *client, log logger.Logger, planID string) error {
	deadline := time.Now().Add(DefaultPollBudget)

	for time.Now().Before(deadline) {
		status, raw, err := c.getJSON(ctx, "/plans/"+planID)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("plan fetch returned %d: %s", status, raw)
		}

		var rec probeRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}

		switch rec.Status {
		case "complete":
			if rec.Plan == nil || len(rec.Plan.Entries) == 0 {
				return fmt.Errorf("complete record has no entries")
			}
			log.Info(ctx, "plan completed",
				logger.String("planID", planID),
				logger.Int("entries", len(rec.Plan.Entries)),
			)
			return nil
		case "failed":
			return fmt.Errorf("plan was rejected: %s", raw)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DefaultPollBackoff):
		}
	}
	return fmt.Errorf("plan %s still pending after %s", planID, DefaultPollBudget)
}
