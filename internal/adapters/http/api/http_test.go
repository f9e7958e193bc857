package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/adapters/http/api"
	"github.com/scottkoons/the-social-studio-sub000/internal/adapters/repository"
	service "github.com/scottkoons/the-social-studio-sub000/internal/app"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/plan"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeDeps struct {
	previewFn func(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error)
	submitFn  func(ctx context.Context, requestID string, req plan.Request) (string, bool, error)
	planFn    func(ctx context.Context, planID string) (repository.Record, error)
}

func (f *fakeDeps) Preview(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error) {
	return f.previewFn(ctx, req)
}

func (f *fakeDeps) Submit(ctx context.Context, requestID string, req plan.Request) (string, bool, error) {
	return f.submitFn(ctx, requestID, req)
}

func (f *fakeDeps) Plan(ctx context.Context, planID string) (repository.Record, error) {
	return f.planFn(ctx, planID)
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return mux
}

func day(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func samplePlan() model.SchedulePlan {
	return model.SchedulePlan{
		Range:     model.DateRange{Start: day("2025-01-06"), End: day("2025-01-12")},
		Entries:   []model.ScheduledEntry{{Date: day("2025-01-10"), Time: "09:35", Source: model.SourceAuto, Payload: "post"}},
		AutoCount: 1,
	}
}

const validBody = `{
	"range": {"start": "2025-01-06", "end": "2025-01-12"},
	"items": [{"payload": "post"}]
}`

func TestPlansEndpoints(t *testing.T) {
	Convey("Given the plans API", t, func() {
		Convey("When previewing a valid request", func() {
			deps := &fakeDeps{
				previewFn: func(_ context.Context, _ plan.Request) (model.SchedulePlan, validate.Result, error) {
					return samplePlan(), validate.Result{OK: true}, nil
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader(validBody))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then the plan should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Entries []struct {
						Date string `json:"date"`
						Time string `json:"time"`
					} `json:"entries"`
					AutoCount int `json:"auto_count"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Entries, ShouldHaveLength, 1)
				So(body.Entries[0].Date, ShouldEqual, "2025-01-10")
				So(body.Entries[0].Time, ShouldEqual, "09:35")
				So(body.AutoCount, ShouldEqual, 1)
				So(rec.Body.String(), ShouldContainSubstring, `"start":"2025-01-06"`)
				So(rec.Body.String(), ShouldContainSubstring, `"end":"2025-01-12"`)
			})
		})

		Convey("When previewing a request that fails validation", func() {
			deps := &fakeDeps{
				previewFn: func(_ context.Context, _ plan.Request) (model.SchedulePlan, validate.Result, error) {
					res := validate.Result{Issues: []validate.Issue{{Kind: validate.KindCapacity, Needed: 9, Available: 5}}}
					return model.SchedulePlan{}, res, nil
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader(validBody))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 422 with issues should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				var body struct {
					Code   string           `json:"code"`
					Issues []validate.Issue `json:"issues"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "validation_failed")
				So(body.Issues, ShouldHaveLength, 1)
				So(body.Issues[0].Kind, ShouldEqual, validate.KindCapacity)
			})
		})

		Convey("When previewing malformed JSON", func() {
			deps := &fakeDeps{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader("{nope"))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When previewing with a malformed range date", func() {
			deps := &fakeDeps{}
			rec := httptest.NewRecorder()
			body := `{"range": {"start": "2025-13-99", "end": "2025-01-12"}, "items": [{"payload": "post"}]}`
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader(body))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 400 invalid_date should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "invalid_date")
				So(rec.Body.String(), ShouldContainSubstring, "range start")
			})
		})

		Convey("When previewing without items", func() {
			deps := &fakeDeps{}
			rec := httptest.NewRecorder()
			body := `{"range": {"start": "2025-01-06", "end": "2025-01-12"}, "items": []}`
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader(body))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When previewing a range past the cap", func() {
			deps := &fakeDeps{
				previewFn: func(_ context.Context, _ plan.Request) (model.SchedulePlan, validate.Result, error) {
					return model.SchedulePlan{}, validate.Result{}, service.ErrRangeTooLong
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans/preview", strings.NewReader(validBody))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 400 with range_too_long should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "range_too_long")
			})
		})

		Convey("When submitting a request", func() {
			deps := &fakeDeps{
				submitFn: func(_ context.Context, requestID string, _ plan.Request) (string, bool, error) {
					So(requestID, ShouldEqual, "req-9")
					return "plan-123", false, nil
				},
			}
			rec := httptest.NewRecorder()
			body := `{
				"request_id": "req-9",
				"range": {"start": "2025-01-06", "end": "2025-01-12"},
				"items": [{"payload": "post"}]
			}`
			req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 202 with the plan id should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				var ack struct {
					PlanID    string `json:"plan_id"`
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.PlanID, ShouldEqual, "plan-123")
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When submitting a duplicate request id", func() {
			deps := &fakeDeps{
				submitFn: func(_ context.Context, _ string, _ plan.Request) (string, bool, error) {
					return "", true, nil
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(validBody))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 200 duplicate ack should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When the backlog is full", func() {
			deps := &fakeDeps{
				submitFn: func(_ context.Context, _ string, _ plan.Request) (string, bool, error) {
					return "", false, service.ErrBacklogFull
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(validBody))
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 429 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			})
		})

		Convey("When fetching a stored plan", func() {
			deps := &fakeDeps{
				planFn: func(_ context.Context, planID string) (repository.Record, error) {
					So(planID, ShouldEqual, "plan-123")
					return repository.Record{
						PlanID:      "plan-123",
						Status:      repository.StatusComplete,
						Plan:        samplePlan(),
						SubmittedAt: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
						CompletedAt: time.Date(2025, 1, 6, 10, 0, 1, 0, time.UTC),
					}, nil
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/plans/plan-123", nil)
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then the record should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					PlanID string `json:"plan_id"`
					Status string `json:"status"`
					Plan   *struct {
						AutoCount int `json:"auto_count"`
					} `json:"plan"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.PlanID, ShouldEqual, "plan-123")
				So(body.Status, ShouldEqual, "complete")
				So(body.Plan, ShouldNotBeNil)
				So(body.Plan.AutoCount, ShouldEqual, 1)
			})
		})

		Convey("When fetching an unknown plan", func() {
			deps := &fakeDeps{
				planFn: func(_ context.Context, _ string) (repository.Record, error) {
					return repository.Record{}, repository.ErrNotFound
				},
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/plans/ghost", nil)
			newMux(deps).ServeHTTP(rec, req)

			Convey("Then a 404 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestWindowsEndpoint(t *testing.T) {
	Convey("Given the windows endpoint", t, func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/windows", nil)
		newMux(&fakeDeps{}).ServeHTTP(rec, req)

		Convey("Then every platform should list seven weekdays", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body map[string][]struct {
				Weekday  string `json:"weekday"`
				Priority int    `json:"priority"`
				Windows  []struct {
					Start string `json:"start"`
					End   string `json:"end"`
				} `json:"windows"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body, ShouldContainKey, "instagram")
			So(body["instagram"], ShouldHaveLength, 7)

			friday := body["instagram"][5]
			So(friday.Weekday, ShouldEqual, "Friday")
			So(friday.Priority, ShouldEqual, 7)
			So(friday.Windows, ShouldHaveLength, 2)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		newMux(&fakeDeps{}).ServeHTTP(rec, req)

		Convey("Then the service stats should be returned", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		newMux(&fakeDeps{}).ServeHTTP(rec, req)

		Convey("Then Prometheus metrics should be served", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "socialstudio")
		})
	})
}
