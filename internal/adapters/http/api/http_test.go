package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zerotrustai/modelgate/internal/adapters/http/api"
	service "github.com/zerotrustai/modelgate/internal/app"
	"github.com/zerotrustai/modelgate/internal/domain/model"
	"github.com/zerotrustai/modelgate/internal/domain/registry"
	"github.com/zerotrustai/modelgate/internal/domain/request"
	"github.com/zerotrustai/modelgate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing

type mockDependencies struct {
	predictResult types.PredictionResult
	predictErr    error
	stats         types.Stats
	report        types.MetricsReport
	retrainTo     int
	names         []string
	def           string
	models        []model.ModelEntry
	transitionErr error
	audit         []model.AuditEvent
}

func (m *mockDependencies) Predict(ctx context.Context, req request.Prediction) (types.PredictionResult, error) {
	if m.predictErr != nil {
		return types.PredictionResult{}, m.predictErr
	}
	return m.predictResult, nil
}

func (m *mockDependencies) Stats() types.Stats            { return m.stats }
func (m *mockDependencies) Metrics() types.MetricsReport  { return m.report }
func (m *mockDependencies) Retrain(ctx context.Context) int { return m.retrainTo }
func (m *mockDependencies) Strategies() ([]string, string) { return m.names, m.def }
func (m *mockDependencies) StrategyCount() int            { return len(m.names) }
func (m *mockDependencies) ListModels() []model.ModelEntry { return m.models }

func (m *mockDependencies) PromoteModel(ctx context.Context, name string, version int) error {
	return m.transitionErr
}

func (m *mockDependencies) ArchiveModel(ctx context.Context, name string, version int) error {
	return m.transitionErr
}

func (m *mockDependencies) AuditLog() []model.AuditEvent { return m.audit }

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, "0.1.0").Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server over a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		mux := newTestMux(svc)

		Convey("Then the health endpoint reports the loaded models", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "healthy")
			So(body["version"], ShouldEqual, "0.1.0")
			So(body["models_loaded"], ShouldEqual, 3)
		})

		Convey("Then the Prometheus endpoint serves exposition text", func() {
			req := httptest.NewRequest("GET", "/metricsz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then a predict round-trip works end to end", func() {
			payload := `{"input": "esto es urgente", "strategy": "modelo_basico"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(payload))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var res types.PredictionResult
			So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
			So(res.Prediction, ShouldEqual, model.PriorityHigh)
			So(res.Confidence, ShouldEqual, 0.9)
			So(res.StrategyUsed, ShouldEqual, "modelo_basico")
		})

		Convey("Then every response carries a request id", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
		})

		Convey("Then a caller-provided request id is preserved", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			req.Header.Set("X-Request-Id", "req-42")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get("X-Request-Id"), ShouldEqual, "req-42")
		})

		Convey("Then unknown paths fall through to 404", func() {
			req := httptest.NewRequest("GET", "/unknown", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPredictHandler(t *testing.T) {
	Convey("Given a predict handler", t, func() {
		deps := &mockDependencies{
			predictResult: types.PredictionResult{
				Prediction:   model.PriorityHigh,
				StrategyUsed: "modelo_basico",
				Confidence:   0.9,
				ModelVersion: 1,
			},
		}
		handler := api.NewPredictHandler(deps)

		Convey("When handling a valid POST request", func() {
			payload := `{"input": "esto es urgente"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(payload))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then the result is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var res types.PredictionResult
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res.Prediction, ShouldEqual, model.PriorityHigh)
			})
		})

		Convey("When the body is not valid JSON", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{invalid`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it returns 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the input is empty", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"input": "   "}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then validation rejects it with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var res map[string]string
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the input carries a disallowed character", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"input": "hola <script>"}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then validation rejects it with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the input exceeds the length cap", func() {
			long := strings.Repeat("a", 1001)
			req := httptest.NewRequest("POST", "/predict",
				strings.NewReader(fmt.Sprintf(`{"input": %q}`, long)))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then validation rejects it with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the prediction service fails", func() {
			deps.predictErr = fmt.Errorf("model backend gone")
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"input": "texto normal"}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it returns 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/predict", nil)
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it returns not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		avg := 0.75
		deps := &mockDependencies{
			stats: types.Stats{
				TotalPredictions: 3,
				StrategyUsage:    map[string]int{"modelo_basico": 3},
				ModelVersion:     1,
				Confidence:       types.ConfidenceSummary{Count: 3, Avg: &avg},
			},
			report: types.MetricsReport{
				Confidence:    types.ConfidenceSummary{Count: 3, Avg: &avg},
				ModelVersion:  1,
				ShouldRetrain: true,
			},
			retrainTo: 2,
			names:     []string{"modelo_avanzado", "modelo_basico", "modelo_edge"},
			def:       "modelo_basico",
		}
		handler := api.NewStatsHandler(deps)

		Convey("When requesting stats", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then the snapshot is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]any
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["total_predictions"], ShouldEqual, 3)
			})
		})

		Convey("When requesting the metrics report", func() {
			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			handler.HandleMetrics(w, req)

			Convey("Then the retrain recommendation is included", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]any
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["should_retrain"], ShouldEqual, true)
			})
		})

		Convey("When triggering a retrain", func() {
			req := httptest.NewRequest("POST", "/retrain", nil)
			w := httptest.NewRecorder()
			handler.HandleRetrain(w, req)

			Convey("Then the new version is reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]any
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["status"], ShouldEqual, "retrained")
				So(res["model_version"], ShouldEqual, 2)
			})
		})

		Convey("When retraining with GET", func() {
			req := httptest.NewRequest("GET", "/retrain", nil)
			w := httptest.NewRecorder()
			handler.HandleRetrain(w, req)

			Convey("Then it returns not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When listing strategies", func() {
			req := httptest.NewRequest("GET", "/strategies", nil)
			w := httptest.NewRecorder()
			handler.HandleStrategies(w, req)

			Convey("Then names and default are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]any
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["default"], ShouldEqual, "modelo_basico")
				So(res["strategies"], ShouldHaveLength, 3)
			})
		})
	})
}

func TestRegistryHandler(t *testing.T) {
	Convey("Given a registry handler", t, func() {
		deps := &mockDependencies{
			models: []model.ModelEntry{
				{Name: "modelo_basico", Version: 1, State: model.StateActive},
				{Name: "modelo_edge", Version: 1, State: model.StateStaging},
			},
			audit: []model.AuditEvent{
				{Event: model.EventRegister, Model: "modelo_basico_v1", State: model.StateActive},
			},
		}
		handler := api.NewRegistryHandler(deps)

		Convey("When listing models", func() {
			req := httptest.NewRequest("GET", "/registry", nil)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)

			Convey("Then all entries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string][]model.ModelEntry
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["models"], ShouldHaveLength, 2)
			})
		})

		Convey("When promoting a model", func() {
			payload := `{"name": "modelo_edge", "version": 1}`
			req := httptest.NewRequest("POST", "/registry/promote", strings.NewReader(payload))
			w := httptest.NewRecorder()
			handler.HandlePromote(w, req)

			Convey("Then the transition is acknowledged with the model key", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]string
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["status"], ShouldEqual, "promoted")
				So(res["model"], ShouldEqual, "modelo_edge_v1")
			})
		})

		Convey("When promoting an unknown model", func() {
			deps.transitionErr = fmt.Errorf("promote: %w", registry.ErrNotFound)
			payload := `{"name": "modelo_fantasma", "version": 9}`
			req := httptest.NewRequest("POST", "/registry/promote", strings.NewReader(payload))
			w := httptest.NewRecorder()
			handler.HandlePromote(w, req)

			Convey("Then it returns 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var res map[string]string
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the transition body is malformed", func() {
			req := httptest.NewRequest("POST", "/registry/promote", strings.NewReader(`{invalid`))
			w := httptest.NewRecorder()
			handler.HandlePromote(w, req)

			Convey("Then it returns 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the transition names no model", func() {
			req := httptest.NewRequest("POST", "/registry/promote", strings.NewReader(`{"version": 1}`))
			w := httptest.NewRecorder()
			handler.HandlePromote(w, req)

			Convey("Then it returns 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When archiving a model", func() {
			payload := `{"name": "modelo_basico", "version": 1}`
			req := httptest.NewRequest("POST", "/registry/archive", strings.NewReader(payload))
			w := httptest.NewRecorder()
			handler.HandleArchive(w, req)

			Convey("Then the transition is acknowledged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string]string
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["status"], ShouldEqual, "archived")
			})
		})

		Convey("When reading the audit log", func() {
			req := httptest.NewRequest("GET", "/registry/audit", nil)
			w := httptest.NewRecorder()
			handler.HandleAudit(w, req)

			Convey("Then the events are returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var res map[string][]model.AuditEvent
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				So(res["events"], ShouldHaveLength, 1)
				So(res["events"][0].Model, ShouldEqual, "modelo_basico_v1")
			})
		})
	})
}

func TestRegistryEndToEnd(t *testing.T) {
	Convey("Given a registered mux over a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		mux := newTestMux(svc)

		Convey("When promoting a staged model over the wire", func() {
			payload := `{"name": "modelo_edge", "version": 1}`
			req := httptest.NewRequest("POST", "/registry/promote", strings.NewReader(payload))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then the promoted model is active", func() {
				req := httptest.NewRequest("GET", "/registry", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				var res map[string][]model.ModelEntry
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				for _, e := range res["models"] {
					if e.Name == "modelo_edge" {
						So(e.State, ShouldEqual, model.StateActive)
					}
				}
			})

			Convey("Then the audit log records the promotion", func() {
				req := httptest.NewRequest("GET", "/registry/audit", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				var res map[string][]model.AuditEvent
				So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
				last := res["events"][len(res["events"])-1]
				So(last.Event, ShouldEqual, model.EventPromote)
				So(last.Model, ShouldEqual, "modelo_edge_v1")
			})
		})
	})
}
