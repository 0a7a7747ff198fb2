package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appinsights "github.com/bryanwahyu/talenta-triggers/internal/application/insights"
	apptriggers "github.com/bryanwahyu/talenta-triggers/internal/application/triggers"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	insdomain "github.com/bryanwahyu/talenta-triggers/internal/domain/insights"
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
	"github.com/bryanwahyu/talenta-triggers/internal/middleware"
)

type Router struct {
	triggersSvc *apptriggers.Service
	insightsSvc *appinsights.Service
}

func NewRouter(triggersSvc *apptriggers.Service, insightsSvc *appinsights.Service) http.Handler {
	r := &Router{triggersSvc: triggersSvc, insightsSvc: insightsSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/triggers/dispatch", r.wrap(r.handleDispatch))
		rt.Post("/triggers/seed", r.wrap(r.handleSeed))
		rt.Get("/triggers", r.wrap(r.handleListTriggers))
		rt.Get("/triggers/{id}", r.wrap(r.handleGetTrigger))
		rt.Patch("/triggers/{id}/status", r.wrap(r.handleUpdateStatus))
		rt.Get("/executions", r.wrap(r.handleExecutions))
		rt.Get("/executions/latest", r.wrap(r.handleLatestExecutions))
		rt.Get("/executions/{id}", r.wrap(r.handleGetExecution))
		rt.Post("/insights", r.wrap(r.handleCreateInsight))
		rt.Get("/insights", r.wrap(r.handleListInsights))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrTriggerNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, insdomain.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/triggers/dispatch
// Body: AnalysisResult dari analysis subsystem. Dispatch jalan synchronous
// supaya caller (report pipeline) langsung dapat hasil berurutan.
func (r *Router) handleDispatch(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body analysis.Result
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if len(body.Categories) == 0 && len(body.Recommendations) == 0 {
		return fmt.Errorf("analysis result is empty")
	}

	middleware.IncrementDispatches()
	results, err := r.triggersSvc.RunTriggers(req.Context(), tenant, &body)
	if err != nil {
		return err
	}
	for range results {
		middleware.IncrementTriggersFired()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"tenant":  tenant,
		"count":   len(results),
		"results": results,
	})
}

// POST /v1/{tenant}/triggers/seed
func (r *Router) handleSeed(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	seeded := r.triggersSvc.SeedDefaultTriggers(req.Context(), tenant)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"tenant": tenant,
		"seeded": seeded,
	})
}

// GET /v1/{tenant}/triggers?status=active
func (r *Router) handleListTriggers(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	status := domain.Status(req.URL.Query().Get("status"))

	list, err := r.triggersSvc.List(req.Context(), tenant, status)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/triggers/{id}
func (r *Router) handleGetTrigger(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	trg, err := r.triggersSvc.Get(req.Context(), tenant, domain.TriggerID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(trg)
}

// PATCH /v1/{tenant}/triggers/{id}/status
// Body: {"status": "active|inactive|paused"}
func (r *Router) handleUpdateStatus(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.Status == "" {
		return fmt.Errorf("status is required")
	}

	if err := r.triggersSvc.UpdateStatus(req.Context(), tenant, domain.TriggerID(id), domain.Status(body.Status)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/{tenant}/executions?page=&page_size=
func (r *Router) handleExecutions(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	result, err := r.triggersSvc.PaginateExecutions(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/{tenant}/executions/latest?limit=20
func (r *Router) handleLatestExecutions(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.triggersSvc.LatestExecutions(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/executions/{id}
func (r *Router) handleGetExecution(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	exec, err := r.triggersSvc.GetExecution(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(exec)
}

// POST /v1/{tenant}/insights
// Body: {"limit": 20}, rangkum N audit record terakhir pakai AI.
func (r *Router) handleCreateInsight(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		Limit int `json:"limit"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	execs, err := r.triggersSvc.LatestExecutions(req.Context(), tenant, body.Limit)
	if err != nil {
		return err
	}

	in, err := r.insightsSvc.SummarizeAndStore(req.Context(), tenant, execs)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(in)
}

// GET /v1/{tenant}/insights?limit=10
func (r *Router) handleListInsights(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.insightsSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
