package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptriggers "github.com/bryanwahyu/talenta-triggers/internal/application/triggers"
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

type memRepo struct {
	triggers []*domain.Trigger
}

func (m *memRepo) Save(ctx context.Context, t *domain.Trigger) error {
	m.triggers = append(m.triggers, t)
	return nil
}

func (m *memRepo) Get(ctx context.Context, tenant string, id domain.TriggerID) (*domain.Trigger, error) {
	for _, t := range m.triggers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTriggerNotFound
}

func (m *memRepo) ListActive(ctx context.Context, tenant string) ([]*domain.Trigger, error) {
	return m.triggers, nil
}

func (m *memRepo) List(ctx context.Context, tenant string, status domain.Status) ([]*domain.Trigger, error) {
	return m.triggers, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, tenant string, id domain.TriggerID, status domain.Status) error {
	return nil
}

type memExecs struct {
	execs []*domain.TriggerExecution
}

func (m *memExecs) Save(ctx context.Context, e *domain.TriggerExecution) error {
	m.execs = append(m.execs, e)
	return nil
}

func (m *memExecs) Get(ctx context.Context, tenant, id string) (*domain.TriggerExecution, error) {
	return nil, nil
}

func (m *memExecs) Latest(ctx context.Context, tenant string, limit int) ([]*domain.TriggerExecution, error) {
	return m.execs, nil
}

func (m *memExecs) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedExecutions, error) {
	return domain.PaginatedExecutions{Data: m.execs, Page: page, PageSize: pageSize}, nil
}

type openAccess struct{}

func (openAccess) CheckModuleAccess(ctx context.Context, tenant, module string) (bool, error) {
	return true, nil
}

func newTestRouter(repo *memRepo) http.Handler {
	svc := &apptriggers.Service{
		Repo:           repo,
		Executions:     &memExecs{},
		Access:         openAccess{},
		Clock:          apptriggers.SystemClock{},
		DefaultTimeout: time.Second,
	}
	return NewRouter(svc, nil)
}

func TestDispatchEndpoint(t *testing.T) {
	repo := &memRepo{triggers: []*domain.Trigger{{
		ID:       "t1",
		TenantID: "acme",
		Type:     domain.TypeSkillGapsCritical,
		Status:   domain.StatusActive,
	}}}
	router := newTestRouter(repo)

	body := `{"categories":{"skills":{"score":0.5,"weaknesses":["Critical gap in cloud skills"]}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/triggers/dispatch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tenant  string                  `json:"tenant"`
		Count   int                     `json:"count"`
		Results []*domain.TriggerResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acme", resp.Tenant)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "initiate_training_program", resp.Results[0].Action)
}

func TestDispatchRejectsEmptyAnalysis(t *testing.T) {
	router := newTestRouter(&memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/triggers/dispatch", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "analysis result is empty")
}

func TestSeedEndpoint(t *testing.T) {
	repo := &memRepo{}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/triggers/seed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Seeded int `json:"seeded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(repo.triggers), resp.Seeded)
	assert.NotZero(t, resp.Seeded)
}

func TestGetTriggerNotFound(t *testing.T) {
	router := newTestRouter(&memRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/triggers/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router := newTestRouter(&memRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/v1/acme/triggers/t1/status", strings.NewReader(`{"status":"paused"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/v1/acme/triggers/t1/status", strings.NewReader(`{"status":"archived"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&memRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
