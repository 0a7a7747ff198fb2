package triggers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/rules"
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

//
// ==== fakes ====
//

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeRepo struct {
	active    []*domain.Trigger
	listErr   error
	saved     []*domain.Trigger
	failTypes map[domain.TriggerType]error
}

func (f *fakeRepo) Save(ctx context.Context, t *domain.Trigger) error {
	if err := f.failTypes[t.Type]; err != nil {
		return err
	}
	f.saved = append(f.saved, t)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, tenant string, id domain.TriggerID) (*domain.Trigger, error) {
	for _, t := range f.active {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTriggerNotFound
}

func (f *fakeRepo) ListActive(ctx context.Context, tenant string) ([]*domain.Trigger, error) {
	return f.active, f.listErr
}

func (f *fakeRepo) List(ctx context.Context, tenant string, status domain.Status) ([]*domain.Trigger, error) {
	return f.active, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, tenant string, id domain.TriggerID, status domain.Status) error {
	return nil
}

type fakeExecs struct {
	saved   []*domain.TriggerExecution
	saveErr error
}

func (f *fakeExecs) Save(ctx context.Context, e *domain.TriggerExecution) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, e)
	return nil
}

func (f *fakeExecs) Get(ctx context.Context, tenant, id string) (*domain.TriggerExecution, error) {
	return nil, nil
}

func (f *fakeExecs) Latest(ctx context.Context, tenant string, limit int) ([]*domain.TriggerExecution, error) {
	return f.saved, nil
}

func (f *fakeExecs) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedExecutions, error) {
	return domain.PaginatedExecutions{Data: f.saved}, nil
}

type fakeErrors struct {
	saved []*domain.DispatchError
}

func (f *fakeErrors) Save(ctx context.Context, e *domain.DispatchError) error {
	f.saved = append(f.saved, e)
	return nil
}

func (f *fakeErrors) ListByTrigger(ctx context.Context, tenant, triggerID string, limit int) ([]*domain.DispatchError, error) {
	return f.saved, nil
}

type fakeAccess struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeAccess) CheckModuleAccess(ctx context.Context, tenant, module string) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

type fakeHandler struct {
	healthy     bool
	initErr     error
	handleErr   error
	panicOnCall bool
	artifact    map[string]any
	initCalls   int
	handleCalls int
}

func (f *fakeHandler) CheckHealth(ctx context.Context) (domain.ModuleHealth, error) {
	return domain.ModuleHealth{Healthy: f.healthy}, nil
}

func (f *fakeHandler) Initialize(ctx context.Context, config map[string]any) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeHandler) GetStatus(ctx context.Context) (domain.ModuleStatus, error) {
	return domain.ModuleStatus{Status: "ready"}, nil
}

func (f *fakeHandler) HandleTrigger(ctx context.Context, tenant string, tc domain.TriggerContext) (map[string]any, error) {
	f.handleCalls++
	if f.panicOnCall {
		panic("module handler exploded")
	}
	if f.handleErr != nil {
		return nil, f.handleErr
	}
	return f.artifact, nil
}

type fakeSnapshots struct {
	url string
	err error
}

func (f *fakeSnapshots) PutJSON(ctx context.Context, key string, v any) (string, error) {
	return f.url, f.err
}

//
// ==== helpers ====
//

func newService(repo *fakeRepo, execs *fakeExecs, access *fakeAccess, handlers map[string]domain.ModuleHandler) *Service {
	return &Service{
		Repo:           repo,
		Executions:     execs,
		Access:         access,
		Handlers:       handlers,
		Clock:          fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		DefaultTimeout: time.Second,
	}
}

func activeTrigger(id string, typ domain.TriggerType) *domain.Trigger {
	return &domain.Trigger{
		ID:       domain.TriggerID(id),
		TenantID: "acme",
		Name:     id,
		Type:     typ,
		Status:   domain.StatusActive,
	}
}

func skillsAnalysis() *analysis.Result {
	return &analysis.Result{
		Categories: map[analysis.Category]analysis.CategoryResult{
			analysis.CategorySkills: {
				Score:      0.5,
				Weaknesses: []string{"Critical gap in cloud skills"},
			},
		},
	}
}

func perfectLXPAnalysis() *analysis.Result {
	return &analysis.Result{
		Categories: map[analysis.Category]analysis.CategoryResult{
			analysis.CategoryPerformance: {
				Score:           1.0,
				Recommendations: []string{"Offer advanced training to sustain momentum"},
			},
		},
	}
}

//
// ==== dispatch ====
//

func TestRunTriggersModuleSuccess(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypePerformancePerfectLXP)}}
	execs := &fakeExecs{}
	handler := &fakeHandler{
		healthy:  true,
		artifact: map[string]any{"id": "lp-1", "name": "Advanced Cloud Path", "courses": []any{"c1", "c2"}},
	}
	svc := newService(repo, execs, &fakeAccess{allowed: true}, map[string]domain.ModuleHandler{
		FamilyLearning: handler,
	})

	results, err := svc.RunTriggers(context.Background(), "acme", perfectLXPAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.True(t, got.Executed)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, "create_advanced_learning_path", got.Action)
	assert.Equal(t, "learning", got.Data["module"])
	assert.Equal(t, handler.artifact, got.Data["artifact"])
	assert.Equal(t, 1, handler.handleCalls)

	// exactly one audit record per result
	require.Len(t, execs.saved, 1)
	assert.Equal(t, "completed", execs.saved[0].Status)
	assert.Equal(t, domain.TypePerformancePerfectLXP, execs.saved[0].TriggerType)
	assert.Equal(t, got.Action, execs.saved[0].Action)
}

func TestRunTriggersModuleInitFailureStillCallsHandler(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypePerformancePerfectLXP)}}
	handler := &fakeHandler{
		healthy:  false,
		initErr:  errors.New("lxp warmup failed"),
		artifact: map[string]any{"id": "lp-2"},
	}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{allowed: true}, map[string]domain.ModuleHandler{
		FamilyLearning: handler,
	})

	results, err := svc.RunTriggers(context.Background(), "acme", perfectLXPAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Executed)
	assert.Equal(t, 1, handler.initCalls)
	assert.Equal(t, 1, handler.handleCalls)
}

func TestRunTriggersModuleFailureFallsBackToEvaluator(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypePerformancePerfectLXP)}}
	execs := &fakeExecs{}
	handler := &fakeHandler{healthy: true, handleErr: errors.New("lxp is down")}
	svc := newService(repo, execs, &fakeAccess{allowed: true}, map[string]domain.ModuleHandler{
		FamilyLearning: handler,
	})

	results, err := svc.RunTriggers(context.Background(), "acme", perfectLXPAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)

	// advisory result from the rule table, not the module
	got := results[0]
	assert.False(t, got.Executed)
	assert.Equal(t, "create_advanced_learning_path", got.Action)
	assert.NotContains(t, got.Data, "artifact")
	require.Len(t, execs.saved, 1)
}

func TestRunTriggersModuleFailureNoFallbackMatch(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypePerformancePerfectLXP)}}
	execs := &fakeExecs{}
	handler := &fakeHandler{healthy: true, handleErr: errors.New("lxp is down")}
	svc := newService(repo, execs, &fakeAccess{allowed: true}, map[string]domain.ModuleHandler{
		FamilyLearning: handler,
	})

	// analysis without learning appetite: fallback rule does not match
	res := &analysis.Result{
		Categories: map[analysis.Category]analysis.CategoryResult{
			analysis.CategoryPerformance: {Score: 0.7},
		},
	}
	results, err := svc.RunTriggers(context.Background(), "acme", res)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, execs.saved)
}

func TestRunTriggersGatedDenied(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypeCandidateApplied)}}
	execs := &fakeExecs{}
	access := &fakeAccess{allowed: false}
	handler := &fakeHandler{healthy: true, artifact: map[string]any{"id": "req-1"}}
	svc := newService(repo, execs, access, map[string]domain.ModuleHandler{
		FamilyHiring: handler,
	})

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, domain.ActionUpgradeRequired, got.Action)
	assert.False(t, got.Executed)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, "hiring", got.Data["required_module"])

	// terminal outcome: router and evaluator never ran
	assert.Equal(t, 1, access.calls)
	assert.Equal(t, 0, handler.handleCalls)
	require.Len(t, execs.saved, 1)
}

func TestRunTriggersGatedAllowedReachesModule(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypeHiringNeedsUrgent)}}
	access := &fakeAccess{allowed: true}
	handler := &fakeHandler{healthy: true, artifact: map[string]any{"id": "req-7", "title": "SRE", "department": "Platform"}}
	svc := newService(repo, &fakeExecs{}, access, map[string]domain.ModuleHandler{
		FamilyHiring: handler,
	})

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Executed)
	assert.Equal(t, handler.artifact, results[0].Data["artifact"])
	assert.Equal(t, 1, access.calls)
}

func TestRunTriggersAccessCheckErrorIsolated(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{
		activeTrigger("t1", domain.TypeCandidateApplied),
		activeTrigger("t2", domain.TypeSkillGapsCritical),
	}}
	execs := &fakeExecs{}
	errs := &fakeErrors{}
	svc := newService(repo, execs, &fakeAccess{err: errors.New("billing timeout")}, nil)
	svc.Errors = errs

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)

	// gated trigger failed, the unrouted one still fired
	require.Len(t, results, 1)
	assert.Equal(t, domain.TriggerID("t2"), results[0].TriggerID)
	require.Len(t, errs.saved, 1)
	assert.Equal(t, "t1", errs.saved[0].TriggerID)
}

func TestRunTriggersPanicIsolated(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{
		activeTrigger("t1", domain.TypeSkillGapsCritical),
		activeTrigger("t2", domain.TypeHiringNeedsUrgent),
		activeTrigger("t3", domain.TypeRetentionRiskHigh),
	}}
	execs := &fakeExecs{}
	errs := &fakeErrors{}
	handler := &fakeHandler{healthy: true, panicOnCall: true}
	svc := newService(repo, execs, &fakeAccess{allowed: true}, map[string]domain.ModuleHandler{
		FamilyHiring: handler,
	})
	svc.Errors = errs

	res := skillsAnalysis()
	res.Categories[analysis.CategoryRetention] = analysis.CategoryResult{Score: 0.3}

	results, err := svc.RunTriggers(context.Background(), "acme", res)
	require.NoError(t, err)

	// one panicking trigger must not take down the batch
	require.Len(t, results, 2)
	assert.Equal(t, domain.TriggerID("t1"), results[0].TriggerID)
	assert.Equal(t, domain.TriggerID("t3"), results[1].TriggerID)
	require.Len(t, errs.saved, 1)
	assert.Contains(t, errs.saved[0].Message, "panic")
	assert.Len(t, execs.saved, 2)
}

func TestRunTriggersUnknownTypeSkipped(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TriggerType("made_up_type"))}}
	execs := &fakeExecs{}
	errs := &fakeErrors{}
	svc := newService(repo, execs, &fakeAccess{}, nil)
	svc.Errors = errs

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, execs.saved)
	// tolerated, not an error
	assert.Empty(t, errs.saved)
}

func TestRunTriggersCatalogErrorPropagates(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("db gone")}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{}, nil)

	_, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing active triggers")
}

func TestRunTriggersAuditFailureDoesNotAffectResults(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypeSkillGapsCritical)}}
	execs := &fakeExecs{saveErr: errors.New("audit table locked")}
	svc := newService(repo, execs, &fakeAccess{}, nil)

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "initiate_training_program", results[0].Action)
}

func TestRunTriggersCatalogOrderPreserved(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{
		activeTrigger("a", domain.TypeSkillGapsCritical),
		activeTrigger("b", domain.TypeRetentionRiskHigh),
		activeTrigger("c", domain.TypeCompensationConcern),
	}}
	execs := &fakeExecs{}
	svc := newService(repo, execs, &fakeAccess{}, nil)

	res := skillsAnalysis()
	res.Categories[analysis.CategoryRetention] = analysis.CategoryResult{
		Score:      0.3,
		Weaknesses: []string{"Salary bands below market"},
	}

	results, err := svc.RunTriggers(context.Background(), "acme", res)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, domain.TriggerID("a"), results[0].TriggerID)
	assert.Equal(t, domain.TriggerID("b"), results[1].TriggerID)
	assert.Equal(t, domain.TriggerID("c"), results[2].TriggerID)

	// audit order mirrors result order
	require.Len(t, execs.saved, 3)
	for i := range results {
		assert.Equal(t, results[i].TriggerID, execs.saved[i].TriggerID)
	}
}

func TestRunTriggersResultsDistinctIDs(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{
		activeTrigger("a", domain.TypeSkillGapsCritical),
		activeTrigger("b", domain.TypeSkillGapsModerate),
	}}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{}, nil)

	res := skillsAnalysis()
	res.Categories[analysis.CategorySkills] = analysis.CategoryResult{
		Score:      0.5,
		Weaknesses: []string{"Critical gap in cloud skills", "Team lacks Terraform experience"},
	}

	results, err := svc.RunTriggers(context.Background(), "acme", res)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].ID)
	assert.NotEqual(t, results[0].ID, results[1].ID)
}

func TestRunTriggersSnapshotURLOnAudit(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypeSkillGapsCritical)}}
	execs := &fakeExecs{}
	svc := newService(repo, execs, &fakeAccess{}, nil)
	svc.Snapshots = &fakeSnapshots{url: "http://minio/talenta/acme/dispatch/x.json"}

	_, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	require.Len(t, execs.saved, 1)
	assert.Equal(t, "http://minio/talenta/acme/dispatch/x.json", execs.saved[0].SnapshotURL)
}

func TestRunTriggersSnapshotFailureIsBestEffort(t *testing.T) {
	repo := &fakeRepo{active: []*domain.Trigger{activeTrigger("t1", domain.TypeSkillGapsCritical)}}
	execs := &fakeExecs{}
	svc := newService(repo, execs, &fakeAccess{}, nil)
	svc.Snapshots = &fakeSnapshots{err: errors.New("bucket missing")}

	results, err := svc.RunTriggers(context.Background(), "acme", skillsAnalysis())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, execs.saved[0].SnapshotURL)
}

//
// ==== catalog ====
//

func TestSeedDefaultTriggers(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{}, nil)

	seeded := svc.SeedDefaultTriggers(context.Background(), "acme")
	assert.Equal(t, len(rules.Order), seeded)
	require.Len(t, repo.saved, len(rules.Order))

	byType := map[domain.TriggerType]*domain.Trigger{}
	for _, trg := range repo.saved {
		assert.Equal(t, "acme", trg.TenantID)
		assert.Equal(t, domain.StatusActive, trg.Status)
		assert.NotEmpty(t, trg.ID)
		assert.NotEmpty(t, trg.Name)
		byType[trg.Type] = trg
	}
	// documented defaults travel with the seeded trigger
	retention := byType[domain.TypeRetentionRiskHigh]
	require.NotNil(t, retention)
	assert.Equal(t, 0.5, retention.Config["riskThreshold"])
}

func TestSeedDefaultTriggersConfigNotShared(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{}, nil)

	svc.SeedDefaultTriggers(context.Background(), "acme")
	svc.SeedDefaultTriggers(context.Background(), "globex")

	var acme, globex *domain.Trigger
	for _, trg := range repo.saved {
		if trg.Type != domain.TypeRetentionRiskHigh {
			continue
		}
		if trg.TenantID == "acme" {
			acme = trg
		} else {
			globex = trg
		}
	}
	require.NotNil(t, acme)
	require.NotNil(t, globex)

	// mutating one tenant's config must not leak into the other's,
	// nor into the documented rule defaults
	acme.Config["riskThreshold"] = 0.9
	assert.Equal(t, 0.5, globex.Config["riskThreshold"])

	rule, ok := rules.Lookup(domain.TypeRetentionRiskHigh)
	require.True(t, ok)
	assert.Equal(t, 0.5, rule.Defaults["riskThreshold"])
}

func TestSeedDefaultTriggersSkipsFailedInsert(t *testing.T) {
	repo := &fakeRepo{failTypes: map[domain.TriggerType]error{
		domain.TypeDEIGap: errors.New("duplicate key"),
	}}
	svc := newService(repo, &fakeExecs{}, &fakeAccess{}, nil)

	seeded := svc.SeedDefaultTriggers(context.Background(), "acme")
	assert.Equal(t, len(rules.Order)-1, seeded)
	assert.Len(t, repo.saved, len(rules.Order)-1)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newService(&fakeRepo{}, &fakeExecs{}, &fakeAccess{}, nil)
	err := svc.UpdateStatus(context.Background(), "acme", "t1", domain.Status("archived"))
	require.Error(t, err)

	err = svc.UpdateStatus(context.Background(), "acme", "t1", domain.StatusPaused)
	require.NoError(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Skill Gaps Critical", displayName(domain.TypeSkillGapsCritical))
	assert.Equal(t, "Dei Gap", displayName(domain.TypeDEIGap))
}
