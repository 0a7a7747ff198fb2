package triggers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/rules"
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// Service implements use-cases untuk trigger dispatch.
// Service is designed to be used concurrently and is thread-safe:
// dispatch runs for different tenants are fully independent.
type Service struct {
	Repo       domain.Repository
	Executions domain.ExecutionRepository
	Errors     domain.ErrorRepository
	Access     domain.AccessChecker
	Handlers   map[string]domain.ModuleHandler
	Snapshots  domain.SnapshotStore
	Clock      Clock

	// Timeouts per module family; ties off a hung handler call and
	// turns it into an ordinary module failure (-> fallback).
	Timeouts       map[string]time.Duration
	DefaultTimeout time.Duration
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// RunTriggers jalankan satu dispatch pass: semua trigger aktif tenant,
// urut sesuai catalog. Per trigger: access gate -> module router ->
// rule-table evaluator -> execution logger. Kegagalan satu trigger
// diisolasi, tidak pernah batalin batch. The only propagating failure
// is catalog retrieval itself.
func (s *Service) RunTriggers(ctx context.Context, tenant string, res *analysis.Result) ([]*domain.TriggerResult, error) {
	snapshotURL := s.uploadSnapshot(ctx, tenant, res)

	active, err := s.Repo.ListActive(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("listing active triggers: %w", err)
	}

	var results []*domain.TriggerResult
	for _, trg := range active {
		result, err := s.runTrigger(ctx, tenant, trg, res)
		if err != nil {
			log.Printf("trigger dispatch error: tenant=%s trigger=%s type=%s err=%v",
				tenant, trg.ID, trg.Type, err)
			s.recordError(tenant, trg, err)
			continue
		}
		if result == nil {
			continue
		}
		result.ID = uuid.New().String()
		// at-least-once audit write before the next trigger runs
		s.logExecution(ctx, tenant, trg, result, snapshotURL)
		results = append(results, result)
	}
	return results, nil
}

// runTrigger state machine untuk satu trigger:
// start -> (gated? access gate) -> (routed? module router) -> evaluator.
// Panic dari handler/evaluator manapun diubah jadi error biasa.
func (s *Service) runTrigger(ctx context.Context, tenant string, trg *domain.Trigger, res *analysis.Result) (result *domain.TriggerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic during evaluation: %v", r)
		}
	}()

	route, routed := moduleRoutes[trg.Type]

	if routed && route.Gated {
		allowed, aerr := s.Access.CheckModuleAccess(ctx, tenant, route.Family)
		if aerr != nil {
			return nil, fmt.Errorf("access check for module %s: %w", route.Family, aerr)
		}
		if !allowed {
			// terminal outcome, router dan evaluator dilewati
			return upgradeRequired(trg, route.Family), nil
		}
	}

	if routed {
		if r := s.routeToModule(ctx, tenant, trg, res, route.Family); r != nil {
			return r, nil
		}
		// module gagal/tidak tersedia: silent fallthrough ke evaluator
	}

	rule, ok := rules.Lookup(trg.Type)
	if !ok {
		log.Printf("unknown trigger type, skipping: tenant=%s trigger=%s type=%s",
			tenant, trg.ID, trg.Type)
		return nil, nil
	}
	return rules.Evaluate(rule, trg, res), nil
}

// routeToModule coba delegasi ke module handler. nil = not handled,
// lanjut ke evaluator fallback untuk type yang sama.
func (s *Service) routeToModule(ctx context.Context, tenant string, trg *domain.Trigger, res *analysis.Result, family string) *domain.TriggerResult {
	h, ok := s.Handlers[family]
	if !ok {
		return nil
	}

	hctx, cancel := context.WithTimeout(ctx, s.timeout(family))
	defer cancel()

	// init-if-unhealthy; kegagalan init non-fatal, handler call yang
	// menentukan
	if health, herr := h.CheckHealth(hctx); herr != nil || !health.Healthy {
		if ierr := h.Initialize(hctx, trg.Config); ierr != nil {
			log.Printf("module init failed: tenant=%s module=%s err=%v", tenant, family, ierr)
		}
	}

	artifact, err := h.HandleTrigger(hctx, tenant, s.buildContext(trg, res))
	if err != nil {
		log.Printf("module handler failed, falling back to evaluator: tenant=%s module=%s type=%s err=%v",
			tenant, family, trg.Type, err)
		return nil
	}

	action := fmt.Sprintf("%s_module_executed", family)
	if rule, ok := rules.Lookup(trg.Type); ok {
		action = rule.Action
	}
	return &domain.TriggerResult{
		TriggerID: trg.ID,
		Type:      trg.Type,
		Reason:    fmt.Sprintf("Handled by %s module for trigger type %s", family, trg.Type),
		Action:    action,
		Priority:  domain.PriorityHigh,
		Data: map[string]any{
			"module":   family,
			"artifact": artifact,
		},
		Executed: true,
	}
}

func (s *Service) buildContext(trg *domain.Trigger, res *analysis.Result) domain.TriggerContext {
	tc := domain.TriggerContext{Trigger: trg}
	rule, ok := rules.Lookup(trg.Type)
	if !ok || rule.Category == "" {
		return tc
	}
	tc.Category = string(rule.Category)
	if cr, ok := res.Category(rule.Category); ok {
		tc.Score = cr.Score
		tc.Evidence = map[string]any{
			"weaknesses":      cr.Weaknesses,
			"risks":           cr.Risks,
			"recommendations": cr.Recommendations,
		}
	}
	return tc
}

func upgradeRequired(trg *domain.Trigger, family string) *domain.TriggerResult {
	return &domain.TriggerResult{
		TriggerID: trg.ID,
		Type:      trg.Type,
		Reason:    fmt.Sprintf("Subscription tier does not include the %s module", family),
		Action:    domain.ActionUpgradeRequired,
		Priority:  domain.PriorityMedium,
		Data: map[string]any{
			"required_module": family,
			"trigger_type":    string(trg.Type),
		},
		Executed: false,
	}
}

// logExecution tulis audit record, best-effort: gagal tulis tidak boleh
// mempengaruhi hasil dispatch yang dibalikin ke caller.
func (s *Service) logExecution(ctx context.Context, tenant string, trg *domain.Trigger, result *domain.TriggerResult, snapshotURL string) {
	exec := &domain.TriggerExecution{
		ID:             uuid.New().String(),
		TenantID:       tenant,
		TriggerID:      trg.ID,
		TriggerType:    trg.Type,
		Status:         "completed",
		ConfigSnapshot: trg.Config,
		Action:         result.Action,
		Priority:       result.Priority,
		Data:           result.Data,
		SnapshotURL:    snapshotURL,
		ExecutedAt:     s.Clock.Now(),
	}
	if err := s.Executions.Save(ctx, exec); err != nil {
		log.Printf("audit write failed: tenant=%s trigger=%s err=%v", tenant, trg.ID, err)
	}
}

func (s *Service) recordError(tenant string, trg *domain.Trigger, err error) {
	if s.Errors == nil {
		return
	}
	e := &domain.DispatchError{
		TenantID:  tenant,
		TriggerID: string(trg.ID),
		Phase:     "dispatch",
		Message:   err.Error(),
		CreatedAt: s.Clock.Now(),
	}
	if serr := s.Errors.Save(context.Background(), e); serr != nil {
		log.Printf("dispatch error write failed: tenant=%s err=%v", tenant, serr)
	}
}

func (s *Service) uploadSnapshot(ctx context.Context, tenant string, res *analysis.Result) string {
	if s.Snapshots == nil {
		return ""
	}
	key := fmt.Sprintf("%s/dispatch/%s.json", tenant, uuid.New().String())
	url, err := s.Snapshots.PutJSON(ctx, key, res)
	if err != nil {
		log.Printf("analysis snapshot upload failed: tenant=%s err=%v", tenant, err)
		return ""
	}
	return url
}

func (s *Service) timeout(family string) time.Duration {
	if d, ok := s.Timeouts[family]; ok && d > 0 {
		return d
	}
	if s.DefaultTimeout > 0 {
		return s.DefaultTimeout
	}
	return 10 * time.Second
}

//
// ==== CATALOG ====
//

// SeedDefaultTriggers buat satu trigger default per known type.
// Gagal insert satu type cuma di-log, type lain tetap jalan.
// Returns how many triggers were created.
func (s *Service) SeedDefaultTriggers(ctx context.Context, tenant string) int {
	seeded := 0
	now := s.Clock.Now()
	for _, t := range rules.Order {
		rule, ok := rules.Lookup(t)
		if !ok {
			continue
		}
		trg := &domain.Trigger{
			ID:        domain.TriggerID(uuid.New().String()),
			TenantID:  tenant,
			Name:      displayName(t),
			Type:      t,
			Config:    copyConfig(rule.Defaults),
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Repo.Save(ctx, trg); err != nil {
			log.Printf("seed failed for trigger type, skipping: tenant=%s type=%s err=%v", tenant, t, err)
			continue
		}
		seeded++
	}
	return seeded
}

// UpdateStatus untuk lifecycle trigger (activate/pause/deactivate)
func (s *Service) UpdateStatus(ctx context.Context, tenant string, id domain.TriggerID, status domain.Status) error {
	switch status {
	case domain.StatusActive, domain.StatusInactive, domain.StatusPaused:
	default:
		return fmt.Errorf("invalid trigger status: %s", status)
	}
	return s.Repo.UpdateStatus(ctx, tenant, id, status)
}

// List triggers by status ("" = semua)
func (s *Service) List(ctx context.Context, tenant string, status domain.Status) ([]*domain.Trigger, error) {
	return s.Repo.List(ctx, tenant, status)
}

// Get ambil 1 trigger by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.TriggerID) (*domain.Trigger, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// LatestExecutions ambil N audit record terakhir
func (s *Service) LatestExecutions(ctx context.Context, tenant string, limit int) ([]*domain.TriggerExecution, error) {
	return s.Executions.Latest(ctx, tenant, limit)
}

// PaginateExecutions audit trail, classic pagination
func (s *Service) PaginateExecutions(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedExecutions, error) {
	return s.Executions.Paginate(ctx, tenant, page, pageSize)
}

// GetExecution ambil 1 audit record by id
func (s *Service) GetExecution(ctx context.Context, tenant string, id string) (*domain.TriggerExecution, error) {
	return s.Executions.Get(ctx, tenant, id)
}

// copyConfig shallow-copy supaya trigger tidak share map defaults
// dari rule table antar tenant
func copyConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// displayName "skill_gaps_critical" -> "Skill Gaps Critical"
func displayName(t domain.TriggerType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
