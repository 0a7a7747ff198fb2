package triggers

import (
	"context"
)

// Repository port (interface untuk persistence trigger catalog)
type Repository interface {
	Save(ctx context.Context, t *Trigger) error
	Get(ctx context.Context, tenant string, id TriggerID) (*Trigger, error)
	// ListActive returns the catalog-ordered active triggers for a tenant.
	ListActive(ctx context.Context, tenant string) ([]*Trigger, error)
	List(ctx context.Context, tenant string, status Status) ([]*Trigger, error)
	UpdateStatus(ctx context.Context, tenant string, id TriggerID, status Status) error
}

// ExecutionRepository port untuk audit trail (append-only)
type ExecutionRepository interface {
	Save(ctx context.Context, e *TriggerExecution) error
	Get(ctx context.Context, tenant string, id string) (*TriggerExecution, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*TriggerExecution, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedExecutions, error)
}

// ErrorRepository defines persistence for dispatch errors
type ErrorRepository interface {
	Save(ctx context.Context, e *DispatchError) error
	ListByTrigger(ctx context.Context, tenant string, triggerID string, limit int) ([]*DispatchError, error)
}

// ModuleHealth hasil health check module downstream
type ModuleHealth struct {
	Healthy bool `json:"healthy"`
}

// ModuleStatus dari getStatus module downstream
type ModuleStatus struct {
	Status string `json:"status"`
}

// TriggerContext is what the engine hands to a downstream module handler:
// the trigger being dispatched plus the analysis evidence it fired on.
type TriggerContext struct {
	Trigger  *Trigger       `json:"trigger"`
	Category string         `json:"category,omitempty"`
	Score    float64        `json:"score,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// ModuleHandler port untuk module downstream (learning/hiring/performance).
// Engine memperlakukan module sebagai black box dengan shape ini.
type ModuleHandler interface {
	CheckHealth(ctx context.Context) (ModuleHealth, error)
	Initialize(ctx context.Context, config map[string]any) error
	GetStatus(ctx context.Context) (ModuleStatus, error)
	// HandleTrigger returns the module's domain object (e.g. created
	// learning path, job requisition) as a generic JSON document.
	HandleTrigger(ctx context.Context, tenant string, tc TriggerContext) (map[string]any, error)
}

// AccessChecker port ke tenancy/billing collaborator
type AccessChecker interface {
	CheckModuleAccess(ctx context.Context, tenant, module string) (bool, error)
}

// SnapshotStore port untuk simpan snapshot analysis payload per dispatch
type SnapshotStore interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}
