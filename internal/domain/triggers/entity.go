package triggers

import (
	"time"
)

// ID tipe untuk Trigger
type TriggerID string

// TriggerType enum (closed but extensible: tambah konstanta + rule entry)
type TriggerType string

const (
	TypeSkillGapsCritical      TriggerType = "skill_gaps_critical"
	TypeSkillGapsModerate      TriggerType = "skill_gaps_moderate"
	TypeSkillObsolescenceRisk  TriggerType = "skill_obsolescence_risk"
	TypeCertificationExpiring  TriggerType = "certification_expiring"
	TypePerformanceBelowTarget TriggerType = "performance_below_target"
	TypePerformanceReviewDue   TriggerType = "performance_review_due"
	TypePerformancePerfectLXP  TriggerType = "performance_perfect_lxp"
	TypePerformanceExceptional TriggerType = "performance_exceptional_talent_succession"
	TypePerformanceRecognition TriggerType = "performance_recognition_due"
	TypeTalentRiskHigh         TriggerType = "talent_risk_high"
	TypeSuccessionGapCritical  TriggerType = "succession_gap_critical"
	TypeHighPotentialIdle      TriggerType = "high_potential_underutilized"
	TypeTalentReviewCycleDue   TriggerType = "talent_review_cycle_due"
	TypeRetentionRiskHigh      TriggerType = "retention_risk_high"
	TypeExitPatternDetected    TriggerType = "exit_pattern_detected"
	TypeCompensationConcern    TriggerType = "compensation_concern"
	TypeOnboardingPoor         TriggerType = "onboarding_experience_poor"
	TypeStructureMisalignment  TriggerType = "structure_misalignment"
	TypeSpanOfControlExcessive TriggerType = "span_of_control_excessive"
	TypeRoleClarityLow         TriggerType = "role_clarity_low"
	TypeCultureMisalignment    TriggerType = "culture_misalignment"
	TypeEngagementLow          TriggerType = "engagement_low"
	TypeDEIGap                 TriggerType = "dei_gap"
	TypeLearningCultureWeak    TriggerType = "learning_culture_weak"
	TypeHiringNeedsUrgent      TriggerType = "hiring_needs_urgent"
	TypeCandidateApplied       TriggerType = "candidate_applied"
	TypeWorkforcePlanReviewDue TriggerType = "workforce_plan_review_due"
	TypeComplianceTrainingDue  TriggerType = "compliance_training_due"
)

// Status enum
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPaused   Status = "paused"
)

// Priority enum
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ActionUpgradeRequired is the terminal action for subscription-gated
// trigger types when the tenant's tier does not cover the owning module.
const ActionUpgradeRequired = "upgrade_required"

// Aggregate Root: Trigger
// Triggers are never deleted, only deactivated (status=inactive).
type Trigger struct {
	ID        TriggerID      `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name"`
	Type      TriggerType    `json:"type"`
	Config    map[string]any `json:"config,omitempty"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TriggerResult keputusan engine untuk satu evaluasi trigger.
// Executed=true hanya kalau module handler downstream benar-benar jalan
// dan balikin artifact konkret; false = advisory/queued/gated.
type TriggerResult struct {
	ID        string         `json:"id"`
	TriggerID TriggerID      `json:"trigger_id"`
	Type      TriggerType    `json:"type"`
	Reason    string         `json:"reason"`
	Action    string         `json:"action"`
	Priority  Priority       `json:"priority"`
	Data      map[string]any `json:"data,omitempty"`
	Executed  bool           `json:"executed"`
}

// TriggerExecution audit record, append-only (compliance trail).
// One row per produced TriggerResult, executed or not.
type TriggerExecution struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenant_id"`
	TriggerID      TriggerID      `json:"trigger_id"`
	TriggerType    TriggerType    `json:"trigger_type"`
	Status         string         `json:"status"` // completed
	ConfigSnapshot map[string]any `json:"config_snapshot,omitempty"`
	Action         string         `json:"action"`
	Priority       Priority       `json:"priority"`
	Data           map[string]any `json:"data,omitempty"`
	SnapshotURL    string         `json:"snapshot_url,omitempty"`
	ExecutedAt     time.Time      `json:"executed_at"`
}

// DispatchError represents a persisted per-trigger dispatch failure
type DispatchError struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	TriggerID string    `json:"trigger_id"`
	Phase     string    `json:"phase,omitempty"` // route | evaluate | other
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
