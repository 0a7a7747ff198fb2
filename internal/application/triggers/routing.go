package triggers

import (
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// Module families yang punya handler sendiri
const (
	FamilyLearning    = "learning"
	FamilyHiring      = "hiring"
	FamilyPerformance = "performance"
)

type moduleRoute struct {
	Family string
	// Gated families are subscription-tier checked before any
	// evaluation happens for the trigger.
	Gated bool
}

// moduleRoutes maps trigger types owned by a specialized downstream
// module. Types not listed here go straight to the rule-table evaluator.
var moduleRoutes = map[domain.TriggerType]moduleRoute{
	domain.TypePerformancePerfectLXP: {Family: FamilyLearning},
	domain.TypeLearningCultureWeak:   {Family: FamilyLearning},
	domain.TypeHighPotentialIdle:     {Family: FamilyLearning},

	domain.TypeHiringNeedsUrgent: {Family: FamilyHiring, Gated: true},
	domain.TypeCandidateApplied:  {Family: FamilyHiring, Gated: true},

	domain.TypePerformanceReviewDue: {Family: FamilyPerformance},
}
