package rules

import (
	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// Order is the catalog order used for default-trigger seeding. Dispatch
// order follows the tenant's stored catalog, not this slice.
var Order = []triggers.TriggerType{
	triggers.TypeSkillGapsCritical,
	triggers.TypeSkillGapsModerate,
	triggers.TypeSkillObsolescenceRisk,
	triggers.TypeCertificationExpiring,
	triggers.TypePerformanceBelowTarget,
	triggers.TypePerformanceReviewDue,
	triggers.TypePerformancePerfectLXP,
	triggers.TypePerformanceExceptional,
	triggers.TypePerformanceRecognition,
	triggers.TypeTalentRiskHigh,
	triggers.TypeSuccessionGapCritical,
	triggers.TypeHighPotentialIdle,
	triggers.TypeTalentReviewCycleDue,
	triggers.TypeRetentionRiskHigh,
	triggers.TypeExitPatternDetected,
	triggers.TypeCompensationConcern,
	triggers.TypeOnboardingPoor,
	triggers.TypeStructureMisalignment,
	triggers.TypeSpanOfControlExcessive,
	triggers.TypeRoleClarityLow,
	triggers.TypeCultureMisalignment,
	triggers.TypeEngagementLow,
	triggers.TypeDEIGap,
	triggers.TypeLearningCultureWeak,
	triggers.TypeHiringNeedsUrgent,
	triggers.TypeCandidateApplied,
	triggers.TypeWorkforcePlanReviewDue,
	triggers.TypeComplianceTrainingDue,
}

// Lookup returns the rule-table entry for a trigger type.
func Lookup(t triggers.TriggerType) (Rule, bool) {
	r, ok := table[t]
	return r, ok
}

// Table exposes a copy-safe view for seeding and tests.
func Table() map[triggers.TriggerType]Rule {
	return table
}

// table collapses the per-trigger predicate trees of the upstream
// product into declarative entries. Patterns are matched as
// case-insensitive substrings.
var table = map[triggers.TriggerType]Rule{

	// ---- skills ----

	triggers.TypeSkillGapsCritical: {
		Type:     triggers.TypeSkillGapsCritical,
		Category: analysis.CategorySkills,
		Groups: []SignalGroup{
			{Name: "critical_gaps", Patterns: []string{"critical gap", "critical skill", "severe shortage", "urgent reskilling"}},
		},
		Action:   "initiate_training_program",
		Priority: triggers.PriorityHigh,
		Reason:   "Critical skill gaps detected in skills assessment",
		Extract: []DataFilter{
			{Key: "gaps", Source: FieldWeaknesses, Group: "critical_gaps"},
			{Key: "risks", Source: FieldRisks, Group: "critical_gaps"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "critical_gaps"},
		},
	},

	triggers.TypeSkillGapsModerate: {
		Type:     triggers.TypeSkillGapsModerate,
		Category: analysis.CategorySkills,
		Groups: []SignalGroup{
			{Name: "moderate_gaps", Patterns: []string{"gap in", "lacks", "missing skill", "needs training", "upskill"}},
		},
		Action:   "plan_skill_development",
		Priority: triggers.PriorityMedium,
		Reason:   "Moderate skill gaps detected in skills assessment",
		Extract: []DataFilter{
			{Key: "gaps", Source: FieldWeaknesses, Group: "moderate_gaps"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "moderate_gaps"},
		},
	},

	triggers.TypeSkillObsolescenceRisk: {
		Type:     triggers.TypeSkillObsolescenceRisk,
		Category: analysis.CategorySkills,
		Groups: []SignalGroup{
			{Name: "obsolescence", Patterns: []string{"legacy", "outdated", "obsolete", "deprecated technology"}},
		},
		Action:   "schedule_reskilling",
		Priority: triggers.PriorityMedium,
		Reason:   "Skill obsolescence risk detected in skills assessment",
		Extract: []DataFilter{
			{Key: "risks", Source: FieldRisks, Group: "obsolescence"},
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "obsolescence"},
		},
	},

	triggers.TypeCertificationExpiring: {
		Type:     triggers.TypeCertificationExpiring,
		Category: analysis.CategorySkills,
		Groups: []SignalGroup{
			{Name: "certification", Patterns: []string{"certification", "certificate", "license", "accreditation"}},
		},
		Action:      "schedule_recertification",
		Priority:    triggers.PriorityMedium,
		Reason:      "Expiring certifications flagged in skills assessment",
		ConfigHints: []string{"advanceNoticeDays"},
		Extract: []DataFilter{
			{Key: "certifications", Source: FieldRisks, Group: "certification"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "certification"},
		},
		Defaults: map[string]any{"advanceNoticeDays": 30},
	},

	// ---- performance ----

	triggers.TypePerformanceBelowTarget: {
		Type:     triggers.TypePerformanceBelowTarget,
		Category: analysis.CategoryPerformance,
		Groups: []SignalGroup{
			{Name: "remediation", Patterns: []string{"below target", "underperform", "improvement plan", "coaching", "missed goal"}},
		},
		Threshold:     &ScoreGate{ConfigKey: "targetThreshold", Default: 0.6, Op: "<="},
		ThresholdJoin: "and",
		Action:        "create_improvement_plan",
		Priority:      triggers.PriorityHigh,
		Reason:        "Performance below target with remediation signals present",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "remediation"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "remediation"},
		},
		Defaults: map[string]any{"targetThreshold": 0.6},
	},

	triggers.TypePerformanceReviewDue: {
		Type:     triggers.TypePerformanceReviewDue,
		Category: analysis.CategoryPerformance,
		Groups: []SignalGroup{
			{Name: "review_cycle", Patterns: []string{"review overdue", "appraisal", "feedback cycle", "review cycle"}},
		},
		Action:      "schedule_performance_reviews",
		Priority:    triggers.PriorityMedium,
		Reason:      "Performance review cycle signals detected",
		ConfigHints: []string{"reminderDays"},
		Extract: []DataFilter{
			{Key: "recommendations", Source: FieldRecommendations, Group: "review_cycle"},
		},
		Defaults: map[string]any{"reminderDays": []int{30, 14, 7, 1}},
	},

	// Both groups must hit: a perfect score alone does not imply the org
	// wants an advanced learning path.
	triggers.TypePerformancePerfectLXP: {
		Type:     triggers.TypePerformancePerfectLXP,
		Category: analysis.CategoryPerformance,
		Groups: []SignalGroup{
			{
				Name:     "perfect_score",
				Patterns: []string{"100%", "perfect score", "full target"},
				Sources:  []Field{FieldStrengths, FieldRecommendations},
				Score:    &ScoreGate{ConfigKey: "perfectThreshold", Default: 1.0, Op: ">="},
			},
			{
				Name:     "continued_learning",
				Patterns: []string{"continued learning", "advanced training", "stretch", "growth path"},
				Sources:  []Field{FieldStrengths, FieldRecommendations},
			},
		},
		Require:  []string{"perfect_score", "continued_learning"},
		Action:   "create_advanced_learning_path",
		Priority: triggers.PriorityMedium,
		Reason:   "On-target performance with continued-learning appetite",
		Extract: []DataFilter{
			{Key: "strengths", Source: FieldStrengths, Group: "perfect_score"},
			{Key: "learning_signals", Source: FieldRecommendations, Group: "continued_learning"},
		},
		Defaults: map[string]any{"perfectThreshold": 1.0},
	},

	triggers.TypePerformanceExceptional: {
		Type:     triggers.TypePerformanceExceptional,
		Category: analysis.CategoryPerformance,
		Groups: []SignalGroup{
			{
				Name:     "exceptional",
				Patterns: []string{"105%", "exceptional perform", "exceeds all"},
				Sources:  []Field{FieldStrengths, FieldRecommendations},
				Score:    &ScoreGate{ConfigKey: "exceptionalThreshold", Default: 1.05, Op: ">="},
			},
			{
				Name:     "leadership",
				Patterns: []string{"leadership potential", "top talent", "high performer", "promotion ready"},
				Sources:  []Field{FieldStrengths, FieldRecommendations},
			},
		},
		Require:  []string{"exceptional", "leadership"},
		Action:   "nominate_succession_candidate",
		Priority: triggers.PriorityHigh,
		Reason:   "Exceptional performance with leadership potential",
		Extract: []DataFilter{
			{Key: "strengths", Source: FieldStrengths, Group: "exceptional"},
			{Key: "leadership_signals", Source: FieldStrengths, Group: "leadership"},
		},
		Defaults: map[string]any{"exceptionalThreshold": 1.05},
	},

	triggers.TypePerformanceRecognition: {
		Type:     triggers.TypePerformanceRecognition,
		Category: analysis.CategoryPerformance,
		Groups: []SignalGroup{
			{Name: "recognition", Patterns: []string{"recognition", "reward", "appreciation", "celebrate"}},
		},
		Action:   "launch_recognition_program",
		Priority: triggers.PriorityLow,
		Reason:   "Recognition gaps flagged in performance assessment",
		Extract: []DataFilter{
			{Key: "recommendations", Source: FieldRecommendations, Group: "recognition"},
		},
		// Scheduling the program is the whole action, nothing downstream runs.
		Terminal: true,
	},

	// ---- talent ----

	triggers.TypeTalentRiskHigh: {
		Type:     triggers.TypeTalentRiskHigh,
		Category: analysis.CategoryTalent,
		Groups: []SignalGroup{
			{Name: "flight_risk", Patterns: []string{"flight risk", "attrition", "poaching", "competitive offer"}},
			{Name: "disengagement", Patterns: []string{"disengag", "burnout", "low morale"}},
		},
		Action:   "activate_retention_plan",
		Priority: triggers.PriorityHigh,
		Reason:   "High talent risk detected in talent assessment",
		Extract: []DataFilter{
			{Key: "flight_risks", Source: FieldRisks, Group: "flight_risk"},
			{Key: "engagement_risks", Source: FieldRisks, Group: "disengagement"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "flight_risk"},
		},
	},

	triggers.TypeSuccessionGapCritical: {
		Type:     triggers.TypeSuccessionGapCritical,
		Category: analysis.CategoryTalent,
		Groups: []SignalGroup{
			{Name: "succession", Patterns: []string{"succession", "no successor", "key person", "bench strength"}},
		},
		Action:   "build_succession_pipeline",
		Priority: triggers.PriorityHigh,
		Reason:   "Critical succession gaps detected in talent assessment",
		Extract: []DataFilter{
			{Key: "gaps", Source: FieldGaps, Group: "succession"},
			{Key: "risks", Source: FieldRisks, Group: "succession"},
		},
	},

	triggers.TypeHighPotentialIdle: {
		Type:     triggers.TypeHighPotentialIdle,
		Category: analysis.CategoryTalent,
		Groups: []SignalGroup{
			{Name: "underutilized", Patterns: []string{"underutilized", "under-utilized", "untapped potential", "stagnant"}},
		},
		Action:   "create_stretch_assignment",
		Priority: triggers.PriorityMedium,
		Reason:   "High-potential employees underutilized",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "underutilized"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "underutilized"},
		},
	},

	triggers.TypeTalentReviewCycleDue: {
		Type:     triggers.TypeTalentReviewCycleDue,
		Category: analysis.CategoryTalent,
		Groups: []SignalGroup{
			{Name: "talent_review", Patterns: []string{"talent review", "calibration", "nine box"}},
		},
		Action:      "schedule_talent_review",
		Priority:    triggers.PriorityLow,
		Reason:      "Talent review cycle signals detected",
		ConfigHints: []string{"cycleMonths"},
		Extract: []DataFilter{
			{Key: "recommendations", Source: FieldRecommendations, Group: "talent_review"},
		},
		Terminal: true,
		Defaults: map[string]any{"cycleMonths": 6},
	},

	// ---- retention ----

	triggers.TypeRetentionRiskHigh: {
		Type:     triggers.TypeRetentionRiskHigh,
		Category: analysis.CategoryRetention,
		Groups: []SignalGroup{
			{Name: "turnover", Patterns: []string{"turnover", "attrition", "resignation", "churn"}},
		},
		Threshold:     &ScoreGate{ConfigKey: "riskThreshold", Default: 0.5, Op: "<="},
		ThresholdJoin: "or",
		Action:        "launch_retention_program",
		Priority:      triggers.PriorityHigh,
		Reason:        "High retention risk detected in retention assessment",
		Extract: []DataFilter{
			{Key: "risks", Source: FieldRisks, Group: "turnover"},
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "turnover"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "turnover"},
		},
		Defaults: map[string]any{"riskThreshold": 0.5},
	},

	triggers.TypeExitPatternDetected: {
		Type:     triggers.TypeExitPatternDetected,
		Category: analysis.CategoryRetention,
		Groups: []SignalGroup{
			{Name: "exit_patterns", Patterns: []string{"exit interview", "departure pattern", "regrettable", "leaving within"}},
		},
		Action:   "analyze_exit_drivers",
		Priority: triggers.PriorityMedium,
		Reason:   "Exit patterns detected in retention assessment",
		Extract: []DataFilter{
			{Key: "patterns", Source: FieldRisks, Group: "exit_patterns"},
		},
	},

	triggers.TypeCompensationConcern: {
		Type:     triggers.TypeCompensationConcern,
		Category: analysis.CategoryRetention,
		Groups: []SignalGroup{
			{Name: "compensation", Patterns: []string{"compensation", "salary", "below market", "pay equity", "pay gap"}},
		},
		Action:   "review_compensation_bands",
		Priority: triggers.PriorityHigh,
		Reason:   "Compensation concerns detected in retention assessment",
		Extract: []DataFilter{
			{Key: "concerns", Source: FieldWeaknesses, Group: "compensation"},
			{Key: "risks", Source: FieldRisks, Group: "compensation"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "compensation"},
		},
	},

	triggers.TypeOnboardingPoor: {
		Type:     triggers.TypeOnboardingPoor,
		Category: analysis.CategoryRetention,
		Groups: []SignalGroup{
			{Name: "onboarding", Patterns: []string{"onboarding", "first 90", "ramp-up", "new hire experience"}},
		},
		Action:   "revamp_onboarding",
		Priority: triggers.PriorityMedium,
		Reason:   "Poor onboarding experience signals in retention assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "onboarding"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "onboarding"},
		},
	},

	// ---- structure ----

	triggers.TypeStructureMisalignment: {
		Type:     triggers.TypeStructureMisalignment,
		Category: analysis.CategoryStructure,
		Groups: []SignalGroup{
			{Name: "misalignment", Patterns: []string{"misalign", "unclear reporting", "duplicated role", "silo"}},
		},
		Threshold:     &ScoreGate{ConfigKey: "alignmentThreshold", Default: 0.65, Op: "<="},
		ThresholdJoin: "and",
		Action:        "propose_reorg_review",
		Priority:      triggers.PriorityHigh,
		Reason:        "Structural misalignment below alignment threshold",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "misalignment"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "misalignment"},
		},
		Defaults: map[string]any{"alignmentThreshold": 0.65},
	},

	triggers.TypeSpanOfControlExcessive: {
		Type:     triggers.TypeSpanOfControlExcessive,
		Category: analysis.CategoryStructure,
		Groups: []SignalGroup{
			{Name: "span_of_control", Patterns: []string{"span of control", "too many direct reports", "overloaded manager"}},
		},
		Action:   "rebalance_teams",
		Priority: triggers.PriorityMedium,
		Reason:   "Excessive span of control in structure assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "span_of_control"},
		},
	},

	triggers.TypeRoleClarityLow: {
		Type:     triggers.TypeRoleClarityLow,
		Category: analysis.CategoryStructure,
		Groups: []SignalGroup{
			{Name: "role_clarity", Patterns: []string{"role clarity", "unclear responsibilit", "overlapping role"}},
		},
		Action:   "define_role_charters",
		Priority: triggers.PriorityMedium,
		Reason:   "Low role clarity in structure assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "role_clarity"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "role_clarity"},
		},
	},

	// ---- culture ----

	triggers.TypeCultureMisalignment: {
		Type:     triggers.TypeCultureMisalignment,
		Category: analysis.CategoryCulture,
		Groups: []SignalGroup{
			{Name: "values_mismatch", Patterns: []string{"values mismatch", "culture clash", "misalign"}},
		},
		Threshold:     &ScoreGate{ConfigKey: "optimalThreshold", Default: 0.6, Op: "<="},
		ThresholdJoin: "or",
		Action:        "launch_culture_program",
		Priority:      triggers.PriorityMedium,
		Reason:        "Culture misalignment detected in culture assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "values_mismatch"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "values_mismatch"},
		},
		Defaults: map[string]any{"optimalThreshold": 0.6},
	},

	triggers.TypeEngagementLow: {
		Type:     triggers.TypeEngagementLow,
		Category: analysis.CategoryCulture,
		Groups: []SignalGroup{
			{Name: "engagement", Patterns: []string{"engagement", "morale", "satisfaction declin"}},
		},
		Action:   "run_engagement_survey",
		Priority: triggers.PriorityMedium,
		Reason:   "Low engagement signals in culture assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "engagement"},
		},
	},

	triggers.TypeDEIGap: {
		Type:     triggers.TypeDEIGap,
		Category: analysis.CategoryCulture,
		Groups: []SignalGroup{
			{Name: "dei", Patterns: []string{"diversity", "inclusion", "representation", "equity gap"}},
		},
		Action:   "launch_dei_initiative",
		Priority: triggers.PriorityMedium,
		Reason:   "Diversity and inclusion gaps in culture assessment",
		Extract: []DataFilter{
			{Key: "gaps", Source: FieldWeaknesses, Group: "dei"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "dei"},
		},
	},

	triggers.TypeLearningCultureWeak: {
		Type:     triggers.TypeLearningCultureWeak,
		Category: analysis.CategoryCulture,
		Groups: []SignalGroup{
			{Name: "learning_culture", Patterns: []string{"learning culture", "knowledge sharing", "training participation"}},
		},
		Action:   "launch_learning_initiative",
		Priority: triggers.PriorityLow,
		Reason:   "Weak learning culture signals in culture assessment",
		Extract: []DataFilter{
			{Key: "weaknesses", Source: FieldWeaknesses, Group: "learning_culture"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "learning_culture"},
		},
	},

	// ---- hiring ----

	triggers.TypeHiringNeedsUrgent: {
		Type:     triggers.TypeHiringNeedsUrgent,
		Category: analysis.CategoryHiring,
		Groups: []SignalGroup{
			{Name: "urgent_vacancies", Patterns: []string{"urgent hire", "critical vacancy", "unfilled", "headcount gap"}},
		},
		Action:   "open_job_requisition",
		Priority: triggers.PriorityHigh,
		Reason:   "Urgent hiring needs detected in hiring assessment",
		Extract: []DataFilter{
			{Key: "vacancies", Source: FieldWeaknesses, Group: "urgent_vacancies"},
			{Key: "risks", Source: FieldRisks, Group: "urgent_vacancies"},
			{Key: "recommendations", Source: FieldRecommendations, Group: "urgent_vacancies"},
		},
	},

	triggers.TypeCandidateApplied: {
		Type:     triggers.TypeCandidateApplied,
		Category: analysis.CategoryHiring,
		Groups: []SignalGroup{
			{Name: "pipeline", Patterns: []string{"candidate", "applicant", "pipeline"}},
		},
		Action:   "advance_candidate_pipeline",
		Priority: triggers.PriorityMedium,
		Reason:   "Candidate pipeline activity in hiring assessment",
		Extract: []DataFilter{
			{Key: "pipeline_signals", Source: FieldRecommendations, Group: "pipeline"},
		},
	},

	triggers.TypeWorkforcePlanReviewDue: {
		Type:     triggers.TypeWorkforcePlanReviewDue,
		Category: analysis.CategoryHiring,
		Groups: []SignalGroup{
			{Name: "workforce_plan", Patterns: []string{"workforce plan", "capacity", "demand forecast"}},
		},
		Action:      "refresh_workforce_plan",
		Priority:    triggers.PriorityLow,
		Reason:      "Workforce plan review signals in hiring assessment",
		ConfigHints: []string{"horizonMonths"},
		Extract: []DataFilter{
			{Key: "recommendations", Source: FieldRecommendations, Group: "workforce_plan"},
		},
		Defaults: map[string]any{"horizonMonths": 12},
	},

	// ---- cross-category ----

	// Compliance has no category sub-result; scan the flat
	// recommendation list filtered by category instead.
	triggers.TypeComplianceTrainingDue: {
		Type:         triggers.TypeComplianceTrainingDue,
		FlatCategory: analysis.CategoryCompliance,
		Groups: []SignalGroup{
			{Name: "compliance_training", Patterns: []string{"compliance training", "mandatory training", "regulatory", "policy refresh"}, Sources: []Field{FieldRecommendations}},
		},
		Action:      "assign_compliance_training",
		Priority:    triggers.PriorityHigh,
		Reason:      "Compliance training recommended by assessment",
		ConfigHints: []string{"reminderDays"},
		Extract: []DataFilter{
			{Key: "requirements", Source: FieldRecommendations, Group: "compliance_training"},
		},
		Defaults: map[string]any{"reminderDays": []int{30, 14, 7, 1}},
	},
}
