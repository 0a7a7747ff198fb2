package rules

import (
	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// Field names one text list inside a CategoryResult
type Field string

const (
	FieldStrengths       Field = "strengths"
	FieldWeaknesses      Field = "weaknesses"
	FieldRisks           Field = "risks"
	FieldGaps            Field = "gaps"
	FieldRecommendations Field = "recommendations"
)

// defaultSources dipakai kalau SignalGroup.Sources kosong
var defaultSources = []Field{FieldWeaknesses, FieldRisks, FieldGaps, FieldRecommendations}

// ScoreGate is a numeric comparison against the category score,
// parameterized by trigger config with a documented default.
// Op is ">=" or "<=".
type ScoreGate struct {
	ConfigKey string
	Default   float64
	Op        string
}

// SignalGroup detects one concern area: case-insensitive substring
// patterns scanned over the selected source lists. When Score is set the
// group also hits on the numeric gate alone. The numeric comparison is
// the primary signal; percentage-string patterns are supplementary
// evidence (the upstream product matched literal "100%"/"105%" strings
// in recommendation titles and never compared its computed thresholds).
type SignalGroup struct {
	Name     string
	Patterns []string
	Sources  []Field
	Score    *ScoreGate
}

// DataFilter re-applies a signal group's patterns over one source list
// to build a named evidence sub-list in the result data payload. This is
// evidence collection for the human reading the result, not control flow.
type DataFilter struct {
	Key    string
	Source Field
	Group  string
}

// Rule is one declarative rule-table entry for a trigger type.
//
// Combination semantics:
//   - Require lists group names that must ALL hit; empty Require means
//     ANY group hit suffices.
//   - Threshold, when set, is joined with the group predicate by
//     ThresholdJoin ("and" default, "or"). A rule with no groups fires
//     on the threshold alone.
type Rule struct {
	Type     triggers.TriggerType
	Category analysis.Category
	// FlatCategory switches the rule to the flat cross-category
	// recommendation list, filtered by this category.
	FlatCategory  analysis.Category
	Groups        []SignalGroup
	Require       []string
	Threshold     *ScoreGate
	ThresholdJoin string
	// ConfigHints are schedule/routing config keys echoed into the data
	// payload for the downstream scheduler; nothing in an AnalysisResult
	// carries dates to evaluate them against.
	ConfigHints []string
	Action      string
	Priority    triggers.Priority
	Reason      string
	Extract     []DataFilter
	// Terminal marks evaluator-final actions: the result is complete
	// without any module call, so Executed is reported true.
	Terminal bool
	// Defaults is the documented default config used when the default
	// catalog is seeded for a new tenant.
	Defaults map[string]any
}

func (g SignalGroup) sources() []Field {
	if len(g.Sources) == 0 {
		return defaultSources
	}
	return g.Sources
}

func (r Rule) group(name string) (SignalGroup, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return SignalGroup{}, false
}
