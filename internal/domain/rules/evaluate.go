package rules

import (
	"strings"

	"github.com/bryanwahyu/talenta-triggers/internal/domain/analysis"
	"github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

// Evaluate runs one rule-table entry against one analysis result. Pure
// and synchronous: same inputs always produce a structurally identical
// result. Returns nil when the trigger does not fire (missing category,
// no signal hit, threshold not met), never an error.
func Evaluate(rule Rule, trigger *triggers.Trigger, res *analysis.Result) *triggers.TriggerResult {
	src, score, ok := resolveSources(rule, res)
	if !ok {
		return nil
	}

	hits := make(map[string]bool, len(rule.Groups))
	for _, g := range rule.Groups {
		hits[g.Name] = groupHit(g, src, score, trigger.Config)
	}

	if !fired(rule, hits, score, trigger.Config) {
		return nil
	}

	data := map[string]any{
		"trigger_type": string(rule.Type),
	}
	if rule.FlatCategory != "" {
		data["category"] = string(rule.FlatCategory)
	} else {
		data["category"] = string(rule.Category)
		data["score"] = score
	}
	if matched := matchedGroups(rule, hits); len(matched) > 0 {
		data["matched_groups"] = matched
	}
	for _, f := range rule.Extract {
		g, ok := rule.group(f.Group)
		if !ok {
			continue
		}
		data[f.Key] = filterMatches(src[f.Source], g.Patterns)
	}
	for _, key := range rule.ConfigHints {
		if v, ok := configValue(trigger.Config, key); ok {
			data[key] = v
		}
	}

	return &triggers.TriggerResult{
		TriggerID: trigger.ID,
		Type:      rule.Type,
		Reason:    rule.Reason,
		Action:    rule.Action,
		Priority:  rule.Priority,
		Data:      data,
		Executed:  rule.Terminal,
	}
}

// resolveSources builds the field -> text list view the groups scan.
// ok=false kalau kategori tidak ada di analysis result.
func resolveSources(rule Rule, res *analysis.Result) (map[Field][]string, float64, bool) {
	if rule.FlatCategory != "" {
		return map[Field][]string{
			FieldRecommendations: res.RecommendationTitles(rule.FlatCategory),
		}, 0, true
	}
	cr, ok := res.Category(rule.Category)
	if !ok {
		return nil, 0, false
	}
	return map[Field][]string{
		FieldStrengths:       cr.Strengths,
		FieldWeaknesses:      cr.Weaknesses,
		FieldRisks:           cr.Risks,
		FieldGaps:            cr.Gaps,
		FieldRecommendations: cr.Recommendations,
	}, cr.Score, true
}

func groupHit(g SignalGroup, src map[Field][]string, score float64, config map[string]any) bool {
	if g.Score != nil && compare(score, configFloat(config, g.Score.ConfigKey, g.Score.Default), g.Score.Op) {
		return true
	}
	for _, field := range g.sources() {
		for _, line := range src[field] {
			if matchAny(line, g.Patterns) {
				return true
			}
		}
	}
	return false
}

func fired(rule Rule, hits map[string]bool, score float64, config map[string]any) bool {
	groupPred := false
	if len(rule.Require) > 0 {
		groupPred = true
		for _, name := range rule.Require {
			if !hits[name] {
				groupPred = false
				break
			}
		}
	} else {
		for _, g := range rule.Groups {
			if hits[g.Name] {
				groupPred = true
				break
			}
		}
	}

	if rule.Threshold == nil {
		return groupPred
	}
	scorePred := compare(score, configFloat(config, rule.Threshold.ConfigKey, rule.Threshold.Default), rule.Threshold.Op)
	if len(rule.Groups) == 0 {
		return scorePred
	}
	if rule.ThresholdJoin == "or" {
		return groupPred || scorePred
	}
	return groupPred && scorePred
}

func compare(score, threshold float64, op string) bool {
	if op == "<=" {
		return score <= threshold
	}
	return score >= threshold
}

func matchAny(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// filterMatches keeps lines matching any pattern; always returns a
// non-nil slice so the payload serializes as [] instead of null.
func filterMatches(lines, patterns []string) []string {
	out := []string{}
	for _, line := range lines {
		if matchAny(line, patterns) {
			out = append(out, line)
		}
	}
	return out
}

func matchedGroups(rule Rule, hits map[string]bool) []string {
	var out []string
	for _, g := range rule.Groups {
		if hits[g.Name] {
			out = append(out, g.Name)
		}
	}
	return out
}
