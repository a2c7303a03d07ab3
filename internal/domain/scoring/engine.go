// Package scoring classifies a completed intake draft into a quality tier.
//
// Rules are evaluated in order and the first match wins:
//
//	hot:         in service area, budget >= $5,000 band, timeline urgent or 1-3 months
//	qualified:   in service area, budget >= $2,000 band, timeline 1-3, 3-6 or 6-12 months
//	unqualified: everything else
//
// Unrecognized option strings never match a band, so they fall through to
// unqualified.
package scoring

import "intakeflow/internal/domain"

var (
	hotBudgets = []domain.Budget{
		domain.Budget5kTo10k, domain.Budget10kTo20k, domain.BudgetOver20k,
	}
	hotTimelines = []domain.Timeline{
		domain.TimelineUrgent, domain.Timeline1To3Months,
	}
	qualifiedBudgets = []domain.Budget{
		domain.Budget2kTo5k, domain.Budget5kTo10k, domain.Budget10kTo20k, domain.BudgetOver20k,
	}
	qualifiedTimelines = []domain.Timeline{
		domain.Timeline1To3Months, domain.Timeline3To6Months, domain.Timeline6To12Months,
	}
)

// Options toggles rules that are not part of the default rule set.
type Options struct {
	// EnforceMinBudget scores a draft unqualified when its budget band starts
	// below the firm's MinBudget or has no known lower bound.
	EnforceMinBudget bool
}

// Trace records which rule inputs matched.
type Trace struct {
	InServiceArea     bool        `json:"in_service_area"`
	HotBudget         bool        `json:"hot_budget"`
	HotTimeline       bool        `json:"hot_timeline"`
	QualifiedBudget   bool        `json:"qualified_budget"`
	QualifiedTimeline bool        `json:"qualified_timeline"`
	BelowMinBudget    bool        `json:"below_min_budget"`
	Tier              domain.Tier `json:"tier"`
}

// Score returns the tier for d under cfg.
func Score(d domain.IntakeDraft, cfg domain.FirmConfig, opts Options) domain.Tier {
	return Explain(d, cfg, opts).Tier
}

// Explain evaluates every rule input and returns the trace with the tier.
func Explain(d domain.IntakeDraft, cfg domain.FirmConfig, opts Options) Trace {
	budget := domain.ParseBudget(d.Budget)
	timeline := domain.ParseTimeline(d.Timeline)

	t := Trace{
		InServiceArea:     inServiceArea(d.State, cfg),
		HotBudget:         contains(hotBudgets, budget),
		HotTimeline:       contains(hotTimelines, timeline),
		QualifiedBudget:   contains(qualifiedBudgets, budget),
		QualifiedTimeline: contains(qualifiedTimelines, timeline),
	}
	if opts.EnforceMinBudget {
		t.BelowMinBudget = belowMinBudget(budget, cfg.MinBudget)
	}

	switch {
	case t.BelowMinBudget:
		t.Tier = domain.TierUnqualified
	case t.InServiceArea && t.HotBudget && t.HotTimeline:
		t.Tier = domain.TierHot
	case t.InServiceArea && t.QualifiedBudget && t.QualifiedTimeline:
		t.Tier = domain.TierQualified
	default:
		t.Tier = domain.TierUnqualified
	}
	return t
}

func inServiceArea(state string, cfg domain.FirmConfig) bool {
	if !domain.IsKnown(domain.ParseState(state)) {
		return false
	}
	return cfg.ServiceStates.Contains(state)
}

func belowMinBudget(b domain.Budget, min int) bool {
	lower, ok := b.LowerBound()
	if !ok {
		return true
	}
	return lower < min
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
