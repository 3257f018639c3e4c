// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package risk scores contract text with clause-keyword heuristics. The
// score is a coarse triage signal for the dashboard and the amendment
// prompt, not a legal judgement.
package risk

import (
	"strings"

	"github.com/pdiddy/regulaai/pkg/types"
)

// Report holds the heuristic score and the findings behind it.
type Report struct {
	// Score is the accumulated risk score, capped at 100.
	Score int `json:"score" yaml:"score"`

	// Reasons lists one finding per rule that fired.
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// Level buckets the score: below 40 is low, below 60 medium, the rest high.
func (r Report) Level() types.RiskLevel {
	switch {
	case r.Score < 40:
		return types.RiskLow
	case r.Score < 60:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

// HighRisk reports whether the contract crosses the dashboard's
// attention threshold.
func (r Report) HighRisk() bool {
	return r.Score > 50
}

// rule is one keyword heuristic: fires when any trigger substring is
// present and none of the suppressors are.
type rule struct {
	triggers    []string
	suppressors []string
	weight      int
	reason      string
}

var rules = []rule{
	{
		triggers: []string{"termination"},
		weight:   20,
		reason:   "Termination clause detected",
	},
	{
		triggers: []string{"liability"},
		weight:   25,
		reason:   "Liability clause detected",
	},
	{
		triggers: []string{"indemn"},
		weight:   20,
		reason:   "Indemnification clause detected",
	},
	{
		triggers:    []string{"personal data", "privacy", "data protection"},
		suppressors: []string{"gdpr"},
		weight:      15,
		reason:      "Personal data handling without GDPR reference",
	},
	{
		triggers: []string{"unlimited", "indefinite"},
		weight:   20,
		reason:   "Unlimited or indefinite obligation detected",
	},
}

// Score runs every rule over the text (case-insensitive) and returns the
// accumulated report. The score never exceeds 100.
func Score(text string) Report {
	t := strings.ToLower(text)

	var rep Report
	for _, r := range rules {
		if !containsAny(t, r.triggers) {
			continue
		}
		if containsAny(t, r.suppressors) {
			continue
		}
		rep.Score += r.weight
		rep.Reasons = append(rep.Reasons, r.reason)
	}

	if rep.Score > 100 {
		rep.Score = 100
	}
	return rep
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
