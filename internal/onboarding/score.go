package onboarding

import "encoding/json"

// CompletionScore maps a progress record to 0–100.
//
// Buckets:
//   - Core understanding (40): concerns 10 + detail 10, goals 10 + detail 10/5
//   - Actionable insights (40): ≥1 lifestyle area 20, ≥1 todo 20
//   - Depth (20): ≥2 lifestyle areas +5, ≥3 +5, motivation text 10
//
// Detail fields matter on purpose: "an answer was given" scores less than
// "the answer was substantive".
func CompletionScore(p Progress) int {
	score := 0

	if p.ConcernsCollected {
		score += 10
		if p.ConcernDuration != "" || p.MainWorry != "" {
			score += 10
		}
	}

	if p.GoalsSet {
		score += 10
		hasTimeline := p.GoalTimeline != ""
		hasMetrics := hasJSONData(p.BaselineMetrics)
		switch {
		case hasTimeline && hasMetrics:
			score += 10
		case hasTimeline || hasMetrics:
			score += 5
		}
	}

	lifestyle := p.LifestyleCount()
	if lifestyle >= 1 {
		score += 20
	}

	if p.TodosCreated && p.InitialTodosCount >= 1 {
		score += 20
	}

	if lifestyle >= 2 {
		score += 5
	}
	if lifestyle >= 3 {
		score += 5
	}

	if p.Motivation != "" {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// hasJSONData reports whether s is a non-empty JSON value ({}, [], "" and
// null all count as empty).
func hasJSONData(s string) bool {
	if s == "" || s == "null" {
		return false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}
