package briefing

import (
	"strings"
	"testing"
	"time"

	"github.com/careloop/coach/internal/onboarding"
)

func TestAssembleNeverEmpty(t *testing.T) {
	modes := []onboarding.CallMode{
		onboarding.ModeOnboarding,
		onboarding.ModeContinuation,
		onboarding.ModeFollowup,
		onboarding.CallMode("unknown"),
	}
	for _, mode := range modes {
		if got := Assemble(mode, &onboarding.Progress{}, onboarding.Aux{}); got == "" {
			t.Errorf("Assemble(%s) returned empty text", mode)
		}
	}
}

func TestOnboardingBriefingIsStatic(t *testing.T) {
	a := Assemble(onboarding.ModeOnboarding, nil, onboarding.Aux{})
	b := Assemble(onboarding.ModeOnboarding, &onboarding.Progress{UserID: "x"}, onboarding.Aux{})
	if a != b {
		t.Error("first-contact briefing should not depend on the record")
	}
	if !strings.Contains(a, "first conversation") {
		t.Errorf("unexpected first-contact briefing: %q", a)
	}
}

func TestContinuationBriefingSections(t *testing.T) {
	p := &onboarding.Progress{
		ConcernsCollected: true,
		PrimaryConcern:    "glucose spikes after lunch",
		GoalsSet:          true,
		PrimaryGoal:       "lower a1c",
		GoalTimeline:      "3 months",
	}

	got := Assemble(onboarding.ModeContinuation, p, onboarding.Aux{})

	if !strings.Contains(got, "## What we already know") {
		t.Error("missing known-info section")
	}
	if !strings.Contains(got, "## What's still missing") {
		t.Error("missing missing-info section")
	}
	if !strings.Contains(got, "glucose spikes after lunch") {
		t.Error("primary concern not rendered")
	}
	if !strings.Contains(got, "lower a1c") {
		t.Error("primary goal not rendered")
	}
	// Eating not collected: the missing list should coach toward it.
	if !strings.Contains(got, "eating patterns") {
		t.Error("missing eating prompt in gaps")
	}
	// Concerns are collected, so the concerns prompt must not appear.
	if strings.Contains(got, "what's worrying them") {
		t.Error("collected concerns listed as missing")
	}
}

func TestContinuationBriefingCompleteRecord(t *testing.T) {
	p := &onboarding.Progress{
		ConcernsCollected:       true,
		GoalsSet:                true,
		EatingHabitsCollected:   true,
		ExerciseHabitsCollected: true,
		SleepHabitsCollected:    true,
		StressHabitsCollected:   true,
		TodosCreated:            true,
	}
	got := Assemble(onboarding.ModeContinuation, p, onboarding.Aux{})
	if !strings.Contains(got, "All key information has been collected!") {
		t.Errorf("complete record should render positive fallback, got %q", got)
	}
}

func TestFollowupBriefing(t *testing.T) {
	aux := onboarding.Aux{
		Profile: onboarding.ProfileBundle{
			Name:       "Alex",
			HealthGoal: "steady glucose",
		},
		RecentSummaries: []onboarding.RecentSummary{
			{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Summary: "Talked about meal timing."},
		},
		ActiveTodos: []onboarding.ActionItem{
			{Title: "Walk after dinner", TargetCount: 5, CurrentCount: 2, Status: "active"},
			{Title: "Log breakfast", TargetCount: 7, CurrentCount: 7, Status: "completed"},
		},
	}

	got := Assemble(onboarding.ModeFollowup, &onboarding.Progress{}, aux)

	if !strings.Contains(got, "follow-up conversation with Alex") {
		t.Error("missing personalized intro")
	}
	if !strings.Contains(got, "Talked about meal timing.") {
		t.Error("recent summary not rendered")
	}
	if !strings.Contains(got, "- [ ] Walk after dinner (2/5)") {
		t.Error("active todo not rendered as open checkbox")
	}
	if !strings.Contains(got, "- [x] Log breakfast (completed)") {
		t.Error("completed todo not rendered as checked")
	}
}

func TestFollowupBriefingEmptyAux(t *testing.T) {
	got := Assemble(onboarding.ModeFollowup, &onboarding.Progress{}, onboarding.Aux{})
	if !strings.Contains(got, "No recent conversations yet.") {
		t.Error("missing empty-summaries fallback")
	}
	if !strings.Contains(got, "No active action items yet.") {
		t.Error("missing empty-todos fallback")
	}
}

func TestRecentSummariesCapped(t *testing.T) {
	var summaries []onboarding.RecentSummary
	for i := 0; i < 5; i++ {
		summaries = append(summaries, onboarding.RecentSummary{Summary: "s"})
	}
	got := recentSummaries(summaries)
	if n := strings.Count(got, "**"); n != maxRecentSummaries*2 {
		t.Errorf("rendered %d summaries, want %d", n/2, maxRecentSummaries)
	}
}
