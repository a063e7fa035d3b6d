// Package briefing renders the natural-language context bundle handed to
// the conversational agent before a call starts. It formats data the
// caller already fetched; it performs no I/O.
package briefing

import (
	"fmt"
	"strings"

	"github.com/careloop/coach/internal/onboarding"
)

// onboardingContext is the static first-contact briefing. Nothing is known
// about the user yet, so there is nothing to personalize.
const onboardingContext = `This is your first conversation with this user.

Your goals for this call:
1. Make them feel welcome and understood.
2. Learn their main health concerns and what worries them most.
3. Understand what they want to achieve and why it matters to them.
4. Get a first picture of their daily routine: meals, movement, sleep, stress.
5. If it feels natural, agree on one small action to start with.

Keep it conversational. Do not interrogate; let the information surface
through genuine interest.`

// Assemble renders the briefing for the selected mode. It never fails and
// never returns empty text; unknown modes fall back to the first-contact
// briefing.
func Assemble(mode onboarding.CallMode, p *onboarding.Progress, aux onboarding.Aux) string {
	switch mode {
	case onboarding.ModeContinuation:
		return continuationContext(p)
	case onboarding.ModeFollowup:
		return followupContext(p, aux)
	default:
		return onboardingContext
	}
}

// continuationContext renders "what we already know" and "what's still
// missing". The selector should not route a fully complete user here, but
// the renderer tolerates it with a positive fallback.
func continuationContext(p *onboarding.Progress) string {
	var b strings.Builder
	b.WriteString("We've talked with this user before but their onboarding isn't complete.\n\n")
	b.WriteString("## What we already know\n\n")
	b.WriteString(knownInfo(p))
	b.WriteString("\n## What's still missing\n\n")
	b.WriteString(missingInfo(p))
	b.WriteString("\n\nPick up naturally from what you know and fill the gaps without making it feel like a checklist.")
	return b.String()
}

func knownInfo(p *onboarding.Progress) string {
	if p == nil {
		return "Nothing collected yet.\n"
	}
	var b strings.Builder

	if p.ConcernsCollected {
		b.WriteString("**Concerns:**\n")
		if p.PrimaryConcern != "" {
			fmt.Fprintf(&b, "- Primary concern: %s\n", p.PrimaryConcern)
		}
		if p.ConcernDuration != "" {
			fmt.Fprintf(&b, "- Duration: %s\n", p.ConcernDuration)
		}
		if p.MainWorry != "" {
			fmt.Fprintf(&b, "- Main worry: %s\n", p.MainWorry)
		}
		b.WriteString("\n")
	}

	if p.GoalsSet {
		b.WriteString("**Goals:**\n")
		if p.PrimaryGoal != "" {
			fmt.Fprintf(&b, "- Primary goal: %s\n", p.PrimaryGoal)
		}
		if p.GoalTimeline != "" {
			fmt.Fprintf(&b, "- Timeline: %s\n", p.GoalTimeline)
		}
		if p.Motivation != "" {
			fmt.Fprintf(&b, "- Motivation: %s\n", p.Motivation)
		}
		b.WriteString("\n")
	}

	var lifestyle []string
	if p.EatingHabitsCollected {
		lifestyle = append(lifestyle, "eating habits")
	}
	if p.ExerciseHabitsCollected {
		lifestyle = append(lifestyle, "exercise habits")
	}
	if p.SleepHabitsCollected {
		lifestyle = append(lifestyle, "sleep habits")
	}
	if p.StressHabitsCollected {
		lifestyle = append(lifestyle, "stress levels")
	}
	if len(lifestyle) > 0 {
		b.WriteString("**Lifestyle:**\n")
		fmt.Fprintf(&b, "- Collected: %s\n\n", strings.Join(lifestyle, ", "))
	}

	if p.TodosCreated {
		b.WriteString("**Action plan:**\n")
		fmt.Fprintf(&b, "- Created %d initial action item(s)\n\n", p.InitialTodosCount)
	}

	if b.Len() == 0 {
		return "Nothing collected yet.\n"
	}
	return b.String()
}

// missingPrompts phrases each missing area as a concrete thing to learn,
// not a bare category name.
var missingPrompts = map[string]string{
	onboarding.AreaConcerns: "Their main health concerns and what's worrying them",
	onboarding.AreaGoals:    "What they want to achieve and their timeline",
	onboarding.AreaEating:   "Their typical eating patterns (breakfast, lunch, dinner)",
	onboarding.AreaExercise: "Their physical activity level",
	onboarding.AreaSleep:    "Their sleep schedule and quality",
	onboarding.AreaStress:   "Their stress levels and sources",
	onboarding.AreaTodos:    "At least one actionable step to get started",
}

func missingInfo(p *onboarding.Progress) string {
	areas := onboarding.MissingAreas(p)
	if len(areas) == 0 {
		return "All key information has been collected!"
	}
	var b strings.Builder
	b.WriteString("We're still missing:\n")
	for _, area := range areas {
		if prompt, ok := missingPrompts[area]; ok {
			fmt.Fprintf(&b, "- %s\n", prompt)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// followupContext renders the profile summary, the recent conversation
// digest and the outstanding action-item checklist.
func followupContext(p *onboarding.Progress, aux onboarding.Aux) string {
	var b strings.Builder
	name := aux.Profile.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "This is a follow-up conversation with %s. Onboarding is complete; focus on coaching and accountability.\n\n", name)

	b.WriteString("## Profile\n\n")
	b.WriteString(profileSummary(p, aux.Profile))

	b.WriteString("\n## Recent conversations\n\n")
	b.WriteString(recentSummaries(aux.RecentSummaries))

	b.WriteString("\n## Current action items\n\n")
	b.WriteString(todoChecklist(aux.ActiveTodos))

	return b.String()
}

func profileSummary(p *onboarding.Progress, profile onboarding.ProfileBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Name:** %s\n", orFallback(profile.Name, "unknown"))
	if profile.Age > 0 {
		fmt.Fprintf(&b, "**Age:** %d\n", profile.Age)
	}
	if profile.HealthGoal != "" {
		fmt.Fprintf(&b, "**Health goal:** %s\n", profile.HealthGoal)
	}
	if profile.Conditions != "" {
		fmt.Fprintf(&b, "**Conditions:** %s\n", profile.Conditions)
	}
	if profile.DeviceType != "" {
		fmt.Fprintf(&b, "**Device:** %s\n", profile.DeviceType)
	}
	if profile.LongTermPreferences != "" {
		fmt.Fprintf(&b, "**Preferences:** %s\n", profile.LongTermPreferences)
	}
	if p != nil && p.PrimaryGoal != "" && profile.HealthGoal == "" {
		fmt.Fprintf(&b, "**Stated goal:** %s\n", p.PrimaryGoal)
	}
	return b.String()
}

// maxRecentSummaries bounds the digest to the most recent conversations.
const maxRecentSummaries = 3

func recentSummaries(summaries []onboarding.RecentSummary) string {
	if len(summaries) == 0 {
		return "No recent conversations yet.\n"
	}
	if len(summaries) > maxRecentSummaries {
		summaries = summaries[:maxRecentSummaries]
	}
	var b strings.Builder
	for _, s := range summaries {
		label := "Recently"
		if !s.Date.IsZero() {
			label = s.Date.Format("Jan 2")
		}
		fmt.Fprintf(&b, "**%s:** %s\n\n", label, s.Summary)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func todoChecklist(todos []onboarding.ActionItem) string {
	if len(todos) == 0 {
		return "No active action items yet.\n"
	}
	var b strings.Builder
	for _, t := range todos {
		if t.Status == "completed" {
			fmt.Fprintf(&b, "- [x] %s (completed)\n", t.Title)
			continue
		}
		fmt.Fprintf(&b, "- [ ] %s (%d/%d)\n", t.Title, t.CurrentCount, t.TargetCount)
	}
	return b.String()
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
