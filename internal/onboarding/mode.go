package onboarding

// CallMode decides which context bundle the next conversation gets.
type CallMode string

const (
	ModeOnboarding   CallMode = "onboarding"
	ModeContinuation CallMode = "onboarding_continuation"
	ModeFollowup     CallMode = "followup"
)

// Mode thresholds. No hysteresis: the mode is a pure function of the
// current score, so it can flip on every call near a boundary.
const (
	followupThreshold     = 80
	continuationThreshold = 50
)

// SelectMode picks the call mode from the current record. A nil record is
// the expected new-user path, not an error.
func SelectMode(p *Progress) CallMode {
	if p == nil {
		return ModeOnboarding
	}
	switch {
	case p.CompletionScore >= followupThreshold:
		return ModeFollowup
	case p.CompletionScore >= continuationThreshold:
		return ModeContinuation
	default:
		return ModeOnboarding
	}
}

// Area names, in rendering order.
const (
	AreaConcerns = "concerns"
	AreaGoals    = "goals"
	AreaEating   = "eating_habits"
	AreaExercise = "exercise_habits"
	AreaSleep    = "sleep_habits"
	AreaStress   = "stress_habits"
	AreaTodos    = "todos"
)

// MissingAreas lists every phase whose flag is still false. A nil record
// returns the default first-contact set.
func MissingAreas(p *Progress) []string {
	if p == nil {
		return []string{AreaConcerns, AreaGoals, AreaEating, AreaTodos}
	}
	var missing []string
	if !p.ConcernsCollected {
		missing = append(missing, AreaConcerns)
	}
	if !p.GoalsSet {
		missing = append(missing, AreaGoals)
	}
	if !p.EatingHabitsCollected {
		missing = append(missing, AreaEating)
	}
	if !p.ExerciseHabitsCollected {
		missing = append(missing, AreaExercise)
	}
	if !p.SleepHabitsCollected {
		missing = append(missing, AreaSleep)
	}
	if !p.StressHabitsCollected {
		missing = append(missing, AreaStress)
	}
	if !p.TodosCreated {
		missing = append(missing, AreaTodos)
	}
	return missing
}
