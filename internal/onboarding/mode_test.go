package onboarding

import (
	"reflect"
	"testing"
)

func TestSelectModeBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  CallMode
	}{
		{0, ModeOnboarding},
		{49, ModeOnboarding},
		{50, ModeContinuation},
		{79, ModeContinuation},
		{80, ModeFollowup},
		{100, ModeFollowup},
	}
	for _, tt := range tests {
		got := SelectMode(&Progress{CompletionScore: tt.score})
		if got != tt.want {
			t.Errorf("SelectMode(score=%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSelectModeNilRecord(t *testing.T) {
	if got := SelectMode(nil); got != ModeOnboarding {
		t.Errorf("SelectMode(nil) = %s, want %s", got, ModeOnboarding)
	}
}

func TestMissingAreasDefaults(t *testing.T) {
	want := []string{AreaConcerns, AreaGoals, AreaEating, AreaTodos}
	if got := MissingAreas(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingAreas(nil) = %v, want %v", got, want)
	}
}

func TestMissingAreasTracksFlags(t *testing.T) {
	p := &Progress{
		ConcernsCollected:     true,
		GoalsSet:              true,
		EatingHabitsCollected: true,
		TodosCreated:          true,
	}
	want := []string{AreaExercise, AreaSleep, AreaStress}
	if got := MissingAreas(p); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingAreas() = %v, want %v", got, want)
	}

	p.ExerciseHabitsCollected = true
	p.SleepHabitsCollected = true
	p.StressHabitsCollected = true
	if got := MissingAreas(p); len(got) != 0 {
		t.Errorf("complete record still missing %v", got)
	}
}
