package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/careloop/coach/internal/logging"
)

// casAttempts bounds the merge-and-write retry loop on version conflicts.
const casAttempts = 3

// ProfileBundle is the read-only profile slice callers supply for
// followup briefings.
type ProfileBundle struct {
	Name                string `json:"name"`
	Age                 int    `json:"age,omitempty"`
	HealthGoal          string `json:"health_goal,omitempty"`
	Conditions          string `json:"conditions,omitempty"`
	DeviceType          string `json:"device_type,omitempty"`
	LongTermPreferences string `json:"long_term_preferences,omitempty"`
}

// RecentSummary is one prior conversation's digest.
type RecentSummary struct {
	Date    time.Time `json:"date"`
	Summary string    `json:"summary"`
}

// ActionItem is an outstanding todo rendered into followup briefings.
type ActionItem struct {
	Title        string `json:"title"`
	TargetCount  int    `json:"target_count"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
}

// Aux bundles the external data the caller must fetch before asking for
// call context. The engine performs no I/O to populate it.
type Aux struct {
	Profile         ProfileBundle
	RecentSummaries []RecentSummary
	ActiveTodos     []ActionItem
}

// CallContextResult is produced fresh on every context request.
type CallContextResult struct {
	Mode            CallMode `json:"mode"`
	ContextText     string   `json:"context_text"`
	CompletionScore int      `json:"completion_score"`
}

// AssembleFunc renders the mode-specific briefing. Implemented by the
// briefing package; injected to keep this package free of templates.
type AssembleFunc func(mode CallMode, p *Progress, aux Aux) string

// Engine ties extraction, scoring, mode selection and persistence together.
type Engine struct {
	store    *Store
	assemble AssembleFunc
}

// NewEngine creates the engine over a progress store and an assembler.
func NewEngine(store *Store, assemble AssembleFunc) *Engine {
	return &Engine{store: store, assemble: assemble}
}

// ProcessConversationSignals folds one conversation's summary into the
// user's progress record. Returns whether anything was written and the
// score afterwards.
//
// The write is a bounded compare-and-swap loop: the patch is re-merged
// against the latest snapshot on every attempt, so a concurrent writer's
// flags are never lost.
func (e *Engine) ProcessConversationSignals(ctx context.Context, userID string, summary ConversationSummary) (bool, int, error) {
	latest, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	patch := buildSignalPatch(summary)
	if patch.IsEmpty() {
		return false, latest.CompletionScore, nil
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		merged := patch.Merge(*latest)
		score := CompletionScore(merged)
		patch.CompletionScore = intPtr(score)

		now := time.Now()
		if score >= CompletedThreshold {
			patch.Stage = stagePtr(StageCompleted)
			patch.CompletedAt = timePtr(now)
			if latest.StartedAt.IsZero() {
				patch.StartedAt = timePtr(now)
			}
		} else if score > 0 {
			patch.Stage = stagePtr(StageInProgress)
			patch.StartedAt = timePtr(now)
		}

		err = e.store.Update(ctx, userID, patch, latest.Version)
		if err == nil {
			logging.Infof("onboarding: %s updated, score=%d stage=%s", userID, score, merged.Stage)
			return true, score, nil
		}
		if !errors.Is(err, ErrConflict) {
			return false, 0, err
		}

		latest, err = e.store.Get(ctx, userID)
		if err != nil {
			return false, 0, err
		}
		if latest == nil {
			return false, 0, errors.New("onboarding: progress record vanished during update")
		}
	}

	return false, 0, ErrConflict
}

// GetCallContext picks the mode for the next conversation and renders its
// briefing. Creates the zero-value record for first contact.
func (e *Engine) GetCallContext(ctx context.Context, userID string, aux Aux) (*CallContextResult, error) {
	p, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	mode := SelectMode(p)
	logging.Debugf("onboarding: %s call mode %s (score %d)", userID, mode, p.CompletionScore)

	return &CallContextResult{
		Mode:            mode,
		ContextText:     e.assemble(mode, p, aux),
		CompletionScore: p.CompletionScore,
	}, nil
}

// Progress returns the current record without creating one.
func (e *Engine) Progress(ctx context.Context, userID string) (*Progress, error) {
	return e.store.Get(ctx, userID)
}

// buildSignalPatch converts one conversation's extraction output into a
// sparse patch. Flags are only ever patched to true; detail fields are
// captured opportunistically when the summarizer produced them.
func buildSignalPatch(summary ConversationSummary) *Patch {
	sig := Extract(summary)
	data := summary.ExtractedData
	patch := &Patch{}

	if sig.Concerns {
		patch.ConcernsCollected = boolPtr(true)
		if len(data.Concerns) > 0 && data.Concerns[0] != "" {
			patch.PrimaryConcern = strPtr(data.Concerns[0])
		}
	}
	if sig.Goals {
		patch.GoalsSet = boolPtr(true)
		if data.PrimaryGoal != "" {
			patch.PrimaryGoal = strPtr(data.PrimaryGoal)
		}
		if data.GoalTimeline != "" {
			patch.GoalTimeline = strPtr(data.GoalTimeline)
		}
	}
	if data.Motivation != "" {
		patch.Motivation = strPtr(data.Motivation)
	}
	if sig.Eating {
		patch.EatingHabitsCollected = boolPtr(true)
	}
	if sig.Exercise {
		patch.ExerciseHabitsCollected = boolPtr(true)
	}
	if sig.Sleep {
		patch.SleepHabitsCollected = boolPtr(true)
	}
	if sig.Stress {
		patch.StressHabitsCollected = boolPtr(true)
	}

	if len(summary.Todos) >= 1 {
		patch.TodosCreated = boolPtr(true)
		patch.InitialTodosCount = intPtr(len(summary.Todos))
	}

	if len(data.DiscussedTiming) > 0 {
		if blob, err := json.Marshal(data.DiscussedTiming); err == nil {
			patch.BaselineMetrics = strPtr(string(blob))
		}
	}

	return patch
}
