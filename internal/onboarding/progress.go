package onboarding

import "time"

// Stage is the coarse onboarding lifecycle stage.
// It is derived from the completion score and only moves forward.
type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageInProgress Stage = "in_progress"
	StageCompleted  Stage = "completed"
)

// CompletedThreshold is the score at which onboarding counts as done.
const CompletedThreshold = 80

// Engagement stages are maintained by the engagement classifier, not by
// this engine. The progress store treats the column as read-only.
const (
	EngagementNewUser  = "new_user"
	EngagementActive   = "active"
	EngagementAtRisk   = "at_risk"
	EngagementInactive = "inactive"
)

// Progress is the per-user onboarding record.
// Phase flags are one-way: this engine only ever flips them false→true.
type Progress struct {
	UserID          string `json:"user_id"`
	Stage           Stage  `json:"stage"`
	CompletionScore int    `json:"completion_score"`

	// Phase 1: concerns
	ConcernsCollected bool   `json:"concerns_collected"`
	PrimaryConcern    string `json:"primary_concern,omitempty"`
	ConcernDuration   string `json:"concern_duration,omitempty"`
	MainWorry         string `json:"main_worry,omitempty"`

	// Phase 2: goals
	GoalsSet        bool   `json:"goals_set"`
	PrimaryGoal     string `json:"primary_goal,omitempty"`
	GoalTimeline    string `json:"goal_timeline,omitempty"`
	Motivation      string `json:"motivation,omitempty"`
	BaselineMetrics string `json:"baseline_metrics,omitempty"` // JSON blob

	// Phase 3: lifestyle
	EatingHabitsCollected   bool `json:"eating_habits_collected"`
	ExerciseHabitsCollected bool `json:"exercise_habits_collected"`
	SleepHabitsCollected    bool `json:"sleep_habits_collected"`
	StressHabitsCollected   bool `json:"stress_habits_collected"`

	// Phase 4: action plan
	TodosCreated      bool `json:"todos_created"`
	InitialTodosCount int  `json:"initial_todos_count"`

	EngagementStage string `json:"engagement_stage"`

	StartedAt     time.Time `json:"started_at,omitempty"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
	LastUpdatedAt time.Time `json:"last_updated_at"`

	// Version increments on every write; the store uses it for
	// compare-and-swap updates.
	Version int64 `json:"-"`
}

// LifestyleCount returns how many of the four lifestyle areas are collected.
func (p *Progress) LifestyleCount() int {
	n := 0
	for _, b := range []bool{
		p.EatingHabitsCollected,
		p.ExerciseHabitsCollected,
		p.SleepHabitsCollected,
		p.StressHabitsCollected,
	} {
		if b {
			n++
		}
	}
	return n
}

// Patch is a sparse update: nil fields are left untouched by the store.
// Boolean fields may only be patched to true; the store rejects nothing
// but Merge ORs them so an accidental false can never clear a flag.
type Patch struct {
	Stage           *Stage
	CompletionScore *int

	ConcernsCollected *bool
	PrimaryConcern    *string
	ConcernDuration   *string
	MainWorry         *string

	GoalsSet        *bool
	PrimaryGoal     *string
	GoalTimeline    *string
	Motivation      *string
	BaselineMetrics *string

	EatingHabitsCollected   *bool
	ExerciseHabitsCollected *bool
	SleepHabitsCollected    *bool
	StressHabitsCollected   *bool

	TodosCreated      *bool
	InitialTodosCount *int

	StartedAt   *time.Time
	CompletedAt *time.Time
}

// IsEmpty reports whether the patch would change nothing.
func (p *Patch) IsEmpty() bool {
	return p.Stage == nil && p.CompletionScore == nil &&
		p.ConcernsCollected == nil && p.PrimaryConcern == nil &&
		p.ConcernDuration == nil && p.MainWorry == nil &&
		p.GoalsSet == nil && p.PrimaryGoal == nil &&
		p.GoalTimeline == nil && p.Motivation == nil &&
		p.BaselineMetrics == nil &&
		p.EatingHabitsCollected == nil && p.ExerciseHabitsCollected == nil &&
		p.SleepHabitsCollected == nil && p.StressHabitsCollected == nil &&
		p.TodosCreated == nil && p.InitialTodosCount == nil &&
		p.StartedAt == nil && p.CompletedAt == nil
}

// Merge applies the patch to a copy of prog and returns it.
// Flags merge monotonically: true wins, a false patch never clears.
func (p *Patch) Merge(prog Progress) Progress {
	if p.Stage != nil {
		prog.Stage = *p.Stage
	}
	if p.CompletionScore != nil {
		prog.CompletionScore = *p.CompletionScore
	}
	if p.ConcernsCollected != nil {
		prog.ConcernsCollected = prog.ConcernsCollected || *p.ConcernsCollected
	}
	if p.PrimaryConcern != nil {
		prog.PrimaryConcern = *p.PrimaryConcern
	}
	if p.ConcernDuration != nil {
		prog.ConcernDuration = *p.ConcernDuration
	}
	if p.MainWorry != nil {
		prog.MainWorry = *p.MainWorry
	}
	if p.GoalsSet != nil {
		prog.GoalsSet = prog.GoalsSet || *p.GoalsSet
	}
	if p.PrimaryGoal != nil {
		prog.PrimaryGoal = *p.PrimaryGoal
	}
	if p.GoalTimeline != nil {
		prog.GoalTimeline = *p.GoalTimeline
	}
	if p.Motivation != nil {
		prog.Motivation = *p.Motivation
	}
	if p.BaselineMetrics != nil {
		prog.BaselineMetrics = *p.BaselineMetrics
	}
	if p.EatingHabitsCollected != nil {
		prog.EatingHabitsCollected = prog.EatingHabitsCollected || *p.EatingHabitsCollected
	}
	if p.ExerciseHabitsCollected != nil {
		prog.ExerciseHabitsCollected = prog.ExerciseHabitsCollected || *p.ExerciseHabitsCollected
	}
	if p.SleepHabitsCollected != nil {
		prog.SleepHabitsCollected = prog.SleepHabitsCollected || *p.SleepHabitsCollected
	}
	if p.StressHabitsCollected != nil {
		prog.StressHabitsCollected = prog.StressHabitsCollected || *p.StressHabitsCollected
	}
	if p.TodosCreated != nil {
		prog.TodosCreated = prog.TodosCreated || *p.TodosCreated
	}
	if p.InitialTodosCount != nil {
		prog.InitialTodosCount = *p.InitialTodosCount
	}
	if p.StartedAt != nil && prog.StartedAt.IsZero() {
		prog.StartedAt = *p.StartedAt
	}
	if p.CompletedAt != nil && prog.CompletedAt.IsZero() {
		prog.CompletedAt = *p.CompletedAt
	}
	return prog
}

// small pointer helpers used when building patches

func boolPtr(b bool) *bool          { return &b }
func intPtr(i int) *int             { return &i }
func strPtr(s string) *string       { return &s }
func stagePtr(s Stage) *Stage       { return &s }
func timePtr(t time.Time) *time.Time { return &t }
