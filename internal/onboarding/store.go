package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConflict is returned when a compare-and-swap update loses the race
// on every attempt. Callers may retry the whole read-merge-write cycle.
var ErrConflict = errors.New("onboarding: progress record modified concurrently")

// Store persists Progress records. It expects the onboarding_progress
// table from migrations to exist.
type Store struct {
	db *sql.DB
}

// NewStore creates a progress store over a shared database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const progressColumns = `user_id, onboarding_stage, completion_score,
	concerns_collected, primary_concern, concern_duration, main_worry,
	goals_set, primary_goal, goal_timeline, motivation, baseline_metrics,
	eating_habits_collected, exercise_habits_collected, sleep_habits_collected, stress_habits_collected,
	todos_created, initial_todos_count, engagement_stage,
	started_at, completed_at, last_updated_at, version`

// Get returns the record for a user, or (nil, nil) when none exists.
func (s *Store) Get(ctx context.Context, userID string) (*Progress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM onboarding_progress WHERE user_id = ?`, userID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress for %s: %w", userID, err)
	}
	return p, nil
}

// GetOrCreate returns the existing record or inserts a zero-value one.
// Safe under concurrent first contact: a duplicate insert hits the UNIQUE
// constraint and is resolved by re-reading.
func (s *Store) GetOrCreate(ctx context.Context, userID string) (*Progress, error) {
	p, err := s.Get(ctx, userID)
	if err != nil || p != nil {
		return p, err
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO onboarding_progress
			(user_id, onboarding_stage, completion_score, engagement_stage, last_updated_at, version)
		 VALUES (?, ?, 0, ?, ?, 0)`,
		userID, StageNotStarted, EngagementNewUser, now)
	if err != nil {
		return nil, fmt.Errorf("create progress for %s: %w", userID, err)
	}

	p, err = s.Get(ctx, userID)
	if err == nil && p == nil {
		return nil, fmt.Errorf("create progress for %s: record missing after insert", userID)
	}
	return p, err
}

// Update applies a sparse patch to the user's record. Only fields present
// in the patch are written; last_updated_at is always stamped and version
// incremented.
//
// When expectedVersion >= 0 the write is a compare-and-swap: it succeeds
// only if the row still carries that version, otherwise sql.ErrNoRows is
// reported via ErrConflict. Pass -1 to write unconditionally.
func (s *Store) Update(ctx context.Context, userID string, patch *Patch, expectedVersion int64) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Stage != nil {
		add("onboarding_stage", string(*patch.Stage))
	}
	if patch.CompletionScore != nil {
		add("completion_score", clampScore(*patch.CompletionScore))
	}
	if patch.ConcernsCollected != nil {
		add("concerns_collected", boolToInt(*patch.ConcernsCollected))
	}
	if patch.PrimaryConcern != nil {
		add("primary_concern", *patch.PrimaryConcern)
	}
	if patch.ConcernDuration != nil {
		add("concern_duration", *patch.ConcernDuration)
	}
	if patch.MainWorry != nil {
		add("main_worry", *patch.MainWorry)
	}
	if patch.GoalsSet != nil {
		add("goals_set", boolToInt(*patch.GoalsSet))
	}
	if patch.PrimaryGoal != nil {
		add("primary_goal", *patch.PrimaryGoal)
	}
	if patch.GoalTimeline != nil {
		add("goal_timeline", *patch.GoalTimeline)
	}
	if patch.Motivation != nil {
		add("motivation", *patch.Motivation)
	}
	if patch.BaselineMetrics != nil {
		add("baseline_metrics", *patch.BaselineMetrics)
	}
	if patch.EatingHabitsCollected != nil {
		add("eating_habits_collected", boolToInt(*patch.EatingHabitsCollected))
	}
	if patch.ExerciseHabitsCollected != nil {
		add("exercise_habits_collected", boolToInt(*patch.ExerciseHabitsCollected))
	}
	if patch.SleepHabitsCollected != nil {
		add("sleep_habits_collected", boolToInt(*patch.SleepHabitsCollected))
	}
	if patch.StressHabitsCollected != nil {
		add("stress_habits_collected", boolToInt(*patch.StressHabitsCollected))
	}
	if patch.TodosCreated != nil {
		add("todos_created", boolToInt(*patch.TodosCreated))
	}
	if patch.InitialTodosCount != nil {
		add("initial_todos_count", *patch.InitialTodosCount)
	}
	if patch.StartedAt != nil {
		// set-once: COALESCE keeps an existing timestamp
		sets = append(sets, "started_at = COALESCE(started_at, ?)")
		args = append(args, patch.StartedAt.Unix())
	}
	if patch.CompletedAt != nil {
		sets = append(sets, "completed_at = COALESCE(completed_at, ?)")
		args = append(args, patch.CompletedAt.Unix())
	}

	add("last_updated_at", time.Now().Unix())
	sets = append(sets, "version = version + 1")

	query := "UPDATE onboarding_progress SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	args = append(args, userID)
	if expectedVersion >= 0 {
		query += " AND version = ?"
		args = append(args, expectedVersion)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update progress for %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update progress for %s: %w", userID, err)
	}
	if n == 0 {
		if expectedVersion >= 0 {
			return ErrConflict
		}
		return fmt.Errorf("update progress for %s: no such record", userID)
	}
	return nil
}

// ListByStage returns every record in the given onboarding stage.
func (s *Store) ListByStage(ctx context.Context, stage Stage) ([]Progress, error) {
	return s.list(ctx, `SELECT `+progressColumns+` FROM onboarding_progress WHERE onboarding_stage = ?`, string(stage))
}

// ListByEngagementStage returns every record in the given engagement stage.
func (s *Store) ListByEngagementStage(ctx context.Context, stage string) ([]Progress, error) {
	return s.list(ctx, `SELECT `+progressColumns+` FROM onboarding_progress WHERE engagement_stage = ?`, stage)
}

// SetEngagementStage is used by the engagement classifier only; the
// onboarding engine never calls it.
func (s *Store) SetEngagementStage(ctx context.Context, userID, stage string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE onboarding_progress SET engagement_stage = ? WHERE user_id = ?`, stage, userID)
	if err != nil {
		return fmt.Errorf("set engagement stage for %s: %w", userID, err)
	}
	return nil
}

func (s *Store) list(ctx context.Context, query string, arg any) ([]Progress, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*Progress, error) {
	var p Progress
	var stage string
	var concerns, goals, eating, exercise, sleep, stress, todos int
	var primaryConcern, concernDuration, mainWorry sql.NullString
	var primaryGoal, goalTimeline, motivation, baselineMetrics sql.NullString
	var engagement sql.NullString
	var startedAt, completedAt sql.NullInt64
	var lastUpdatedAt int64

	err := row.Scan(
		&p.UserID, &stage, &p.CompletionScore,
		&concerns, &primaryConcern, &concernDuration, &mainWorry,
		&goals, &primaryGoal, &goalTimeline, &motivation, &baselineMetrics,
		&eating, &exercise, &sleep, &stress,
		&todos, &p.InitialTodosCount, &engagement,
		&startedAt, &completedAt, &lastUpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}

	p.Stage = Stage(stage)
	p.ConcernsCollected = concerns != 0
	p.GoalsSet = goals != 0
	p.EatingHabitsCollected = eating != 0
	p.ExerciseHabitsCollected = exercise != 0
	p.SleepHabitsCollected = sleep != 0
	p.StressHabitsCollected = stress != 0
	p.TodosCreated = todos != 0
	p.PrimaryConcern = primaryConcern.String
	p.ConcernDuration = concernDuration.String
	p.MainWorry = mainWorry.String
	p.PrimaryGoal = primaryGoal.String
	p.GoalTimeline = goalTimeline.String
	p.Motivation = motivation.String
	p.BaselineMetrics = baselineMetrics.String
	p.EngagementStage = engagement.String
	if startedAt.Valid {
		p.StartedAt = time.Unix(startedAt.Int64, 0)
	}
	if completedAt.Valid {
		p.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	p.LastUpdatedAt = time.Unix(lastUpdatedAt, 0)

	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
