// Package todos stores action items agreed during conversations.
package todos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/coach/internal/onboarding"
)

// Statuses a todo moves through. Completed items drop out of active lists
// but stay visible in briefing checklists for positive reinforcement.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Todo is one action item.
type Todo struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	HealthBenefit   string    `json:"health_benefit,omitempty"`
	TimeOfDay       string    `json:"time_of_day,omitempty"`
	TimeDescription string    `json:"time_description,omitempty"`
	TargetCount     int       `json:"target_count"`
	CurrentCount    int       `json:"current_count"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store persists todos.
type Store struct {
	db *sql.DB
}

// NewStore creates a todo store over the shared connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateFromExtraction inserts todos proposed by the summarizer for one
// conversation turn. Returns how many were created.
func (s *Store) CreateFromExtraction(ctx context.Context, userID string, items []onboarding.ExtractedTodo) (int, error) {
	created := 0
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		target := item.TargetCount
		if target < 1 {
			target = 1
		}
		now := time.Now().Unix()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO todos (id, user_id, title, description, category, health_benefit,
				time_of_day, time_description, target_count, current_count, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
			uuid.New().String(), userID, item.Title, item.Description,
			orDefault(item.Category, "other"), item.HealthBenefit,
			item.TimeOfDay, item.TimeDescription, target, StatusPending, now, now)
		if err != nil {
			return created, fmt.Errorf("create todo for %s: %w", userID, err)
		}
		created++
	}
	return created, nil
}

// ActiveForUser returns non-completed todos, oldest first, as briefing
// action items.
func (s *Store) ActiveForUser(ctx context.Context, userID string) ([]onboarding.ActionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, target_count, current_count, status FROM todos
		 WHERE user_id = ? AND status != ?
		 ORDER BY created_at ASC`,
		userID, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("active todos for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []onboarding.ActionItem
	for rows.Next() {
		var item onboarding.ActionItem
		if err := rows.Scan(&item.Title, &item.TargetCount, &item.CurrentCount, &item.Status); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListForUser returns all todos for a user, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, category, health_benefit,
			time_of_day, time_description, target_count, current_count, status, created_at, updated_at
		 FROM todos WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list todos for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		var t Todo
		var desc, benefit, timeOfDay, timeDesc sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Category, &benefit,
			&timeOfDay, &timeDesc, &t.TargetCount, &t.CurrentCount, &t.Status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.Description = desc.String
		t.HealthBenefit = benefit.String
		t.TimeOfDay = timeOfDay.String
		t.TimeDescription = timeDesc.String
		t.CreatedAt = time.Unix(createdAt, 0)
		t.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, t)
	}
	return out, rows.Err()
}

// CheckIn increments a todo's progress counter and completes it when the
// target is reached.
func (s *Store) CheckIn(ctx context.Context, todoID string) (*Todo, error) {
	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET
			current_count = current_count + 1,
			status = CASE WHEN current_count + 1 >= target_count THEN ? ELSE ? END,
			updated_at = ?
		 WHERE id = ? AND status != ?`,
		StatusCompleted, StatusActive, now, todoID, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("check in todo %s: %w", todoID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return s.get(ctx, todoID)
}

func (s *Store) get(ctx context.Context, todoID string) (*Todo, error) {
	var t Todo
	var desc, benefit, timeOfDay, timeDesc sql.NullString
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, category, health_benefit,
			time_of_day, time_description, target_count, current_count, status, created_at, updated_at
		 FROM todos WHERE id = ?`, todoID).
		Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Category, &benefit,
			&timeOfDay, &timeDesc, &t.TargetCount, &t.CurrentCount, &t.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.HealthBenefit = benefit.String
	t.TimeOfDay = timeOfDay.String
	t.TimeDescription = timeDesc.String
	t.CreatedAt = time.Unix(createdAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)
	return &t, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
