// Package conversations stores per-user conversation summaries. Followup
// briefings read the recent digest from here.
package conversations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/coach/internal/onboarding"
)

// Record is one summarized conversation.
type Record struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	Channel       string                   `json:"channel"`
	Summary       string                   `json:"summary"`
	ExtractedData *onboarding.ExtractedData `json:"extracted_data,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// Store persists conversation records.
type Store struct {
	db *sql.DB
}

// NewStore creates a conversation store over the shared connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts a summarized conversation and returns its ID.
func (s *Store) Add(ctx context.Context, userID, channel string, summary onboarding.ConversationSummary) (string, error) {
	id := uuid.New().String()

	var extracted sql.NullString
	if blob, err := json.Marshal(summary.ExtractedData); err == nil && string(blob) != "{}" {
		extracted = sql.NullString{String: string(blob), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, channel, summary, extracted_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, channel, summary.SummaryText, extracted, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("add conversation for %s: %w", userID, err)
	}
	return id, nil
}

// RecentSummaries returns the newest summaries within the window, newest
// first, capped at limit.
func (s *Store) RecentSummaries(ctx context.Context, userID string, days, limit int) ([]onboarding.RecentSummary, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	rows, err := s.db.QueryContext(ctx,
		`SELECT summary, created_at FROM conversations
		 WHERE user_id = ? AND created_at >= ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("recent summaries for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []onboarding.RecentSummary
	for rows.Next() {
		var summary string
		var createdAt int64
		if err := rows.Scan(&summary, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, onboarding.RecentSummary{
			Date:    time.Unix(createdAt, 0),
			Summary: summary,
		})
	}
	return out, rows.Err()
}

// ListForUser returns all conversations for a user, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, channel, summary, extracted_data, created_at
		 FROM conversations WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var extracted sql.NullString
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.UserID, &r.Channel, &r.Summary, &extracted, &createdAt); err != nil {
			return nil, err
		}
		if extracted.Valid && extracted.String != "" {
			var data onboarding.ExtractedData
			if err := json.Unmarshal([]byte(extracted.String), &data); err == nil {
				r.ExtractedData = &data
			}
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
