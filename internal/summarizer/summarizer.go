// Package summarizer turns raw conversation transcripts into the summary
// object the onboarding engine consumes. The engine itself never calls a
// model; it only sees the produced ConversationSummary.
package summarizer

import (
	"context"

	"github.com/careloop/coach/internal/onboarding"
)

// Turn is one transcript entry.
type Turn struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// Summarizer produces a conversation summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, userName string, transcript []Turn) (onboarding.ConversationSummary, error)
}
