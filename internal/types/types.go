// Package types holds the HTTP API request and response shapes.
package types

import (
	"github.com/careloop/coach/internal/conversations"
	"github.com/careloop/coach/internal/onboarding"
	"github.com/careloop/coach/internal/summarizer"
	"github.com/careloop/coach/internal/todos"
)

// ProcessSignalsRequest carries a pre-summarized conversation for signal
// processing.
type ProcessSignalsRequest struct {
	Summary onboarding.ConversationSummary `json:"summary"`
	Channel string                         `json:"channel,omitempty"`
}

// ProcessSignalsResponse reports the outcome of one signal-processing turn.
type ProcessSignalsResponse struct {
	Updated  bool `json:"updated"`
	NewScore int  `json:"new_score"`
}

// IngestConversationRequest carries a raw transcript. The server
// summarizes it and then processes signals.
type IngestConversationRequest struct {
	UserName   string            `json:"user_name,omitempty"`
	Channel    string            `json:"channel,omitempty"`
	Transcript []summarizer.Turn `json:"transcript"`
}

// IngestConversationResponse returns the stored summary plus the signal
// outcome.
type IngestConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Summary        string `json:"summary"`
	TodosCreated   int    `json:"todos_created"`
	Updated        bool   `json:"updated"`
	NewScore       int    `json:"new_score"`
}

// CallContextRequest supplies optional profile fields for context assembly.
type CallContextRequest struct {
	Profile onboarding.ProfileBundle `json:"profile"`
}

// CallContextResponse is the context bundle for the next conversation.
type CallContextResponse struct {
	Mode            onboarding.CallMode `json:"mode"`
	ContextText     string              `json:"context_text"`
	CompletionScore int                 `json:"completion_score"`
}

// ProgressResponse wraps the persisted progress record.
type ProgressResponse struct {
	Progress     *onboarding.Progress `json:"progress"`
	MissingAreas []string             `json:"missing_areas"`
}

// ListTodosResponse wraps a user's todos.
type ListTodosResponse struct {
	Todos []todos.Todo `json:"todos"`
}

// TodoResponse wraps one todo.
type TodoResponse struct {
	Todo *todos.Todo `json:"todo"`
}

// ListConversationsResponse wraps stored conversation records.
type ListConversationsResponse struct {
	Conversations []conversations.Record `json:"conversations"`
}
