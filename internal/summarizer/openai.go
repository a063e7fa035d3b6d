package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/careloop/coach/internal/onboarding"
)

const summarizeSystemPrompt = `You are a health-coaching conversation analyst. You read transcripts and produce structured summaries for a coaching memory system. Always respond in English.`

const summarizePrompt = `Analyze the following health-coaching conversation and return a JSON object with:

1. "summary_text": a 2-4 sentence summary of what was discussed.
2. "extracted_data": an object with any of these optional fields when the
   conversation clearly supports them:
   - "concerns": list of health concerns the user voiced
   - "mentioned_foods": foods the user said they eat
   - "mentioned_activities": physical activities the user mentioned
   - "discussed_timing": object mapping meal names to times discussed
   - "user_mood": "positive", "neutral" or "negative"
   - "primary_goal": the user's stated goal, verbatim where possible
   - "goal_timeline": any timeframe attached to the goal
   - "motivation": why the goal matters to the user, in their words
3. "todos": action items with clear consensus, each with "title",
   "category" (diet, exercise, sleep, stress, medication, other),
   "health_benefit", "time_of_day" ("HH:MM-HH:MM" or "All day"),
   "time_description", and "target_count" (times per week).

Only include fields the conversation actually supports. Return {"todos": []}
for todos when nothing was agreed.

Conversation with %s:
%s

Respond ONLY with valid JSON, no other text.`

// OpenAI implements Summarizer with the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed summarizer.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Summarize sends the transcript for analysis and parses the JSON reply.
func (o *OpenAI) Summarize(ctx context.Context, userName string, transcript []Turn) (onboarding.ConversationSummary, error) {
	var empty onboarding.ConversationSummary
	if len(transcript) == 0 {
		return empty, nil
	}
	if userName == "" {
		userName = "the user"
	}

	prompt := fmt.Sprintf(summarizePrompt, userName, formatTranscript(transcript))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarizeSystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return empty, fmt.Errorf("summarize conversation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return empty, fmt.Errorf("summarize conversation: empty response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Trim any prose around the JSON object.
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var summary onboarding.ConversationSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return empty, fmt.Errorf("parse summary response: %w", err)
	}
	return summary, nil
}

func formatTranscript(transcript []Turn) string {
	var b strings.Builder
	for _, turn := range transcript {
		if turn.Content == "" {
			continue
		}
		role := turn.Role
		if role == "" {
			role = "unknown"
		}
		fmt.Fprintf(&b, "[%s]: %s\n", role, turn.Content)
	}
	return b.String()
}
