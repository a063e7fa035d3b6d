package summarizer

import (
	"strings"
	"testing"
)

func TestFormatTranscript(t *testing.T) {
	got := formatTranscript([]Turn{
		{Role: "assistant", Content: "How did the week go?"},
		{Role: "user", Content: "Pretty well, walked most evenings."},
		{Role: "user", Content: ""}, // empty turns are dropped
		{Content: "mystery line"},
	})

	want := "[assistant]: How did the week go?\n" +
		"[user]: Pretty well, walked most evenings.\n" +
		"[unknown]: mystery line\n"
	if got != want {
		t.Errorf("formatTranscript() = %q, want %q", got, want)
	}
}

func TestSummarizePromptMentionsAllFields(t *testing.T) {
	// The prompt is the contract with the model; keep the field names in
	// sync with ExtractedData's JSON tags.
	for _, field := range []string{
		"summary_text", "extracted_data", "concerns", "mentioned_foods",
		"mentioned_activities", "discussed_timing", "user_mood",
		"primary_goal", "goal_timeline", "motivation", "todos",
		"target_count",
	} {
		if !strings.Contains(summarizePrompt, field) {
			t.Errorf("summarize prompt missing field %q", field)
		}
	}
}
