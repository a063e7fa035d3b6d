package onboarding

import "strings"

// ConversationSummary is the output of the external summarization step.
// Fields inside ExtractedData are loosely typed and all optional.
type ConversationSummary struct {
	SummaryText   string        `json:"summary_text"`
	ExtractedData ExtractedData `json:"extracted_data"`
	// Todos extracted for this turn; feeds todos_created / initial_todos_count.
	Todos []ExtractedTodo `json:"todos,omitempty"`
}

// ExtractedData is the structured bag the summarizer fills opportunistically.
type ExtractedData struct {
	Concerns            []string          `json:"concerns,omitempty"`
	MentionedFoods      []string          `json:"mentioned_foods,omitempty"`
	MentionedActivities []string          `json:"mentioned_activities,omitempty"`
	DiscussedTiming     map[string]string `json:"discussed_timing,omitempty"`
	UserMood            string            `json:"user_mood,omitempty"`
	PrimaryGoal         string            `json:"primary_goal,omitempty"`
	GoalTimeline        string            `json:"goal_timeline,omitempty"`
	Motivation          string            `json:"motivation,omitempty"`
}

// ExtractedTodo is an action item proposed by the summarizer.
type ExtractedTodo struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category"`
	HealthBenefit   string `json:"health_benefit,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty"`
	TimeDescription string `json:"time_description,omitempty"`
	TargetCount     int    `json:"target_count"`
}

// Signals says, per information category, whether the conversation
// meaningfully discussed it.
type Signals struct {
	Concerns bool
	Goals    bool
	Eating   bool
	Exercise bool
	Sleep    bool
	Stress   bool
}

// Any reports whether at least one category fired.
func (s Signals) Any() bool {
	return s.Concerns || s.Goals || s.Eating || s.Exercise || s.Sleep || s.Stress
}

// KeywordRule matches a category against a lowercase summary.
// MinMatches guards against a single incidental mention counting as a
// real discussion.
type KeywordRule struct {
	Keywords   []string
	MinMatches int
}

// Matches counts distinct keyword hits in the (already lowercased) text.
func (r KeywordRule) Matches(text string) bool {
	if text == "" {
		return false
	}
	n := 0
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			n++
			if n >= r.MinMatches {
				return true
			}
		}
	}
	return false
}

// KeywordRules is the heuristic rule table, keyed by category. Exported as
// data so thresholds and vocabularies can be tuned and tested without
// touching the extractor.
var KeywordRules = map[string]KeywordRule{
	"concerns": {
		Keywords: []string{
			"concern", "worried", "worry", "anxious", "issue", "problem", "symptom",
			"high glucose", "low glucose", "glucose spike", "glucose fluctuation",
			"blood sugar high", "blood sugar low",
		},
		MinMatches: 2,
	},
	"goals": {
		Keywords: []string{
			"goal", "want", "hope", "plan", "improve", "target", "aim",
			"lower glucose", "stabilize glucose", "control glucose",
		},
		MinMatches: 2,
	},
	"eating": {
		Keywords: []string{
			"breakfast", "lunch", "dinner", "snack", "meal", "eat", "food", "diet", "carb",
		},
		MinMatches: 2,
	},
	"exercise": {
		Keywords: []string{
			"exercise", "workout", "activity", "walk", "run", "gym", "physical", "swim",
		},
		MinMatches: 2,
	},
	"sleep": {
		Keywords: []string{
			"sleep", "bedtime", "wake", "insomnia", "rest", "nap",
		},
		MinMatches: 2,
	},
	"stress": {
		Keywords: []string{
			"stress", "anxiety", "tension", "relax", "mood", "mental", "overwhelmed",
		},
		MinMatches: 2,
	},
}

// Extract decides which information categories the conversation covered.
// Structured fields are authoritative; the keyword table is the fallback.
// It never fails: an empty or malformed summary yields all-false signals.
func Extract(summary ConversationSummary) Signals {
	text := strings.ToLower(summary.SummaryText)
	data := summary.ExtractedData

	var sig Signals

	sig.Concerns = len(data.Concerns) > 0 || KeywordRules["concerns"].Matches(text)
	sig.Goals = data.PrimaryGoal != "" || KeywordRules["goals"].Matches(text)

	// Eating: two mentioned foods or one discussed meal time count as a
	// real discussion even without keyword density.
	sig.Eating = len(data.MentionedFoods) >= 2 ||
		len(data.DiscussedTiming) >= 1 ||
		KeywordRules["eating"].Matches(text)

	sig.Exercise = len(data.MentionedActivities) >= 1 ||
		KeywordRules["exercise"].Matches(text)

	sig.Sleep = KeywordRules["sleep"].Matches(text)
	sig.Stress = KeywordRules["stress"].Matches(text)

	return sig
}
