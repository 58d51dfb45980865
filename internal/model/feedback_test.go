package model

import (
	"encoding/json"
	"testing"
)

func TestWeakTopicUnmarshalBothForms(t *testing.T) {
	var fb Feedback
	raw := `{
		"overallFeedback": "ok",
		"weakTopics": ["fractions", {"topic": "algebra", "score": 0.25}]
	}`
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		t.Fatal(err)
	}

	if len(fb.WeakTopics) != 2 {
		t.Fatalf("len(WeakTopics) = %d", len(fb.WeakTopics))
	}
	if fb.WeakTopics[0].Topic != "fractions" {
		t.Errorf("WeakTopics[0] = %+v", fb.WeakTopics[0])
	}
	if fb.WeakTopics[1].Topic != "algebra" || fb.WeakTopics[1].Score == nil {
		t.Errorf("WeakTopics[1] = %+v", fb.WeakTopics[1])
	}
}

func TestFallbackFeedbackShape(t *testing.T) {
	fb := FallbackFeedback()

	raw, err := json.Marshal(fb)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["overallFeedback"] != FeedbackUnavailable {
		t.Errorf("overallFeedback = %v", decoded["overallFeedback"])
	}
	for _, key := range []string{"detailedFeedback", "weakTopics", "recommendations"} {
		if _, ok := decoded[key].([]any); !ok {
			t.Errorf("%s should serialize as an array, got %T", key, decoded[key])
		}
	}
}
