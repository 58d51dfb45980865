package model

import (
	"encoding/json"
)

// FeedbackUnavailable is the sentinel overallFeedback value persisted when
// generation fails, so polling clients terminate instead of waiting forever.
const FeedbackUnavailable = "feedback unavailable"

// Feedback is the AI-generated analysis attached to a completed attempt.
// Field names follow the JSON contract the text-generation service is
// prompted to produce.
type Feedback struct {
	OverallFeedback  string             `json:"overallFeedback"`
	DetailedFeedback []DetailedFeedback `json:"detailedFeedback"`
	WeakTopics       []WeakTopic        `json:"weakTopics"`
	Recommendations  []string           `json:"recommendations"`
}

// DetailedFeedback is per-question commentary.
type DetailedFeedback struct {
	Question string `json:"question"`
	Comment  string `json:"comment"`
}

// WeakTopic identifies a topic the user underperformed on. Language models
// sometimes emit these as bare strings instead of objects; UnmarshalJSON
// accepts both forms.
type WeakTopic struct {
	Topic string   `json:"topic"`
	Score *float64 `json:"score,omitempty"`
}

func (w *WeakTopic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		w.Topic = s
		w.Score = nil
		return nil
	}

	type weakTopic WeakTopic
	var obj weakTopic
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = WeakTopic(obj)
	return nil
}

// FallbackFeedback returns the sentinel object persisted when the feedback
// pipeline fails. Slices are non-nil so clients see empty arrays, not null.
func FallbackFeedback() *Feedback {
	return &Feedback{
		OverallFeedback:  FeedbackUnavailable,
		DetailedFeedback: []DetailedFeedback{},
		WeakTopics:       []WeakTopic{},
		Recommendations:  []string{},
	}
}
