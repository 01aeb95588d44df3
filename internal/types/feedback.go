package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TimestampedNote ties an observation to a range in the recording,
// e.g. "00:45-01:05".
type TimestampedNote struct {
	Timestamp string `json:"timestamp"`
	Note      string `json:"note"`
}

// Assessment is one evaluated aspect of the speech.
type Assessment struct {
	Score               float64           `json:"score"`
	Observations        []string          `json:"observations"`
	TimestampedFeedback []TimestampedNote `json:"timestamped_feedback,omitempty"`
}

type NonVerbal struct {
	EyeContact Assessment `json:"eye_contact"`
	Gestures   Assessment `json:"gestures"`
	Posture    Assessment `json:"posture"`
}

type Delivery struct {
	ClarityEnunciation   Assessment     `json:"clarity_enunciation"`
	Intonation           Assessment     `json:"intonation"`
	EloquenceFillerWords Assessment     `json:"eloquence_filler_words"`
	FillerWordCounts     map[string]int `json:"filler_word_counts"`
}

type Content struct {
	OrganizationFlow     Assessment `json:"organization_flow"`
	PersuasivenessImpact Assessment `json:"persuasiveness_impact"`
	ClarityOfMessage     Assessment `json:"clarity_of_message"`
}

type OverallFeedback struct {
	Summary            string   `json:"summary"`
	Strengths          []string `json:"strengths"`
	AreasToImprove     []string `json:"areas_to_improve"`
	PrioritizedActions []string `json:"prioritized_actions"`
	EffectivenessScore float64  `json:"effectiveness_score"`
}

// Feedback is the structured analysis result for one speech video.
// It is immutable once produced; a chat session stores it verbatim.
type Feedback struct {
	NonVerbal       NonVerbal       `json:"non_verbal"`
	Delivery        Delivery        `json:"delivery"`
	Content         Content         `json:"content"`
	OverallFeedback OverallFeedback `json:"overall_feedback"`
}

var ErrInvalidFeedback = errors.New("feedback does not match the expected schema")

// ParseFeedback strictly decodes a raw model reply. Anything that is
// not directly parseable as the schema is rejected, no text surgery.
func ParseFeedback(raw string) (*Feedback, error) {
	var fb Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	if err := fb.Validate(); err != nil {
		return nil, err
	}
	return &fb, nil
}

func (f *Feedback) Validate() error {
	assessments := map[string]Assessment{
		"non_verbal.eye_contact":          f.NonVerbal.EyeContact,
		"non_verbal.gestures":             f.NonVerbal.Gestures,
		"non_verbal.posture":              f.NonVerbal.Posture,
		"delivery.clarity_enunciation":    f.Delivery.ClarityEnunciation,
		"delivery.intonation":             f.Delivery.Intonation,
		"delivery.eloquence_filler_words": f.Delivery.EloquenceFillerWords,
		"content.organization_flow":       f.Content.OrganizationFlow,
		"content.persuasiveness_impact":   f.Content.PersuasivenessImpact,
		"content.clarity_of_message":      f.Content.ClarityOfMessage,
	}
	for name, a := range assessments {
		if len(a.Observations) == 0 {
			return fmt.Errorf("%w: %s has no observations", ErrInvalidFeedback, name)
		}
	}
	ov := f.OverallFeedback
	if ov.Summary == "" {
		return fmt.Errorf("%w: overall_feedback.summary is empty", ErrInvalidFeedback)
	}
	if len(ov.PrioritizedActions) == 0 {
		return fmt.Errorf("%w: overall_feedback.prioritized_actions is empty", ErrInvalidFeedback)
	}
	if ov.EffectivenessScore < 0 || ov.EffectivenessScore > 100 {
		return fmt.Errorf("%w: effectiveness_score %v out of range", ErrInvalidFeedback, ov.EffectivenessScore)
	}
	return nil
}
