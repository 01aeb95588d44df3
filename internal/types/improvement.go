package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

type KeyChange struct {
	Change string `json:"change"`
	Reason string `json:"reason"`
}

// Improvement is the structured rewrite of a transcribed speech.
type Improvement struct {
	ImprovedSpeech string      `json:"improved_speech"`
	Suggestions    []string    `json:"suggestions"`
	KeyChanges     []KeyChange `json:"key_changes"`
	Summary        string      `json:"summary"`
}

var ErrInvalidImprovement = errors.New("improvement does not match the expected schema")

func ParseImprovement(raw string) (*Improvement, error) {
	var imp Improvement
	if err := json.Unmarshal([]byte(raw), &imp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImprovement, err)
	}
	if imp.ImprovedSpeech == "" {
		return nil, fmt.Errorf("%w: improved_speech is empty", ErrInvalidImprovement)
	}
	return &imp, nil
}

// ImprovementResult is what the clone-and-improve workflow returns.
// Transient, never persisted.
type ImprovementResult struct {
	Transcription string      `json:"original_transcription"`
	Improvement   Improvement `json:"improved_content"`
	Audio         []byte      `json:"-"`
}
