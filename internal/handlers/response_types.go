package handlers

import "encoding/json"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// StartConversationRequest carries the feedback JSON a new session is
// grounded in.
type StartConversationRequest struct {
	Feedback json.RawMessage `json:"feedback" binding:"required"`
}

type StartConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

type SendMessageResponse struct {
	Reply string `json:"reply"`
}

type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}

// DetailedImprovementResponse is the JSON variant of the
// clone-and-improve workflow result.
type DetailedImprovementResponse struct {
	OriginalTranscription string      `json:"original_transcription"`
	ImprovedContent       interface{} `json:"improved_content"`
	AudioBase64           string      `json:"audio_base64"`
	AudioSize             int         `json:"audio_size"`
}
