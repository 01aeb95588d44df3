package prompts

import (
	"fmt"
	"strings"
)

// BuildImprovementPrompt asks for a structured rewrite of a
// transcribed speech. The reply is constrained to JSON by the model's
// response MIME type; the shape is spelled out here.
func BuildImprovementPrompt(transcription, focus string) string {
	var b strings.Builder
	b.WriteString(`You are a professional speech coach. Analyze and improve the following speech transcription.

Original Speech:
`)
	b.WriteString(transcription)
	b.WriteString("\n")
	if focus != "" {
		fmt.Fprintf(&b, "\nFocus areas: %s\n", focus)
	}
	b.WriteString(`
Please provide:
1. An improved version of the speech with better structure, clarity, and impact
2. Specific suggestions for improvement
3. Key changes made and why

Return your response as JSON with this exact structure:
{
    "improved_speech": "The improved version of the speech",
    "suggestions": ["Suggestion 1", "Suggestion 2"],
    "key_changes": [{"change": "Description of change", "reason": "Why this change improves the speech"}],
    "summary": "Brief summary of the improvements made"
}`)
	return b.String()
}
