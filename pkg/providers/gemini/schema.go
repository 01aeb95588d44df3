package gemini

import "github.com/google/generative-ai-go/genai"

// feedbackSchema mirrors types.Feedback as a response schema so the
// model is constrained to the four-section layout at generation time.
func feedbackSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"non_verbal": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"eye_contact": assessmentSchema(),
					"gestures":    assessmentSchema(),
					"posture":     assessmentSchema(),
				},
				Required: []string{"eye_contact", "gestures", "posture"},
			},
			"delivery": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"clarity_enunciation":    assessmentSchema(),
					"intonation":             assessmentSchema(),
					"eloquence_filler_words": assessmentSchema(),
					"filler_word_counts": {
						Type:        genai.TypeObject,
						Description: "Map of filler word to how often it occurred",
					},
				},
				Required: []string{"clarity_enunciation", "intonation", "eloquence_filler_words"},
			},
			"content": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"organization_flow":     assessmentSchema(),
					"persuasiveness_impact": assessmentSchema(),
					"clarity_of_message":    assessmentSchema(),
				},
				Required: []string{"organization_flow", "persuasiveness_impact", "clarity_of_message"},
			},
			"overall_feedback": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"summary":   {Type: genai.TypeString},
					"strengths": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"areas_to_improve": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
					"prioritized_actions": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
					"effectiveness_score": {Type: genai.TypeNumber},
				},
				Required: []string{"summary", "strengths", "areas_to_improve", "prioritized_actions", "effectiveness_score"},
			},
		},
		Required: []string{"non_verbal", "delivery", "content", "overall_feedback"},
	}
}

func assessmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {Type: genai.TypeNumber},
			"observations": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"timestamped_feedback": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"timestamp": {Type: genai.TypeString},
						"note":      {Type: genai.TypeString},
					},
					Required: []string{"timestamp", "note"},
				},
			},
		},
		Required: []string{"score", "observations"},
	}
}
