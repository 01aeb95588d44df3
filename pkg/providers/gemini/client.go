package gemini

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Kapitar/aiatl-micdrop/internal/config"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
)

// Client wraps the Gemini SDK behind the narrow surface the domain
// services need: file storage plus three generation modes.
type Client struct {
	client *genai.Client
	cfg    config.GeminiConfig
}

func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &Client{client: client, cfg: cfg}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Upload pushes media into vendor file storage. The returned handle
// usually starts in the processing state.
func (c *Client) Upload(ctx context.Context, r io.Reader, mimeType string) (*types.RemoteFile, error) {
	f, err := c.client.UploadFile(ctx, "", r, &genai.UploadFileOptions{MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}
	return toRemoteFile(f), nil
}

// Status re-fetches the current processing state of an uploaded file.
func (c *Client) Status(ctx context.Context, name string) (*types.RemoteFile, error) {
	f, err := c.client.GetFile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("file status query failed: %w", err)
	}
	return toRemoteFile(f), nil
}

func (c *Client) Delete(ctx context.Context, name string) error {
	return c.client.DeleteFile(ctx, name)
}

// GenerateFeedback issues one structured-output generation call over
// the uploaded media, constrained to the feedback response schema.
func (c *Client) GenerateFeedback(ctx context.Context, prompt string, files []types.RemoteFile) (string, error) {
	ctx, cancel := generationContext(ctx, c.cfg.RequestTimeout())
	defer cancel()

	model := c.client.GenerativeModel(c.cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = feedbackSchema()
	model.SetTemperature(0.4)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(8192)

	parts := make([]genai.Part, 0, len(files)+1)
	parts = append(parts, genai.Text(prompt))
	for _, f := range files {
		parts = append(parts, genai.FileData{MIMEType: f.MIMEType, URI: f.URI})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("feedback generation failed: %w", err)
	}
	return responseText(resp)
}

// GenerateImprovement asks for the JSON improvement payload of a
// transcription. The shape is described in the prompt itself.
func (c *Client) GenerateImprovement(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := generationContext(ctx, c.cfg.RequestTimeout())
	defer cancel()

	model := c.client.GenerativeModel(c.cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(8192)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("improvement generation failed: %w", err)
	}
	return responseText(resp)
}

// Reply replays a full conversation transcript and returns the next
// model turn as plain text.
func (c *Client) Reply(ctx context.Context, turns []types.Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("empty conversation")
	}

	ctx, cancel := generationContext(ctx, c.cfg.RequestTimeout())
	defer cancel()

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(2048)

	cs := model.StartChat()
	for _, t := range turns[:len(turns)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}

	last := turns[len(turns)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(last.Text))
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}
	return responseText(resp)
}

// generationContext bounds a vendor generation call so a stalled
// request cannot hold the handler open indefinitely. An earlier caller
// deadline still wins.
func generationContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func toRemoteFile(f *genai.File) *types.RemoteFile {
	rf := &types.RemoteFile{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
	}
	switch f.State {
	case genai.FileStateActive:
		rf.State = types.FileActive
	case genai.FileStateFailed:
		rf.State = types.FileFailed
	default:
		rf.State = types.FileProcessing
	}
	return rf
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates received")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response received")
	}
	return text, nil
}
