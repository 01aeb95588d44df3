package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Kapitar/aiatl-micdrop/internal/config"
)

const (
	sttModel = "scribe_v1"
	ttsModel = "eleven_multilingual_v2"
)

// Client is a thin HTTP client for the ElevenLabs API: speech to
// text, instant voice cloning, and text to speech.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voice      config.VoiceSettings
}

func New(cfg config.ElevenLabsConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs API key is not configured")
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		voice:      cfg.Voice,
	}, nil
}

// TranscribeOpts are the optional speech-to-text parameters. An empty
// LanguageCode means auto-detect and is omitted from the request.
type TranscribeOpts struct {
	LanguageCode   string
	Diarize        bool
	TagAudioEvents bool
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe converts an audio file to text.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts TranscribeOpts) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := writeFilePart(w, "file", audioPath); err != nil {
		return "", err
	}
	_ = w.WriteField("model_id", sttModel)
	_ = w.WriteField("diarize", strconv.FormatBool(opts.Diarize))
	_ = w.WriteField("tag_audio_events", strconv.FormatBool(opts.TagAudioEvents))
	if opts.LanguageCode != "" {
		_ = w.WriteField("language_code", opts.LanguageCode)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/v1/speech-to-text", &body, w.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("transcription failed: malformed response: %w", err)
	}
	return tr.Text, nil
}

type voiceResponse struct {
	VoiceID string `json:"voice_id"`
}

// CloneVoice creates an instant voice clone from an audio sample and
// returns the new voice id. The caller is responsible for deleting it.
func (c *Client) CloneVoice(ctx context.Context, audioPath, name string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	_ = w.WriteField("name", name)
	if err := writeFilePart(w, "files", audioPath); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build voice clone request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/v1/voices/add", &body, w.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("voice cloning failed: %w", err)
	}

	var vr voiceResponse
	if err := json.Unmarshal(respBody, &vr); err != nil || vr.VoiceID == "" {
		return "", fmt.Errorf("voice cloning failed: malformed response")
	}
	return vr.VoiceID, nil
}

func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/v1/voices/"+voiceID, nil, "")
	return err
}

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize generates speech with the given voice and returns the
// raw audio bytes.
func (c *Client) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: ttsModel,
		VoiceSettings: ttsVoiceSettings{
			Stability:       c.voice.Stability,
			SimilarityBoost: c.voice.SimilarityBoost,
			Style:           c.voice.Style,
			UseSpeakerBoost: c.voice.UseSpeakerBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}

	audio, err := c.do(ctx, http.MethodPost, "/v1/text-to-speech/"+voiceID, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return audio, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vendor returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}
	return respBody, nil
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
