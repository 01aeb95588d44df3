package elevenlabs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kapitar/aiatl-micdrop/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.ElevenLabsConfig{
		APIKey:             "test-key",
		BaseURL:            srv.URL,
		RequestTimeoutSecs: 5,
		Voice: config.VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp3")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("writing temp audio: %v", err)
	}
	return path
}

func TestTranscribeRequestShape(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speech-to-text" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("model_id"); got != "scribe_v1" {
			t.Errorf("unexpected model_id %q", got)
		}
		if got := r.FormValue("diarize"); got != "true" {
			t.Errorf("unexpected diarize %q", got)
		}
		if _, ok := r.MultipartForm.Value["language_code"]; ok {
			t.Error("language_code must be omitted for auto-detect")
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Write([]byte(`{"text": "hello there"}`))
	})

	text, err := c.Transcribe(context.Background(), writeTempAudio(t), TranscribeOpts{Diarize: true})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello there" {
		t.Errorf("unexpected transcription %q", text)
	}
}

func TestTranscribeSendsExplicitLanguage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("language_code"); got != "spa" {
			t.Errorf("unexpected language_code %q", got)
		}
		w.Write([]byte(`{"text": "hola"}`))
	})

	if _, err := c.Transcribe(context.Background(), writeTempAudio(t), TranscribeOpts{LanguageCode: "spa"}); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
}

func TestTranscribeVendorError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "quota exceeded"}`, http.StatusTooManyRequests)
	})

	if _, err := c.Transcribe(context.Background(), writeTempAudio(t), TranscribeOpts{}); err == nil {
		t.Fatal("expected error on non-2xx vendor response")
	}
}

func TestCloneVoice(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voices/add" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("name"); got != "User Cloned Voice" {
			t.Errorf("unexpected voice name %q", got)
		}
		if _, _, err := r.FormFile("files"); err != nil {
			t.Errorf("missing files part: %v", err)
		}
		w.Write([]byte(`{"voice_id": "v-42"}`))
	})

	id, err := c.CloneVoice(context.Background(), writeTempAudio(t), "User Cloned Voice")
	if err != nil {
		t.Fatalf("clone voice: %v", err)
	}
	if id != "v-42" {
		t.Errorf("unexpected voice id %q", id)
	}
}

func TestSynthesizeReturnsAudioBytes(t *testing.T) {
	audio := []byte{0xFF, 0xFB, 0x90, 0x00}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/v-42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %s", r.Header.Get("Content-Type"))
		}
		w.Write(audio)
	})

	got, err := c.Synthesize(context.Background(), "v-42", "better words")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(got) != len(audio) {
		t.Errorf("expected %d audio bytes, got %d", len(audio), len(got))
	}
}

func TestDeleteVoice(t *testing.T) {
	deleted := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/v1/voices/v-42" {
			deleted = true
		}
		w.Write([]byte(`{}`))
	})

	if err := c.DeleteVoice(context.Background(), "v-42"); err != nil {
		t.Fatalf("delete voice: %v", err)
	}
	if !deleted {
		t.Error("expected DELETE on the voice resource")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(config.ElevenLabsConfig{BaseURL: "http://example.test"}); err == nil {
		t.Fatal("expected error without api key")
	}
}
