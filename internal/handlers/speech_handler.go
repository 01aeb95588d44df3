package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Kapitar/aiatl-micdrop/internal/domains/speech"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
	"github.com/Kapitar/aiatl-micdrop/pkg/providers/elevenlabs"
)

const transcriptionPreviewLimit = 500

type SpeechHandler struct {
	speechService speech.Service
	uploadsDir    string
	logger        *Logger.Logger
}

func NewSpeechHandler(speechService speech.Service, uploadsDir string, logger *Logger.Logger) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		uploadsDir:    uploadsDir,
		logger:        logger,
	}
}

// Transcribe converts an uploaded audio file to text
// @Summary Transcribe audio
// @Description Transcribes an audio file, optionally with diarization and audio-event tagging
// @Tags Speech
// @Accept mpfd
// @Produce json
// @Param audio formData file true "Audio file to transcribe"
// @Param language_code formData string false "Language code; empty or 'none' means auto-detect"
// @Param diarize formData boolean false "Annotate who is speaking"
// @Param tag_audio_events formData boolean false "Tag events like laughter or applause"
// @Success 200 {object} TranscriptionResponse
// @Failure 400 {object} ErrorResponse "Missing audio file"
// @Failure 500 {object} ErrorResponse "Transcription failure"
// @Router /speech/transcribe [post]
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	audio, err := c.FormFile("audio")
	if err != nil || audio.Filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Audio file is required"})
		return
	}

	audioPath, err := SaveScratch(c, audio, h.uploadsDir, "audio")
	if err != nil {
		h.logger.Errorf("saving audio upload: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save upload"})
		return
	}
	defer RemoveScratch(h.logger, audioPath)

	text, err := h.speechService.Transcribe(c.Request.Context(), audioPath, h.transcribeOpts(c))
	if err != nil {
		h.logger.Errorf("transcription failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Transcription failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TranscriptionResponse{Transcription: text})
}

// CloneAndImprove runs the full improvement workflow and streams audio
// @Summary Improve a speech in the speaker's own voice
// @Description Transcribes the audio, improves the content, clones the speaker's voice and returns the improved speech as audio bytes
// @Tags Speech
// @Accept mpfd
// @Produce octet-stream
// @Param audio formData file true "Audio file"
// @Param improvement_focus formData string false "Areas to focus the rewrite on"
// @Param language_code formData string false "Language code; empty or 'none' means auto-detect"
// @Success 200 {string} binary "Improved speech audio"
// @Failure 400 {object} ErrorResponse "Missing audio file"
// @Failure 500 {object} ErrorResponse "Workflow failure"
// @Router /speech/clone-and-improve [post]
func (h *SpeechHandler) CloneAndImprove(c *gin.Context) {
	result, ok := h.runWorkflow(c)
	if !ok {
		return
	}

	c.Header("X-Original-Transcription", headerSafe(result.Transcription, transcriptionPreviewLimit))
	c.Header("X-Audio-Size", strconv.Itoa(len(result.Audio)))
	c.Data(http.StatusOK, "audio/mpeg", result.Audio)
}

// CloneAndImproveDetailed runs the same workflow but returns JSON
// @Summary Improve a speech, detailed response
// @Description Same workflow as clone-and-improve but returns transcription, improvement payload and base64 audio as JSON
// @Tags Speech
// @Accept mpfd
// @Produce json
// @Param audio formData file true "Audio file"
// @Param improvement_focus formData string false "Areas to focus the rewrite on"
// @Param language_code formData string false "Language code; empty or 'none' means auto-detect"
// @Success 200 {object} DetailedImprovementResponse
// @Failure 400 {object} ErrorResponse "Missing audio file"
// @Failure 500 {object} ErrorResponse "Workflow failure"
// @Router /speech/clone-and-improve/detailed [post]
func (h *SpeechHandler) CloneAndImproveDetailed(c *gin.Context) {
	result, ok := h.runWorkflow(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, DetailedImprovementResponse{
		OriginalTranscription: result.Transcription,
		ImprovedContent:       result.Improvement,
		AudioBase64:           base64.StdEncoding.EncodeToString(result.Audio),
		AudioSize:             len(result.Audio),
	})
}

func (h *SpeechHandler) runWorkflow(c *gin.Context) (*types.ImprovementResult, bool) {
	audio, err := c.FormFile("audio")
	if err != nil || audio.Filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Audio file is required"})
		return nil, false
	}

	audioPath, err := SaveScratch(c, audio, h.uploadsDir, "audio")
	if err != nil {
		h.logger.Errorf("saving audio upload: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save upload"})
		return nil, false
	}
	defer RemoveScratch(h.logger, audioPath)

	result, err := h.speechService.CloneAndImprove(
		c.Request.Context(),
		audioPath,
		c.PostForm("improvement_focus"),
		h.transcribeOpts(c),
	)
	if err != nil {
		h.logger.Errorf("clone-and-improve failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Speech improvement failed", Details: err.Error()})
		return nil, false
	}
	return result, true
}

func (h *SpeechHandler) transcribeOpts(c *gin.Context) elevenlabs.TranscribeOpts {
	diarize, _ := strconv.ParseBool(c.DefaultPostForm("diarize", "false"))
	tagEvents, _ := strconv.ParseBool(c.DefaultPostForm("tag_audio_events", "false"))
	return elevenlabs.TranscribeOpts{
		LanguageCode:   NormalizeLanguage(c.PostForm("language_code")),
		Diarize:        diarize,
		TagAudioEvents: tagEvents,
	}
}

func headerSafe(s string, limit int) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	if len(s) <= limit {
		return s
	}
	// never cut a multi-byte rune in half
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// RegisterSpeechRoutes registers the speech endpoints
func (h *SpeechHandler) RegisterSpeechRoutes(r *gin.RouterGroup) {
	grp := r.Group("/speech")
	{
		grp.POST("/transcribe", h.Transcribe)
		grp.POST("/clone-and-improve", h.CloneAndImprove)
		grp.POST("/clone-and-improve/detailed", h.CloneAndImproveDetailed)
	}
}
