package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kapitar/aiatl-micdrop/internal/domains/analysis"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

type AnalyzeHandler struct {
	analysisService analysis.Service
	uploadsDir      string
	logger          *Logger.Logger
}

func NewAnalyzeHandler(analysisService analysis.Service, uploadsDir string, logger *Logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		uploadsDir:      uploadsDir,
		logger:          logger,
	}
}

// AnalyzeVideo analyzes a speech video and returns structured feedback
// @Summary Analyze a speech video
// @Description Uploads a speech video (plus optional separate audio) and returns structured four-section feedback
// @Tags Analysis
// @Accept mpfd
// @Produce json
// @Param video formData file true "Video file to analyze"
// @Param audio formData file false "Optional separate audio file"
// @Success 200 {object} types.Feedback "Structured feedback"
// @Failure 400 {object} ErrorResponse "Missing or invalid upload"
// @Failure 502 {object} ErrorResponse "Vendor processing failure"
// @Failure 504 {object} ErrorResponse "Vendor processing timeout"
// @Router /analyze/video [post]
func (h *AnalyzeHandler) AnalyzeVideo(c *gin.Context) {
	video, err := c.FormFile("video")
	if err != nil || video.Filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Video file is required"})
		return
	}
	// audio may arrive as a file, an empty string, or nothing at all
	audio, hasAudio := OptionalFormFile(c, "audio")

	videoPath, err := SaveScratch(c, video, h.uploadsDir, "video")
	if err != nil {
		h.logger.Errorf("saving video upload: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save upload"})
		return
	}
	defer RemoveScratch(h.logger, videoPath)

	audioPath := ""
	if hasAudio {
		audioPath, err = SaveScratch(c, audio, h.uploadsDir, "audio")
		if err != nil {
			h.logger.Errorf("saving audio upload: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save upload"})
			return
		}
		defer RemoveScratch(h.logger, audioPath)
	}

	feedback, err := h.analysisService.AnalyzeVideo(c.Request.Context(), videoPath, audioPath)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrProcessingTimeout):
			c.JSON(http.StatusGatewayTimeout, ErrorResponse{
				Error: "Video processing timed out. Please try with a shorter video or try again later.",
			})
		case errors.Is(err, analysis.ErrFileProcessing):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "The vendor could not process the uploaded media"})
		case errors.Is(err, types.ErrInvalidFeedback):
			h.logger.Errorf("analysis schema violation: %v", err)
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Analysis returned an invalid result"})
		default:
			h.logger.Errorf("analysis failed: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Analysis failed", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// RegisterAnalyzeRoutes registers the analysis endpoints
func (h *AnalyzeHandler) RegisterAnalyzeRoutes(r *gin.RouterGroup) {
	grp := r.Group("/analyze")
	{
		grp.POST("/video", h.AnalyzeVideo)
	}
}
