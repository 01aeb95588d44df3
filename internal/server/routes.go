package server

import (
	"github.com/gin-gonic/gin"

	"github.com/Kapitar/aiatl-micdrop/internal/domains/analysis"
	"github.com/Kapitar/aiatl-micdrop/internal/domains/chat"
	"github.com/Kapitar/aiatl-micdrop/internal/domains/speech"
	"github.com/Kapitar/aiatl-micdrop/internal/handlers"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

type Dependencies struct {
	AnalysisService analysis.Service
	ChatService     chat.Service
	SpeechService   speech.Service
	UploadsDir      string
	Logger          *Logger.Logger
}

func NewServerDependencies(
	analysisService analysis.Service,
	chatService chat.Service,
	speechService speech.Service,
	uploadsDir string,
	logger *Logger.Logger,
) Dependencies {
	return Dependencies{
		AnalysisService: analysisService,
		ChatService:     chatService,
		SpeechService:   speechService,
		UploadsDir:      uploadsDir,
		Logger:          logger,
	}
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("")
	handlers.NewAnalyzeHandler(dep.AnalysisService, dep.UploadsDir, dep.Logger).RegisterAnalyzeRoutes(api)
	handlers.NewChatHandler(dep.ChatService, dep.Logger).RegisterChatRoutes(api)
	handlers.NewSpeechHandler(dep.SpeechService, dep.UploadsDir, dep.Logger).RegisterSpeechRoutes(api)
}
