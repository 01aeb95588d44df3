package app

import (
	"context"
	"fmt"
	"os"

	"github.com/Kapitar/aiatl-micdrop/internal/config"
	"github.com/Kapitar/aiatl-micdrop/internal/domains/analysis"
	"github.com/Kapitar/aiatl-micdrop/internal/domains/chat"
	"github.com/Kapitar/aiatl-micdrop/internal/domains/speech"
	"github.com/Kapitar/aiatl-micdrop/internal/server"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
	"github.com/Kapitar/aiatl-micdrop/pkg/providers/elevenlabs"
	"github.com/Kapitar/aiatl-micdrop/pkg/providers/gemini"
)

// App wires the vendor clients and domain services together.
type App struct {
	Config     *config.Settings
	Logger     *Logger.Logger
	Gemini     *gemini.Client
	ElevenLabs *elevenlabs.Client
	ServerDeps server.Dependencies
}

func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	if err := app.setupDependencies(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) setupDependencies(ctx context.Context) error {
	if err := os.MkdirAll(a.Config.Uploads.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads dir: %w", err)
	}

	gc, err := gemini.New(ctx, a.Config.Gemini)
	if err != nil {
		return err
	}
	a.Gemini = gc

	ec, err := elevenlabs.New(a.Config.ElevenLabs)
	if err != nil {
		return err
	}
	a.ElevenLabs = ec

	analysisService := analysis.New(gc, gc, a.Logger, a.Config.Gemini.FileTimeout())
	chatService := chat.New(chat.NewMemoryStore(), gc, a.Logger)
	speechService := speech.New(ec, ec, gc, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		analysisService,
		chatService,
		speechService,
		a.Config.Uploads.Dir,
		a.Logger,
	)
	return nil
}

func (a *App) Close() {
	if a.Gemini != nil {
		if err := a.Gemini.Close(); err != nil {
			a.Logger.Warnf("closing gemini client: %v", err)
		}
	}
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
