package speech

import (
	"context"
	"fmt"

	"github.com/Kapitar/aiatl-micdrop/internal/constants/prompts"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
	"github.com/Kapitar/aiatl-micdrop/pkg/providers/elevenlabs"
)

const clonedVoiceName = "User Cloned Voice"

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts elevenlabs.TranscribeOpts) (string, error)
}

// VoiceCloner covers the voice lifecycle: clone, synthesize, delete.
type VoiceCloner interface {
	CloneVoice(ctx context.Context, audioPath, name string) (string, error)
	DeleteVoice(ctx context.Context, voiceID string) error
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// Improver produces the raw JSON improvement payload for a
// transcription.
type Improver interface {
	GenerateImprovement(ctx context.Context, prompt string) (string, error)
}

type Service interface {
	Transcribe(ctx context.Context, audioPath string, opts elevenlabs.TranscribeOpts) (string, error)
	Improve(ctx context.Context, transcription, focus string) (*types.Improvement, error)
	// CloneAndImprove runs the full workflow: transcribe, improve,
	// clone the speaker's voice, synthesize the improved speech with
	// it. The cloned voice is always deleted afterwards.
	CloneAndImprove(ctx context.Context, audioPath, focus string, opts elevenlabs.TranscribeOpts) (*types.ImprovementResult, error)
}

type service struct {
	transcriber Transcriber
	cloner      VoiceCloner
	improver    Improver
	logger      *Logger.Logger
}

func New(transcriber Transcriber, cloner VoiceCloner, improver Improver, logger *Logger.Logger) Service {
	return &service{
		transcriber: transcriber,
		cloner:      cloner,
		improver:    improver,
		logger:      logger,
	}
}

// Transcribe implements Service.
func (s *service) Transcribe(ctx context.Context, audioPath string, opts elevenlabs.TranscribeOpts) (string, error) {
	s.logger.Infof("transcribing audio: %s (language: %q)", audioPath, opts.LanguageCode)
	text, err := s.transcriber.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return "", err
	}
	s.logger.Infof("transcription completed: %d characters", len(text))
	return text, nil
}

// Improve implements Service.
func (s *service) Improve(ctx context.Context, transcription, focus string) (*types.Improvement, error) {
	s.logger.Info("improving speech content")
	raw, err := s.improver.GenerateImprovement(ctx, prompts.BuildImprovementPrompt(transcription, focus))
	if err != nil {
		return nil, fmt.Errorf("speech improvement failed: %w", err)
	}
	return types.ParseImprovement(raw)
}

// CloneAndImprove implements Service.
func (s *service) CloneAndImprove(ctx context.Context, audioPath, focus string, opts elevenlabs.TranscribeOpts) (*types.ImprovementResult, error) {
	transcription, err := s.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return nil, err
	}

	improvement, err := s.Improve(ctx, transcription, focus)
	if err != nil {
		return nil, err
	}

	audio, err := s.cloneAndSynthesize(ctx, audioPath, improvement.ImprovedSpeech)
	if err != nil {
		return nil, err
	}

	return &types.ImprovementResult{
		Transcription: transcription,
		Improvement:   *improvement,
		Audio:         audio,
	}, nil
}

func (s *service) cloneAndSynthesize(ctx context.Context, audioPath, text string) ([]byte, error) {
	s.logger.Infof("cloning voice from: %s", audioPath)
	voiceID, err := s.cloner.CloneVoice(ctx, audioPath, clonedVoiceName)
	if err != nil {
		return nil, err
	}
	// the clone exists only for this one synthesis; deletion failure
	// is logged, never escalated
	defer func() {
		if err := s.cloner.DeleteVoice(ctx, voiceID); err != nil {
			s.logger.Warnf("failed to cleanup cloned voice %s: %v", voiceID, err)
			return
		}
		s.logger.Infof("cleaned up cloned voice: %s", voiceID)
	}()

	s.logger.Info("generating speech with cloned voice")
	audio, err := s.cloner.Synthesize(ctx, voiceID, text)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("generated audio: %d bytes", len(audio))
	return audio, nil
}
