package analysis

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/Kapitar/aiatl-micdrop/internal/constants/prompts"
	"github.com/Kapitar/aiatl-micdrop/internal/types"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

const defaultPollInterval = 2 * time.Second

// MediaStore is the slice of the generative vendor's file API the
// analyzer needs.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, mimeType string) (*types.RemoteFile, error)
	Status(ctx context.Context, name string) (*types.RemoteFile, error)
	Delete(ctx context.Context, name string) error
}

// FeedbackGenerator issues the structured generation call over
// uploaded media.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, prompt string, files []types.RemoteFile) (string, error)
}

type Service interface {
	// AnalyzeVideo uploads the local media to vendor storage, waits
	// for readiness, runs one structured generation call, and returns
	// the validated feedback. audioPath may be empty. Remote files are
	// deleted on every exit path.
	AnalyzeVideo(ctx context.Context, videoPath, audioPath string) (*types.Feedback, error)
}

type service struct {
	store        MediaStore
	gen          FeedbackGenerator
	logger       *Logger.Logger
	fileTimeout  time.Duration
	pollInterval time.Duration
}

func New(store MediaStore, gen FeedbackGenerator, logger *Logger.Logger, fileTimeout time.Duration) Service {
	if fileTimeout <= 0 {
		fileTimeout = 120 * time.Second
	}
	return &service{
		store:        store,
		gen:          gen,
		logger:       logger,
		fileTimeout:  fileTimeout,
		pollInterval: defaultPollInterval,
	}
}

// AnalyzeVideo implements Service.
func (s *service) AnalyzeVideo(ctx context.Context, videoPath, audioPath string) (*types.Feedback, error) {
	s.logger.Infof("starting analysis for video: %s", videoPath)

	var uploaded []types.RemoteFile
	defer func() { s.cleanup(uploaded) }()

	video, err := s.uploadAndWait(ctx, videoPath, "video/mp4", &uploaded)
	if err != nil {
		return nil, err
	}
	files := []types.RemoteFile{*video}

	if audioPath != "" {
		audio, err := s.uploadAndWait(ctx, audioPath, "audio/mpeg", &uploaded)
		if err != nil {
			return nil, err
		}
		files = append(files, *audio)
	}

	s.logger.Info("generating analysis with structured output")
	raw, err := s.gen.GenerateFeedback(ctx, prompts.AnalysisPrompt, files)
	if err != nil {
		return nil, err
	}

	// fail closed on anything that doesn't parse as the schema
	feedback, err := types.ParseFeedback(raw)
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *service) uploadAndWait(ctx context.Context, path, fallbackMIME string, uploaded *[]types.RemoteFile) (*types.RemoteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rf, err := s.store.Upload(ctx, f, mimeTypeFor(path, fallbackMIME))
	if err != nil {
		return nil, err
	}
	*uploaded = append(*uploaded, *rf)
	s.logger.Infof("uploaded %s as %s, state: %s", path, rf.Name, rf.State)

	if err := s.awaitActive(ctx, rf.Name); err != nil {
		return nil, err
	}
	return rf, nil
}

// cleanup deletes uploaded remote files regardless of the analysis
// outcome. Failures are logged, never escalated, so they cannot mask
// the primary result.
func (s *service) cleanup(uploaded []types.RemoteFile) {
	if len(uploaded) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, rf := range uploaded {
		if err := s.store.Delete(ctx, rf.Name); err != nil {
			s.logger.Warnf("failed to cleanup remote file %s: %v", rf.Name, err)
			continue
		}
		s.logger.Infof("deleted remote file: %s", rf.Name)
	}
}

func mimeTypeFor(path, fallback string) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return fallback
}
