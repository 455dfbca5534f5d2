package studysync

import (
	"context"
	"fmt"
	"io"
	"time"

	"studysync/internal/models"

	"github.com/rs/zerolog"
)

// Generator turns one document into study materials.
type Generator interface {
	Generate(ctx context.Context, filename string, content io.Reader) (*models.GenerateResponse, error)
}

// FileOpener gives access to the bytes of a previously uploaded file.
type FileOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Orchestrator runs the generate operation for a workspace.
type Orchestrator struct {
	files     FileOpener
	generator Generator
	inflight  *Inflight
	log       zerolog.Logger
}

func NewOrchestrator(files FileOpener, generator Generator, inflight *Inflight, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		files:     files,
		generator: generator,
		inflight:  inflight,
		log:       log.With().Str("component", "orchestrator").Logger(),
	}
}

// Inflight exposes the tracker so callers can derive State.Processing.
func (o *Orchestrator) Inflight() *Inflight {
	return o.inflight
}

// Generate sends the workspace's file to the generator and applies the
// outcome to st. It returns ErrNoFileSelected or ErrGenerationInFlight when
// the request is refused before any network activity; otherwise it returns
// nil and the outcome (materials or error banner) is recorded in st.
//
// The outbound request is not tied to ctx cancellation and has no deadline.
func (o *Orchestrator) Generate(ctx context.Context, workspaceID string, st *State) error {
	if st.File == nil {
		return st.beginGenerate()
	}
	if !o.inflight.TryAcquire(workspaceID, st.File.Key) {
		st.Processing = true
		return ErrGenerationInFlight
	}
	defer o.inflight.Release(workspaceID)

	// The tracker is authoritative; a flag loaded from a stale session is not.
	st.Processing = false
	if err := st.beginGenerate(); err != nil {
		return err
	}

	var (
		resp *models.GenerateResponse
		err  error
	)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("generation panicked: %v", r)
		}
		st.finishGenerate(resp, err)
		o.logOutcome(workspaceID, st, time.Since(start))
	}()

	resp, err = o.run(context.WithoutCancel(ctx), st.File)
	return nil
}

func (o *Orchestrator) run(ctx context.Context, file *models.UploadedFile) (*models.GenerateResponse, error) {
	content, err := o.files.Open(ctx, file.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", file.Name, err)
	}
	defer content.Close()

	o.log.Info().Str("file", file.Name).Int64("size", file.Size).Msg("Requesting study materials")
	return o.generator.Generate(ctx, file.Name, content)
}

func (o *Orchestrator) logOutcome(workspaceID string, st *State, elapsed time.Duration) {
	if st.Error != "" {
		o.log.Warn().
			Str("workspace", workspaceID).
			Dur("elapsed", elapsed).
			Str("error", st.Error).
			Msg("Study material generation failed")
		return
	}
	o.log.Info().
		Str("workspace", workspaceID).
		Dur("elapsed", elapsed).
		Int("questions", len(st.Materials.QuizQuestions)).
		Int("flashcards", len(st.Materials.Flashcards)).
		Msg("Study materials generated")
}
