package interview

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/pkg/ai"
)

// ChatCollaborator produces conversational text: openings, question phrasing,
// follow-ups, transitions and the closing narrative.
type ChatCollaborator interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

// Evaluator scores one candidate answer against its question
type Evaluator interface {
	Evaluate(ctx context.Context, question entities.PlanQuestion, answer string) (*entities.Evaluation, error)
}

// Transcriber converts candidate audio to text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts interviewer text to a playable audio reference
type Synthesizer interface {
	Synthesize(ctx context.Context, sessionID uuid.UUID, text string) (string, error)
}

// AudioStore persists synthesized audio and returns a playable URL
type AudioStore interface {
	UploadAudio(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// retryCollaborator runs fn with exponential backoff. Exhausted retries
// surface as ErrCollaboratorUnavailable so callers can abort the turn
// without mutating session state.
func retryCollaborator(ctx context.Context, name string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(fn, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("%w: %s: %v", uerrors.ErrCollaboratorUnavailable, name, err)
	}
	return nil
}

// llmChat adapts the LLM client to the ChatCollaborator contract
type llmChat struct {
	client *ai.LLMClient
}

// NewLLMChat wraps an LLM client with retry semantics
func NewLLMChat(client *ai.LLMClient) ChatCollaborator {
	return &llmChat{client: client}
}

func (c *llmChat) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	var reply string
	err := retryCollaborator(ctx, "chat", func() error {
		var err error
		reply, err = c.client.Chat(ctx, messages)
		return err
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// llmEvaluator scores answers by prompting the LLM for a JSON verdict.
// A malformed verdict counts as a failed attempt and is retried.
type llmEvaluator struct {
	client *ai.LLMClient
	parser *Parser
}

// NewLLMEvaluator wraps an LLM client as the answer evaluator
func NewLLMEvaluator(client *ai.LLMClient) Evaluator {
	return &llmEvaluator{client: client, parser: NewParser()}
}

func (e *llmEvaluator) Evaluate(ctx context.Context, question entities.PlanQuestion, answer string) (*entities.Evaluation, error) {
	var eval *entities.Evaluation
	err := retryCollaborator(ctx, "evaluator", func() error {
		raw, err := e.client.Chat(ctx, evaluationPrompt(question, answer))
		if err != nil {
			return err
		}
		eval, err = e.parser.ParseEvaluation(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// speechTranscriber adapts the STT client to the Transcriber contract
type speechTranscriber struct {
	client *ai.SpeechClient
}

// NewSpeechTranscriber wraps the STT client with retry semantics
func NewSpeechTranscriber(client *ai.SpeechClient) Transcriber {
	return &speechTranscriber{client: client}
}

func (t *speechTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var text string
	err := retryCollaborator(ctx, "transcriber", func() error {
		var err error
		text, err = t.client.Transcribe(ctx, audio)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", uerrors.ErrTranscriptionFailed, err)
	}
	return text, nil
}

// storedSynthesizer synthesizes speech and uploads the audio bytes to the
// object store, returning the playable reference instead of raw audio.
type storedSynthesizer struct {
	tts   *ai.TTSClient
	store AudioStore
}

// NewStoredSynthesizer wraps TTS plus storage as the Synthesizer
func NewStoredSynthesizer(tts *ai.TTSClient, store AudioStore) Synthesizer {
	return &storedSynthesizer{tts: tts, store: store}
}

func (s *storedSynthesizer) Synthesize(ctx context.Context, sessionID uuid.UUID, text string) (string, error) {
	var audioRef string
	err := retryCollaborator(ctx, "synthesizer", func() error {
		audio, err := s.tts.Synthesize(ctx, text)
		if err != nil {
			return err
		}
		objectName := fmt.Sprintf("sessions/%s/tts/%s.mp3", sessionID, uuid.New())
		audioRef, err = s.store.UploadAudio(ctx, objectName, audio, "audio/mpeg")
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", uerrors.ErrSynthesisFailed, err)
	}
	return audioRef, nil
}
