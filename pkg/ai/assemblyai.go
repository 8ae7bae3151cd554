package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/voxhire/interview-engine/pkg/config"
)

// SpeechClient wraps AssemblyAI for turn transcription and async audit jobs
type SpeechClient struct {
	sdk            *aai.Client
	webhookBaseURL string
}

// NewSpeechClient creates an AssemblyAI-backed speech client.
// If cfg is nil, falls back to environment variables.
func NewSpeechClient(cfg *config.AssemblyAIConfig) *SpeechClient {
	var apiKey, webhookBase string
	if cfg != nil {
		apiKey = cfg.APIKey
		webhookBase = cfg.WebhookBaseURL
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &SpeechClient{
		sdk:            aai.NewClient(apiKey),
		webhookBaseURL: webhookBase,
	}
}

// Transcribe uploads one answer's audio and blocks until the transcript is ready.
// Used on the turn path, where the orchestrator needs the text before moving on.
func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	uploadURL, err := c.sdk.Upload(ctx, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromURL(ctx, uploadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai: %s", msg)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}

// SubmitRecording submits a full-session recording for async transcription.
// AssemblyAI calls back on the configured webhook when the job finishes.
// Returns the external transcript id.
func (c *SpeechClient) SubmitRecording(ctx context.Context, recordingURL string) (string, error) {
	if recordingURL == "" {
		return "", fmt.Errorf("recording URL is required")
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if c.webhookBaseURL != "" {
		webhookURL := c.webhookBaseURL + "/v1/webhooks/assemblyai"
		params.WebhookURL = &webhookURL
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, recordingURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit recording: %w", err)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}
	return *transcript.ID, nil
}

// GetTranscript fetches a transcript by its external id
func (c *SpeechClient) GetTranscript(ctx context.Context, transcriptID string) (aai.Transcript, error) {
	return c.sdk.Transcripts.Get(ctx, transcriptID)
}
