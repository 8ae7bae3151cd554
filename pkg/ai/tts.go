package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/voxhire/interview-engine/pkg/config"
)

// TTSClient is a minimal client for OpenAI-compatible speech synthesis APIs
type TTSClient struct {
	apiKey  string
	baseURL string
	voice   string
	client  *http.Client
}

// NewTTSClient creates a TTS client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewTTSClient(cfg *config.TTSConfig) *TTSClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("TTS_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("TTS_API_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}

	voice := "alloy"
	if cfg != nil && cfg.Voice != "" {
		voice = cfg.Voice
	}

	return &TTSClient{
		apiKey:  apiKey,
		baseURL: base,
		voice:   voice,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// speechRequest is the payload for /v1/audio/speech
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// Synthesize converts text to spoken audio and returns the raw mp3 bytes
func (c *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	reqBody := speechRequest{
		Model:          "tts-1",
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: "mp3",
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/audio/speech"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("tts backend returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio from tts backend")
	}
	return audio, nil
}
