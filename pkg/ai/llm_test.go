package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxhire/interview-engine/pkg/config"
)

func TestChat_Success(t *testing.T) {
	// Mock OpenAI-compatible server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["model"] != "test-model" {
			t.Fatalf("unexpected model %v", payload["model"])
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Tell me about yourself."}},
			},
		})
	}))
	defer ts.Close()

	client := NewLLMClient(&config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "test-model",
	})

	out, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "You are an interviewer."},
		{Role: "user", Content: "Start the interview."},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if out != "Tell me about yourself." {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestChat_BackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewLLMClient(&config.LLMConfig{APIKey: "test-key", BaseURL: ts.URL})

	if _, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewLLMClient(&config.LLMConfig{APIKey: "test-key", BaseURL: ts.URL})

	if _, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
