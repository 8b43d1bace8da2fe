package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenmetrics/internal/config"
)

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *Classifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClassifier(config.ClassifierConfig{
		BaseURL: server.URL,
		Model:   "test-model",
		APIKey:  "test-key",
	}, nil)
	c.httpClient = server.Client()
	return c
}

func TestClassifyYes(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		var body struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "test-model" {
			t.Errorf("unexpected model: %s", body.Model)
		}
		if body.Temperature != 0.2 {
			t.Errorf("unexpected temperature: %v", body.Temperature)
		}
		if len(body.Messages) != 2 || body.Messages[1].Content != "Energía solar en comunidades rurales" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}

		_ = json.NewEncoder(w).Encode(completion("Yes"))
	})

	answer, err := c.Classify(context.Background(), "Energía solar en comunidades rurales")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if answer != "yes" {
		t.Fatalf("expected yes, got %q", answer)
	}
}

func TestClassifyStripsReasoningTrace(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("<think>the project mentions solar energy</think>\nYes"))
	})

	answer, err := c.Classify(context.Background(), "Energía solar")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if answer != "yes" {
		t.Fatalf("expected yes, got %q", answer)
	}
}

func TestClassifyServerErrorIsNegative(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	answer, err := c.Classify(context.Background(), "Estudio de mercado")
	if err != nil {
		t.Fatalf("expected no error on HTTP 500, got %v", err)
	}
	if answer != "no" {
		t.Fatalf("expected no, got %q", answer)
	}
}

func TestClassifyEmptyChoicesIsNegative(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	answer, err := c.Classify(context.Background(), "Algo")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if answer != "no" {
		t.Fatalf("expected no, got %q", answer)
	}
}

func TestCleanAnswer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Yes", "yes"},
		{"  NO \n", "no"},
		{"<think>reasoning here</think> yes", "yes"},
		{"maybe", "maybe"},
	}
	for _, tc := range cases {
		if got := CleanAnswer(tc.in); got != tc.want {
			t.Errorf("CleanAnswer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
