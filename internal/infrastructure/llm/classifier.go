package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"greenmetrics/internal/config"
	"greenmetrics/internal/ports"
)

// systemPrompt pins the classification to the 17 sustainable development
// goals. The oracle is instructed to answer with a bare yes/no token.
const systemPrompt = "You are a helpful assistant that classifies if a project is related to sustainability. Answer only 'yes' or 'no'\n" +
	"1. Fin de la pobreza\n" +
	"2. Hambre cero\n" +
	"3. Salud y bienestar\n" +
	"4. Educación de calidad\n" +
	"5. Igualdad de género\n" +
	"6. Agua limpia y saneamiento\n" +
	"7. Energía asequible y no contaminante\n" +
	"8. Trabajo decente y crecimiento económico\n" +
	"9. Industria, innovación e infraestructura\n" +
	"10. Reducción de las desigualdades\n" +
	"11. Ciudades y comunidades sostenibles\n" +
	"12. Producción y consumo responsables\n" +
	"13. Acción por el clima\n" +
	"14. Vida submarina\n" +
	"15. Vida de ecosistemas terrestres\n" +
	"16. Paz, justicia e instituciones sólidas\n" +
	"17. Alianzas para lograr los objetivos\n"

// Classifier implements ports.Classifier against an OpenAI-compatible
// chat-completions endpoint.
type Classifier struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier builds a classifier from configuration.
func NewClassifier(cfg config.ClassifierConfig, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends the project title to the oracle and returns the cleaned
// answer token. A non-200 response degrades to "no" with a warning; only
// transport-level failures surface as errors, and callers treat those as
// negatives too.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "no", nil
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": text},
		},
		"temperature": 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal classification payload: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classify %q: %w", text, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("classifier returned non-200, treating as not sustainable",
			"status", resp.Status,
			"title", text,
			"body", strings.TrimSpace(string(detail)))
		return "no", nil
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode classification response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		c.logger.Warn("classifier response has no choices, treating as not sustainable", "title", text)
		return "no", nil
	}

	return CleanAnswer(parsed.Choices[0].Message.Content), nil
}

// CleanAnswer normalizes the oracle output: trimmed, lower-cased, and with
// any reasoning trace before a "</think>" marker stripped off.
func CleanAnswer(content string) string {
	answer := strings.ToLower(strings.TrimSpace(content))
	if idx := strings.LastIndex(answer, "</think>"); idx >= 0 {
		answer = strings.TrimSpace(answer[idx+len("</think>"):])
	}
	return answer
}
