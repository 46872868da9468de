// Package ai provides the Gemini-backed commit message generator for GitQuill.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

const (
	// DefaultEndpoint is the base URL of the Gemini generation API.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the fixed lightweight model used for generation.
	DefaultModel = "gemini-2.0-flash-lite"

	// DefaultTemperature is the fixed sampling temperature.
	DefaultTemperature = 0.5

	// DefaultMaxOutputTokens caps the generated message length.
	DefaultMaxOutputTokens = 100

	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 30 * time.Second
)

// GeminiConfig contains everything a GeminiProvider needs. It is built once
// at startup from the loaded configuration and passed in explicitly, so
// tests can point the provider at a local server.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Endpoint        string
	Temperature     float32
	MaxOutputTokens int
	Retry           apperrors.RetryConfig
}

// Request/response envelope for the generateContent endpoint.

type generateRequest struct {
	SystemInstruction *contentPayload  `json:"systemInstruction,omitempty"`
	Contents          []contentPayload `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type contentPayload struct {
	Parts []textPart `json:"parts"`
}

type textPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse mirrors the slice of the reply we care about:
// candidates[0].content.parts[0].text. Text is a pointer so an explicit
// JSON null is distinguishable from a present-but-empty string.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiProvider implements Provider against the Gemini REST API.
type GeminiProvider struct {
	config     GeminiConfig
	httpClient *http.Client
}

// NewGeminiProvider creates a Gemini provider. The API key is required;
// every other field falls back to the fixed defaults.
func NewGeminiProvider(config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, apperrors.NewMissingAPIKeyError()
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	if config.MaxOutputTokens == 0 {
		config.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = apperrors.DefaultRetryConfig()
	}

	return &GeminiProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// GetConfig returns the provider configuration (useful for testing).
func (p *GeminiProvider) GetConfig() GeminiConfig {
	return p.config
}

// GenerateCommitMessage delivers the diff to the model with bounded retry
// and extracts a single-line commit message from the reply.
//
// Delivery failures (transport errors, non-2xx statuses, malformed or
// wrongly shaped JSON) are retried up to the configured attempt budget.
// A delivered response whose extracted message is empty fails the run
// immediately instead.
func (p *GeminiProvider) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	payload := generateRequest{
		SystemInstruction: &contentPayload{
			Parts: []textPart{{Text: SystemPrompt}},
		},
		Contents: []contentPayload{
			{Parts: []textPart{{Text: BuildUserPrompt(diff)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     p.config.Temperature,
			MaxOutputTokens: p.config.MaxOutputTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to encode request payload")
	}

	apperrors.LogAPIRequest(p.config.Endpoint, p.config.Model, len(diff))
	startTime := time.Now()

	var rawText string
	err = apperrors.RetryWithNotify(ctx, p.config.Retry,
		func(ctx context.Context) error {
			text, attemptErr := p.attempt(ctx, body)
			if attemptErr != nil {
				return attemptErr
			}
			rawText = text
			return nil
		},
		func(attempt int, attemptErr error, delay time.Duration) {
			apperrors.LogRetry(attempt, p.config.Retry.MaxAttempts, attemptErr, delay)
		},
	)
	if err != nil {
		// A bare context error means the backoff wait was interrupted,
		// not that the attempt budget was spent.
		if !apperrors.IsAppError(err) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return "", err
		}
		return "", apperrors.NewGenerationExhaustedError(p.config.Retry.MaxAttempts, err)
	}

	apperrors.LogAPIResponse(http.StatusOK, len(rawText), time.Since(startTime))

	message := ExtractMessage(rawText)
	if message == "" {
		return "", apperrors.NewUnparsableResponseError()
	}

	return message, nil
}

// attempt performs one synchronous delivery and returns the candidate text.
// Every failure it returns is retryable.
func (p *GeminiProvider) attempt(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.requestURL(), bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewTimeoutError(err)
		}
		return "", apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := apperrors.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return "", apperrors.NewRateLimitError(retryAfter)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewAPIStatusError(resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.NewBadResponseShapeError(err)
	}

	text, err := candidateText(&parsed)
	if err != nil {
		return "", apperrors.NewBadResponseShapeError(err)
	}

	return text, nil
}

// requestURL builds the model generation URL with the key as a query credential.
func (p *GeminiProvider) requestURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.config.Endpoint, p.config.Model, url.QueryEscape(p.config.APIKey))
}

// candidateText selects candidates[0].content.parts[0].text, rejecting
// responses where the path is absent or explicitly null.
func candidateText(resp *generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("response has no candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("first candidate has no content parts")
	}
	if parts[0].Text == nil {
		return "", errors.New("first content part has no text")
	}
	return *parts[0].Text, nil
}
