// Package summarize turns video transcripts into summaries using one of
// several AI backends. The provider, model, credential, and output style
// all come from the caller's AIConfig; the client holds only transport
// state so a single instance serves every request.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"youwee/internal/domain"
)

const (
	defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta"
	defaultOpenAIBase = "https://api.openai.com/v1"

	// DefaultOllamaURL is used when the config leaves the Ollama URL empty.
	DefaultOllamaURL = "http://localhost:11434"

	// maxPromptTranscriptChars bounds how much transcript is sent upstream.
	maxPromptTranscriptChars = 8000

	requestTimeout = 2 * time.Minute
)

// Client performs summary requests against the configured AI backend.
type Client struct {
	httpClient *http.Client
	geminiBase string
	openaiBase string
}

// NewClient builds a Client with production endpoints and timeouts.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		geminiBase: defaultGeminiBase,
		openaiBase: defaultOpenAIBase,
	}
}

// NewClientForTests builds a Client pointed at test servers.
func NewClientForTests(httpClient *http.Client, geminiBase, openaiBase string) *Client {
	return &Client{httpClient: httpClient, geminiBase: geminiBase, openaiBase: openaiBase}
}

// Summarize sends the transcript to the provider named in cfg and returns
// the generated summary. Empty transcripts are rejected up front, and
// cloud providers require an API key before any request is made.
func (c *Client) Summarize(ctx context.Context, transcript string, cfg domain.AIConfig) (domain.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return domain.SummaryResult{}, ErrNoTranscript
	}
	prompt := buildPrompt(transcript, cfg.SummaryStyle, cfg.SummaryLanguage)

	switch cfg.Provider {
	case domain.ProviderGemini:
		if cfg.APIKey == "" {
			return domain.SummaryResult{}, ErrNoAPIKey
		}
		return c.gemini(ctx, cfg, prompt)
	case domain.ProviderOpenAI:
		if cfg.APIKey == "" {
			return domain.SummaryResult{}, ErrNoAPIKey
		}
		return c.openai(ctx, cfg, prompt)
	case domain.ProviderOllama:
		base := cfg.OllamaURL
		if base == "" {
			base = DefaultOllamaURL
		}
		return c.ollama(ctx, base, cfg.Model, prompt)
	default:
		return domain.SummaryResult{}, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
	}
}

// TestConnection runs a tiny summary request to verify the configured
// backend is reachable and the credential works.
func (c *Client) TestConnection(ctx context.Context, cfg domain.AIConfig) (string, error) {
	const probe = "This is a test video about programming tutorials."
	result, err := c.Summarize(ctx, probe, cfg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Connection successful! Using %s with model %s.", result.Provider, result.Model), nil
}

// buildPrompt assembles the instruction block and the (possibly truncated)
// transcript into a single prompt string.
func buildPrompt(transcript string, style domain.SummaryStyle, language string) string {
	styleDirective := "Provide a concise summary in 2-3 sentences."
	if style == domain.StyleDetailed {
		styleDirective = "Provide a detailed summary with bullet points covering the main topics and key takeaways."
	}

	languageDirective := "Respond in the same language as the transcript."
	if language != "" && language != "auto" {
		languageDirective = fmt.Sprintf("Respond in %s.", languageDisplayName(language))
	}

	body := transcript
	if runes := []rune(body); len(runes) > maxPromptTranscriptChars {
		body = string(runes[:maxPromptTranscriptChars]) + "... [truncated]"
	}

	return fmt.Sprintf(
		"You are a helpful assistant that summarizes video content.\n\n%s\n%s\n\nHere is the video transcript:\n\n%s\n\nSummary:",
		styleDirective, languageDirective, body,
	)
}

var languageNames = map[string]string{
	"en": "English",
	"vi": "Vietnamese",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"ru": "Russian",
}

func languageDisplayName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// postJSON sends a JSON payload and returns the raw response body. A
// transport failure is reported as a NetworkError, a non-2xx status as an
// APIError carrying the body verbatim.
func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
