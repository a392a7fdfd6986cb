package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"youwee/internal/domain"
)

func geminiConfig(key string) domain.AIConfig {
	return domain.AIConfig{
		Enabled:         true,
		Provider:        domain.ProviderGemini,
		APIKey:          key,
		Model:           "gemini-2.0-flash",
		SummaryStyle:    domain.StyleShort,
		SummaryLanguage: "auto",
	}
}

// TestSummarizeGemini checks the request envelope and response extraction
// for the Gemini backend.
func TestSummarizeGemini(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "  A summary.  "}}}},
			},
		})
	}))
	defer server.Close()

	c := NewClientForTests(server.Client(), server.URL, server.URL)
	result, err := c.Summarize(context.Background(), "spoken words", geminiConfig("secret"))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if result.Summary != "A summary." {
		t.Fatalf("summary = %q, want trimmed text", result.Summary)
	}
	if result.Provider != "Gemini" || result.Model != "gemini-2.0-flash" {
		t.Fatalf("provenance = %+v", result)
	}
	if !strings.Contains(gotPath, "/models/gemini-2.0-flash:generateContent") {
		t.Fatalf("path = %q, want generateContent endpoint", gotPath)
	}
	if !strings.Contains(gotPath, "key=secret") {
		t.Fatalf("path = %q, want key query parameter", gotPath)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("request body = %+v", gotBody)
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "spoken words") {
		t.Fatalf("prompt %q should carry the transcript", prompt)
	}
	if !strings.Contains(prompt, "concise summary in 2-3 sentences") {
		t.Fatalf("prompt %q should carry the short-style directive", prompt)
	}
	if !strings.Contains(prompt, "same language as the transcript") {
		t.Fatalf("prompt %q should carry the auto-language directive", prompt)
	}
}

// TestSummarizeOpenAI checks the bearer header and chat completion shape.
func TestSummarizeOpenAI(t *testing.T) {
	var gotAuth string
	var gotBody openaiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Done."}},
			},
		})
	}))
	defer server.Close()

	cfg := domain.AIConfig{
		Provider:     domain.ProviderOpenAI,
		APIKey:       "sk-test",
		Model:        "gpt-4o-mini",
		SummaryStyle: domain.StyleDetailed,
	}
	c := NewClientForTests(server.Client(), server.URL, server.URL)
	result, err := c.Summarize(context.Background(), "transcript", cfg)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if result.Summary != "Done." || result.Provider != "OpenAI" {
		t.Fatalf("result = %+v", result)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization = %q, want bearer token", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || len(gotBody.Messages) != 1 {
		t.Fatalf("request body = %+v", gotBody)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "bullet points") {
		t.Fatal("detailed style should request bullet points")
	}
}

// TestSummarizeOllama checks the local endpoint shape and that no API key
// is required.
func TestSummarizeOllama(t *testing.T) {
	var gotPath string
	var gotBody ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "Local summary."})
	}))
	defer server.Close()

	cfg := domain.AIConfig{
		Provider:  domain.ProviderOllama,
		Model:     "llama3.2",
		OllamaURL: server.URL + "/",
	}
	c := NewClientForTests(server.Client(), "", "")
	result, err := c.Summarize(context.Background(), "transcript", cfg)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if result.Summary != "Local summary." || result.Provider != "Ollama" {
		t.Fatalf("result = %+v", result)
	}
	if gotPath != "/api/generate" {
		t.Fatalf("path = %q, want /api/generate", gotPath)
	}
	if gotBody.Stream {
		t.Fatal("ollama requests must disable streaming")
	}
}

// TestSummarizeRequiresAPIKey rejects cloud providers without credentials
// before any request.
func TestSummarizeRequiresAPIKey(t *testing.T) {
	c := NewClientForTests(http.DefaultClient, "http://invalid", "http://invalid")

	for _, provider := range []domain.AIProvider{domain.ProviderGemini, domain.ProviderOpenAI} {
		cfg := domain.AIConfig{Provider: provider, Model: "m"}
		if _, err := c.Summarize(context.Background(), "text", cfg); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("%s err = %v, want ErrNoAPIKey", provider, err)
		}
	}
}

// TestSummarizeEmptyTranscript rejects blank input up front.
func TestSummarizeEmptyTranscript(t *testing.T) {
	c := NewClientForTests(http.DefaultClient, "http://invalid", "http://invalid")

	if _, err := c.Summarize(context.Background(), "   \n", geminiConfig("k")); !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("err = %v, want ErrNoTranscript", err)
	}
}

// TestSummarizeAPIError surfaces non-2xx responses with status and body.
func TestSummarizeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClientForTests(server.Client(), server.URL, server.URL)
	_, err := c.Summarize(context.Background(), "text", geminiConfig("k"))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", apiErr.Status)
	}
	if !strings.Contains(apiErr.Body, "quota exceeded") {
		t.Fatalf("body = %q, want raw response body", apiErr.Body)
	}
}

// TestSummarizeParseError reports missing extraction paths distinctly.
func TestSummarizeParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	c := NewClientForTests(server.Client(), server.URL, server.URL)
	_, err := c.Summarize(context.Background(), "text", geminiConfig("k"))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

// TestSummarizeNetworkError wraps transport failures.
func TestSummarizeNetworkError(t *testing.T) {
	c := NewClientForTests(http.DefaultClient, "http://127.0.0.1:1", "http://127.0.0.1:1")
	_, err := c.Summarize(context.Background(), "text", geminiConfig("k"))

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	if netErr.Unwrap() == nil {
		t.Fatal("network error should wrap the transport error")
	}
}

// TestSummarizeUnknownProvider rejects unrecognized providers.
func TestSummarizeUnknownProvider(t *testing.T) {
	c := NewClientForTests(http.DefaultClient, "", "")
	_, err := c.Summarize(context.Background(), "text", domain.AIConfig{Provider: "watson"})
	if err == nil || !strings.Contains(err.Error(), "unknown AI provider") {
		t.Fatalf("err = %v, want unknown provider", err)
	}
}

// TestBuildPromptTruncation bounds the transcript and marks the cut.
func TestBuildPromptTruncation(t *testing.T) {
	long := strings.Repeat("a", maxPromptTranscriptChars+500)
	prompt := buildPrompt(long, domain.StyleShort, "auto")

	if !strings.Contains(prompt, strings.Repeat("a", maxPromptTranscriptChars)+"... [truncated]") {
		t.Fatal("prompt should cut at the budget and mark the truncation")
	}
	if strings.Contains(prompt, strings.Repeat("a", maxPromptTranscriptChars+1)) {
		t.Fatal("prompt should not exceed the transcript budget")
	}

	short := buildPrompt("small transcript", domain.StyleShort, "auto")
	if strings.Contains(short, "[truncated]") {
		t.Fatal("short transcripts must not be marked truncated")
	}
}

// TestBuildPromptLanguageDirective maps codes to display names.
func TestBuildPromptLanguageDirective(t *testing.T) {
	prompt := buildPrompt("text", domain.StyleShort, "vi")
	if !strings.Contains(prompt, "Respond in Vietnamese.") {
		t.Fatalf("prompt %q should name the language", prompt)
	}

	unknown := buildPrompt("text", domain.StyleShort, "xx")
	if !strings.Contains(unknown, "Respond in xx.") {
		t.Fatal("unknown codes fall back to the raw code")
	}
}

// TestTestConnection reports success through a tiny round trip.
func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	}))
	defer server.Close()

	c := NewClientForTests(server.Client(), server.URL, server.URL)
	msg, err := c.TestConnection(context.Background(), geminiConfig("k"))
	if err != nil {
		t.Fatalf("test connection: %v", err)
	}
	if !strings.Contains(msg, "Connection successful") || !strings.Contains(msg, "gemini-2.0-flash") {
		t.Fatalf("message = %q", msg)
	}
}
