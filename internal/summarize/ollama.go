package summarize

import (
	"context"
	"encoding/json"
	"strings"

	"youwee/internal/domain"
)

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// ollamaResponse uses a pointer so a missing "response" field is
// distinguishable from a present-but-empty one.
type ollamaResponse struct {
	Response *string `json:"response"`
}

func (c *Client) ollama(ctx context.Context, baseURL, model, prompt string) (domain.SummaryResult, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/generate"
	payload := ollamaRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.7},
	}

	data, err := c.postJSON(ctx, url, nil, payload)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.SummaryResult{}, &ParseError{Msg: err.Error()}
	}
	if parsed.Response == nil {
		return domain.SummaryResult{}, &ParseError{Msg: "no response field in Ollama output"}
	}
	return domain.SummaryResult{
		Summary:  strings.TrimSpace(*parsed.Response),
		Provider: "Ollama",
		Model:    model,
	}, nil
}
