package summarize

import (
	"context"
	"encoding/json"
	"strings"

	"youwee/internal/domain"
)

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) openai(ctx context.Context, cfg domain.AIConfig, prompt string) (domain.SummaryResult, error) {
	url := c.openaiBase + "/chat/completions"
	payload := openaiRequest{
		Model:       cfg.Model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	headers := map[string]string{"Authorization": "Bearer " + cfg.APIKey}

	data, err := c.postJSON(ctx, url, headers, payload)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	var parsed openaiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.SummaryResult{}, &ParseError{Msg: err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return domain.SummaryResult{}, &ParseError{Msg: "no choices in OpenAI response"}
	}
	text := parsed.Choices[0].Message.Content
	if text == "" {
		return domain.SummaryResult{}, &ParseError{Msg: "empty message in OpenAI response"}
	}
	return domain.SummaryResult{
		Summary:  strings.TrimSpace(text),
		Provider: "OpenAI",
		Model:    cfg.Model,
	}, nil
}
