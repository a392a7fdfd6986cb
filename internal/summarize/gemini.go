package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"youwee/internal/domain"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *Client) gemini(ctx context.Context, cfg domain.AIConfig, prompt string) (domain.SummaryResult, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.geminiBase, cfg.Model, cfg.APIKey)
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 1024,
		},
	}

	data, err := c.postJSON(ctx, url, nil, payload)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.SummaryResult{}, &ParseError{Msg: err.Error()}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return domain.SummaryResult{}, &ParseError{Msg: "no candidates in Gemini response"}
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return domain.SummaryResult{}, &ParseError{Msg: "empty text in Gemini response"}
	}
	return domain.SummaryResult{
		Summary:  strings.TrimSpace(text),
		Provider: "Gemini",
		Model:    cfg.Model,
	}, nil
}
