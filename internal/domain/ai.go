package domain

// AIProvider identifies one summarization backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderOpenAI AIProvider = "openai"
	ProviderOllama AIProvider = "ollama"
)

// SummaryStyle controls the shape of generated summaries.
type SummaryStyle string

const (
	StyleShort    SummaryStyle = "short"    // 2-3 sentences
	StyleDetailed SummaryStyle = "detailed" // bullet points
)

// AIConfig contains summarization settings persisted as one JSON document.
type AIConfig struct {
	Enabled         bool         `json:"enabled"`
	Provider        AIProvider   `json:"provider"`
	APIKey          string       `json:"apiKey,omitempty"`
	Model           string       `json:"model"`
	OllamaURL       string       `json:"ollamaUrl,omitempty"`
	SummaryStyle    SummaryStyle `json:"summaryStyle"`
	SummaryLanguage string       `json:"summaryLanguage"`
}

// SummaryResult is one generated summary with its provenance.
type SummaryResult struct {
	Summary  string `json:"summary"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// ModelOption is one selectable AI model preset.
type ModelOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LanguageOption is one selectable summary output language.
type LanguageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
