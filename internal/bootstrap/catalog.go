package bootstrap

import (
	"youwee/internal/domain"
)

// aiModelCatalog lists selectable model presets per provider. The UI shows
// them as suggestions; free-form model names are still accepted.
var aiModelCatalog = map[domain.AIProvider][]domain.ModelOption{
	domain.ProviderGemini: {
		{Value: "gemini-2.0-flash", Label: "Gemini 2.0 Flash (fast, recommended)"},
		{Value: "gemini-2.0-flash-lite", Label: "Gemini 2.0 Flash Lite (fastest)"},
		{Value: "gemini-1.5-flash", Label: "Gemini 1.5 Flash"},
		{Value: "gemini-1.5-pro", Label: "Gemini 1.5 Pro (highest quality)"},
	},
	domain.ProviderOpenAI: {
		{Value: "gpt-4o-mini", Label: "GPT-4o mini (fast, recommended)"},
		{Value: "gpt-4o", Label: "GPT-4o (highest quality)"},
		{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo (cheapest)"},
	},
	domain.ProviderOllama: {
		{Value: "llama3.2", Label: "Llama 3.2"},
		{Value: "llama3.1", Label: "Llama 3.1"},
		{Value: "mistral", Label: "Mistral"},
		{Value: "qwen2.5", Label: "Qwen 2.5"},
	},
}

// summaryLanguageCatalog lists selectable summary output languages. "auto"
// means follow the transcript's language.
var summaryLanguageCatalog = []domain.LanguageOption{
	{Value: "auto", Label: "Auto (same as video)"},
	{Value: "en", Label: "English"},
	{Value: "vi", Label: "Vietnamese"},
	{Value: "ja", Label: "Japanese"},
	{Value: "ko", Label: "Korean"},
	{Value: "zh", Label: "Chinese"},
	{Value: "es", Label: "Spanish"},
	{Value: "fr", Label: "French"},
	{Value: "de", Label: "German"},
	{Value: "pt", Label: "Portuguese"},
	{Value: "ru", Label: "Russian"},
}

// GetAIModels returns the model presets for one provider.
func (a *App) GetAIModels(provider domain.AIProvider) []domain.ModelOption {
	models := aiModelCatalog[provider]
	out := make([]domain.ModelOption, len(models))
	copy(out, models)
	return out
}

// GetSummaryLanguages returns the selectable summary output languages.
func (a *App) GetSummaryLanguages() []domain.LanguageOption {
	out := make([]domain.LanguageOption, len(summaryLanguageCatalog))
	copy(out, summaryLanguageCatalog)
	return out
}

// defaultModelFor returns the first catalog entry for a provider.
func defaultModelFor(provider domain.AIProvider) string {
	models := aiModelCatalog[provider]
	if len(models) == 0 {
		return ""
	}
	return models[0].Value
}
