package models

// Provider tags the active generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
)

// ProviderKeys holds one credential string per provider.
type ProviderKeys struct {
	Gemini string `json:"gemini"`
	Groq   string `json:"groq"`
	OpenAI string `json:"openai"`
}

// ProviderSettings selects the active provider and its credentials. It is
// persisted separately from the project library and threaded explicitly
// into every gateway call.
type ProviderSettings struct {
	Provider Provider     `json:"provider"`
	Keys     ProviderKeys `json:"keys"`
}

// DefaultProviderSettings is used when no settings have been persisted or
// the persisted blob is corrupt.
func DefaultProviderSettings() ProviderSettings {
	return ProviderSettings{Provider: ProviderGemini}
}

// KeyFor returns the configured credential for a provider.
func (s ProviderSettings) KeyFor(p Provider) string {
	switch p {
	case ProviderGemini:
		return s.Keys.Gemini
	case ProviderGroq:
		return s.Keys.Groq
	case ProviderOpenAI:
		return s.Keys.OpenAI
	}
	return ""
}
