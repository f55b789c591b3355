package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/thinkscotty/promptify/internal/models"
)

// SettingsGetter is a minimal interface so the ai package does not import database.
type SettingsGetter interface {
	GetSetting(key string) (string, error)
}

// UsageRecorder receives one entry per gateway call. The database implements it.
type UsageRecorder interface {
	LogQuery(entry models.QueryLog) error
}

// Provider names an LLM backend. Exactly one is active per call.
type Provider string

const (
	ProviderOllama     Provider = "ollama"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
)

// Providers lists every supported backend in display order.
func Providers() []Provider {
	return []Provider{ProviderOllama, ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic}
}

// ParseProvider maps a stored setting value to a Provider. Empty means the default.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultProvider, nil
	case ProviderOllama, ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider %q (want one of ollama, openai, openrouter, anthropic)", s)
	}
}

// IsCloud reports whether the provider needs an API key and model.
func (p Provider) IsCloud() bool {
	return p != ProviderOllama
}

// DisplayName is the human-facing name used in error messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOllama:
		return "Ollama"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderOpenRouter:
		return "OpenRouter"
	case ProviderAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}

// DefaultBaseURL is the endpoint used when apiBaseUrl (or ollamaHost) is unset.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case ProviderOllama:
		return DefaultOllamaHost
	case ProviderOpenAI:
		return DefaultOpenAIBaseURL
	case ProviderOpenRouter:
		return DefaultOpenRouterBaseURL
	case ProviderAnthropic:
		return DefaultAnthropicBaseURL
	default:
		return ""
	}
}

// Connection carries the endpoint and credentials for a single call.
// BaseURL is the Ollama host for ProviderOllama and the API base URL otherwise.
type Connection struct {
	BaseURL string
	APIKey  string
	Model   string
}

// adapter is one provider wire protocol.
type adapter interface {
	Generate(ctx context.Context, prompt string, conn Connection) (string, error)
	TestConnection(ctx context.Context, conn Connection) error
}

// adapterFor selects the wire protocol for p. An unknown value is a programming
// error: stored strings are validated by ParseProvider before they get here.
func adapterFor(p Provider, client *http.Client) adapter {
	switch p {
	case ProviderOllama:
		return &ollamaAdapter{client: client}
	case ProviderOpenAI, ProviderOpenRouter:
		return &openAIAdapter{provider: p, client: client}
	case ProviderAnthropic:
		return &anthropicAdapter{client: client}
	}
	panic(fmt.Sprintf("ai: no adapter for provider %q", p))
}
