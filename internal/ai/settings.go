package ai

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Setting keys shared with the options UI.
const (
	KeyProvider     = "provider"
	KeyOllamaHost   = "ollamaHost"
	KeyDefaultModel = "defaultModel"
	KeyAPIKey       = "apiKey"
	KeyAPIModel     = "apiModel"
	KeyAPIBaseURL   = "apiBaseUrl"
)

// SettingKeys lists every key the gateway reads.
var SettingKeys = []string{KeyProvider, KeyOllamaHost, KeyDefaultModel, KeyAPIKey, KeyAPIModel, KeyAPIBaseURL}

const (
	DefaultProvider          = ProviderOllama
	DefaultOllamaHost        = "http://127.0.0.1:11434"
	DefaultModel             = "llama3.1"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultAnthropicBaseURL  = "https://api.anthropic.com/v1"
)

// Settings is a snapshot of the stored values, blank when unset.
type Settings struct {
	Provider     string
	OllamaHost   string
	DefaultModel string
	APIKey       string
	APIModel     string
	APIBaseURL   string
}

// LoadSettings reads every gateway key. A missing row is treated as unset;
// any other read error fails the load so no call is routed on partial settings.
func LoadSettings(sg SettingsGetter) (Settings, error) {
	var errs []error
	get := func(key string) string {
		v, err := sg.GetSetting(key)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				errs = append(errs, fmt.Errorf("read setting %s: %w", key, err))
			}
			return ""
		}
		return strings.TrimSpace(v)
	}
	s := Settings{
		Provider:     get(KeyProvider),
		OllamaHost:   get(KeyOllamaHost),
		DefaultModel: get(KeyDefaultModel),
		APIKey:       get(KeyAPIKey),
		APIModel:     get(KeyAPIModel),
		APIBaseURL:   get(KeyAPIBaseURL),
	}
	return s, errors.Join(errs...)
}

// loadSettings wraps a LoadSettings failure as a configuration error.
func loadSettings(sg SettingsGetter) (Settings, error) {
	s, err := LoadSettings(sg)
	if err != nil {
		return s, &Error{Kind: KindConfiguration, Message: "Failed to read provider settings: " + err.Error(), Err: err}
	}
	return s, nil
}

// Overrides are per-call values from the caller. Blank fields fall through to settings.
type Overrides struct {
	Model string
	Host  string
}

// EffectiveSettings is the fully resolved provider and connection for one call.
type EffectiveSettings struct {
	Provider   Provider
	Connection Connection
}

// Resolve reads the stored settings and merges overrides over them.
// Overrides apply to Ollama only; cloud providers always use apiModel and apiBaseUrl.
func Resolve(sg SettingsGetter, ov Overrides) (EffectiveSettings, error) {
	s, err := loadSettings(sg)
	if err != nil {
		return EffectiveSettings{}, err
	}

	provider, err := ParseProvider(s.Provider)
	if err != nil {
		return EffectiveSettings{}, configError(err.Error())
	}

	eff := EffectiveSettings{Provider: provider}
	if !provider.IsCloud() {
		eff.Connection = Connection{
			BaseURL: firstNonEmpty(ov.Host, s.OllamaHost, DefaultOllamaHost),
			Model:   firstNonEmpty(ov.Model, s.DefaultModel, DefaultModel),
		}
		return eff, nil
	}

	eff.Connection = Connection{
		BaseURL: firstNonEmpty(s.APIBaseURL, provider.DefaultBaseURL()),
		APIKey:  s.APIKey,
		Model:   s.APIModel,
	}
	if err := requireCloudFields(provider, eff.Connection.APIKey, eff.Connection.Model); err != nil {
		return eff, err
	}
	return eff, nil
}

func requireCloudFields(p Provider, apiKey, model string) error {
	var missing []string
	if apiKey == "" {
		missing = append(missing, KeyAPIKey)
	}
	if model == "" {
		missing = append(missing, KeyAPIModel)
	}
	if len(missing) == 0 {
		return nil
	}
	return configError("Missing required settings for " + p.DisplayName() + ": " +
		strings.Join(missing, " and ") + " must be set in the options page")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ValidateSetting rejects keys the gateway does not read and provider values it
// cannot route. An empty value is always valid and means "unset".
func ValidateSetting(key, value string) error {
	if !slices.Contains(SettingKeys, key) {
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(SettingKeys, ", "))
	}
	if key == KeyProvider && strings.TrimSpace(value) != "" {
		if _, err := ParseProvider(value); err != nil {
			return err
		}
	}
	return nil
}

// MaskSecret hides all but the first three and last four characters of a
// credential. Short values are fully masked.
func MaskSecret(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:3] + strings.Repeat("*", 8) + v[len(v)-4:]
}
