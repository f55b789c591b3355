package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thinkscotty/promptify/internal/models"
)

const (
	DefaultGenerateTimeout = 120 * time.Second
	DefaultTestTimeout     = 15 * time.Second
)

// QueryRequest asks for an enhanced version of Prompt. Model and Host
// override the stored Ollama settings for this call only.
type QueryRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	Host   string `json:"host,omitempty"`
}

// TestRequest checks a provider without generating. Blank fields fall back
// to the stored settings, then to the provider defaults.
type TestRequest struct {
	Provider   string `json:"provider,omitempty"`
	Host       string `json:"host,omitempty"`
	APIKey     string `json:"apiKey,omitempty"`
	APIModel   string `json:"apiModel,omitempty"`
	APIBaseURL string `json:"apiBaseUrl,omitempty"`
}

// Result is the flat response shape returned to every caller.
type Result struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the transport used for every provider call (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithGenerateTimeout bounds each generation call.
func WithGenerateTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.generateTimeout = d }
}

// WithTestTimeout bounds each connection test and model listing.
func WithTestTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.testTimeout = d }
}

// WithRecorder reports every call outcome to r.
func WithRecorder(r UsageRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// Gateway normalizes the provider wire protocols behind Query and Test.
// It holds no per-call state, so concurrent calls are safe.
type Gateway struct {
	settings        SettingsGetter
	client          *http.Client
	generateTimeout time.Duration
	testTimeout     time.Duration
	recorder        UsageRecorder
}

func NewGateway(sg SettingsGetter, opts ...Option) *Gateway {
	g := &Gateway{
		settings:        sg,
		client:          &http.Client{},
		generateTimeout: DefaultGenerateTimeout,
		testTimeout:     DefaultTestTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Query enhances the prompt and submits it to the configured provider.
// Settings are re-read on every call. Failures are returned as Result, never as a panic.
func (g *Gateway) Query(ctx context.Context, req QueryRequest) Result {
	start := time.Now()
	eff, text, err := g.query(ctx, req)
	g.finish("query", eff, start, err)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}

	slog.Info("Gateway query completed", "provider", eff.Provider, "model", eff.Connection.Model,
		"elapsed", time.Since(start), "response_chars", len(text))
	return Result{OK: true, Text: text}
}

func (g *Gateway) query(ctx context.Context, req QueryRequest) (EffectiveSettings, string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return EffectiveSettings{}, "", invalidRequest("Missing required field: prompt must not be empty")
	}

	eff, err := Resolve(g.settings, Overrides{Model: req.Model, Host: req.Host})
	if err != nil {
		return eff, "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.generateTimeout)
	defer cancel()

	text, err := adapterFor(eff.Provider, g.client).Generate(callCtx, Enhance(req.Prompt), eff.Connection)
	if err != nil {
		return eff, "", withTimeoutMessage(err, ctx, "Request", g.generateTimeout,
			"The model might be too slow or unavailable.")
	}
	return eff, text, nil
}

// Test checks that the provider is reachable and accepts the credentials.
func (g *Gateway) Test(ctx context.Context, req TestRequest) Result {
	return g.test(ctx, req, false)
}

// TestCloud is Test restricted to the hosted providers. Ollama is checked through Test.
func (g *Gateway) TestCloud(ctx context.Context, req TestRequest) Result {
	return g.test(ctx, req, true)
}

func (g *Gateway) test(ctx context.Context, req TestRequest, cloudOnly bool) Result {
	start := time.Now()
	eff, err := g.resolveTest(req)
	if err == nil && cloudOnly && !eff.Provider.IsCloud() {
		err = invalidRequest("Unsupported provider: " + string(eff.Provider) +
			". API tests cover openai, openrouter and anthropic")
	}
	if err == nil {
		callCtx, cancel := context.WithTimeout(ctx, g.testTimeout)
		err = adapterFor(eff.Provider, g.client).TestConnection(callCtx, eff.Connection)
		cancel()
		err = withTimeoutMessage(err, ctx, "Connection test", g.testTimeout,
			"Make sure "+eff.Provider.DisplayName()+" is reachable at "+eff.Connection.BaseURL+".")
	}
	g.finish("test", eff, start, err)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}

	slog.Info("Gateway connection test passed", "provider", eff.Provider, "elapsed", time.Since(start))
	return Result{OK: true}
}

func (g *Gateway) resolveTest(req TestRequest) (EffectiveSettings, error) {
	s, err := loadSettings(g.settings)
	if err != nil {
		return EffectiveSettings{}, err
	}

	provider, err := ParseProvider(firstNonEmpty(req.Provider, s.Provider))
	if err != nil {
		return EffectiveSettings{}, configError(err.Error())
	}

	eff := EffectiveSettings{Provider: provider}
	if !provider.IsCloud() {
		eff.Connection = Connection{BaseURL: firstNonEmpty(req.Host, s.OllamaHost, DefaultOllamaHost)}
		return eff, nil
	}

	eff.Connection = Connection{
		BaseURL: firstNonEmpty(req.APIBaseURL, s.APIBaseURL, provider.DefaultBaseURL()),
		APIKey:  firstNonEmpty(req.APIKey, s.APIKey),
		Model:   firstNonEmpty(req.APIModel, s.APIModel),
	}
	if eff.Connection.APIKey == "" {
		return eff, configError("An API key is required to test the " + provider.DisplayName() + " connection")
	}
	// Anthropic is tested with a real one-token request, which needs a model.
	if provider == ProviderAnthropic && eff.Connection.Model == "" {
		return eff, configError("A model is required to test the Anthropic connection")
	}
	return eff, nil
}

// ListModels returns the models installed on an Ollama server. A blank host
// falls back to the stored ollamaHost.
func (g *Gateway) ListModels(ctx context.Context, host string) ([]OllamaModel, error) {
	if host == "" {
		s, err := loadSettings(g.settings)
		if err != nil {
			return nil, err
		}
		host = s.OllamaHost
	}
	host = firstNonEmpty(host, DefaultOllamaHost)

	callCtx, cancel := context.WithTimeout(ctx, g.testTimeout)
	defer cancel()

	a := &ollamaAdapter{client: g.client}
	list, err := a.listModels(callCtx, host)
	if err != nil {
		return nil, withTimeoutMessage(err, ctx, "Listing models", g.testTimeout,
			"Make sure Ollama is running at "+host+".")
	}
	return list, nil
}

// finish logs a failure and reports the outcome to the recorder.
func (g *Gateway) finish(kind string, eff EffectiveSettings, start time.Time, err error) {
	elapsed := time.Since(start)

	entry := models.QueryLog{
		RequestID:  uuid.NewString(),
		Kind:       kind,
		Provider:   string(eff.Provider),
		Model:      eff.Connection.Model,
		Status:     "ok",
		DurationMs: elapsed.Milliseconds(),
	}

	if err != nil {
		entry.Status = "error"
		entry.ErrorMessage = err.Error()
		entry.ErrorKind = string(KindOf(err))

		var gwErr *Error
		status := 0
		if errors.As(err, &gwErr) {
			status = gwErr.Status
		}
		slog.Error("Gateway call failed", "kind", kind, "provider", eff.Provider, "model", eff.Connection.Model,
			"error_kind", entry.ErrorKind, "status", status, "elapsed", elapsed, "error", err)
	}

	if g.recorder == nil {
		return
	}
	if rerr := g.recorder.LogQuery(entry); rerr != nil {
		slog.Warn("Failed to record gateway call", "request_id", entry.RequestID, "error", rerr)
	}
}
