package ai

import (
	"context"
	"net/http"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

// anthropicAdapter connects to the Anthropic Messages API.
type anthropicAdapter struct {
	client *http.Client
}

func (a *anthropicAdapter) messages(ctx context.Context, conn Connection, prompt string, maxTokens int, out any) error {
	return doJSON(ctx, a.client, apiCall{
		provider: ProviderAnthropic,
		baseURL:  conn.BaseURL,
		method:   http.MethodPost,
		url:      joinURL(conn.BaseURL, "/messages"),
		headers: map[string]string{
			"x-api-key":         conn.APIKey,
			"anthropic-version": anthropicVersion,
		},
		body: anthropicRequest{
			Model:     conn.Model,
			MaxTokens: maxTokens,
			Messages:  []chatMessage{{Role: "user", Content: prompt}},
		},
	}, out)
}

func (a *anthropicAdapter) Generate(ctx context.Context, prompt string, conn Connection) (string, error) {
	var resp anthropicResponse
	if err := a.messages(ctx, conn, prompt, anthropicMaxTokens, &resp); err != nil {
		return "", err
	}

	text := ""
	if len(resp.Content) > 0 {
		text = resp.Content[0].Text
	}
	return textOrSentinel(text), nil
}

// TestConnection sends a one-token request; Anthropic has no cheaper authenticated endpoint.
func (a *anthropicAdapter) TestConnection(ctx context.Context, conn Connection) error {
	return a.messages(ctx, conn, "test", 1, nil)
}
