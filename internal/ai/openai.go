package ai

import (
	"context"
	"net/http"
)

// OpenAI-compatible request/response types, shared by OpenAI and OpenRouter.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message chatMessage `json:"message"`
}

const openAITemperature = 0.7

type openAIAdapter struct {
	provider Provider // ProviderOpenAI or ProviderOpenRouter
	client   *http.Client
}

func (a *openAIAdapter) headers(conn Connection) map[string]string {
	return map[string]string{"Authorization": "Bearer " + conn.APIKey}
}

func (a *openAIAdapter) Generate(ctx context.Context, prompt string, conn Connection) (string, error) {
	var resp openAIChatResponse
	err := doJSON(ctx, a.client, apiCall{
		provider: a.provider,
		baseURL:  conn.BaseURL,
		method:   http.MethodPost,
		url:      joinURL(conn.BaseURL, "/chat/completions"),
		headers:  a.headers(conn),
		body: openAIChatRequest{
			Model:       conn.Model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: openAITemperature,
		},
	}, &resp)
	if err != nil {
		return "", err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return textOrSentinel(content), nil
}

// TestConnection lists models with the same credentials; nothing is generated.
func (a *openAIAdapter) TestConnection(ctx context.Context, conn Connection) error {
	return doJSON(ctx, a.client, apiCall{
		provider: a.provider,
		baseURL:  conn.BaseURL,
		method:   http.MethodGet,
		url:      joinURL(conn.BaseURL, "/models"),
		headers:  a.headers(conn),
	}, nil)
}
