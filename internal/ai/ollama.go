package ai

import (
	"context"
	"net/http"
	"strings"
)

// Native Ollama API types (unexported).

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Text     string `json:"text"`
}

type ollamaTagsResponse struct {
	Models []ollamaModelInfo `json:"models"`
}

type ollamaModelInfo struct {
	Name       string             `json:"name"`
	Size       int64              `json:"size"`
	ModifiedAt string             `json:"modified_at"`
	Details    ollamaModelDetails `json:"details"`
}

type ollamaModelDetails struct {
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

// OllamaModel represents a model available on an Ollama server.
type OllamaModel struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	ParameterSize string `json:"parameter_size"`
	Family        string `json:"family"`
}

// ollamaAdapter speaks Ollama's native /api/generate. No auth header is sent.
type ollamaAdapter struct {
	client *http.Client
}

func (o *ollamaAdapter) Generate(ctx context.Context, prompt string, conn Connection) (string, error) {
	var resp ollamaGenerateResponse
	err := doJSON(ctx, o.client, apiCall{
		provider: ProviderOllama,
		baseURL:  conn.BaseURL,
		method:   http.MethodPost,
		url:      joinURL(conn.BaseURL, "/api/generate"),
		body: ollamaGenerateRequest{
			Model:  conn.Model,
			Prompt: prompt,
			Stream: false,
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	return textOrSentinel(resp.Response, resp.Text), nil
}

// TestConnection lists tags, the lightest endpoint that proves the server is Ollama.
func (o *ollamaAdapter) TestConnection(ctx context.Context, conn Connection) error {
	_, err := o.listModels(ctx, conn.BaseURL)
	return err
}

func (o *ollamaAdapter) listModels(ctx context.Context, host string) ([]OllamaModel, error) {
	var tagsResp ollamaTagsResponse
	err := doJSON(ctx, o.client, apiCall{
		provider: ProviderOllama,
		baseURL:  host,
		method:   http.MethodGet,
		url:      joinURL(host, "/api/tags"),
	}, &tagsResp)
	if err != nil {
		return nil, err
	}

	models := make([]OllamaModel, len(tagsResp.Models))
	for i, m := range tagsResp.Models {
		// Strip ":latest" tag since it's the default and adds noise
		models[i] = OllamaModel{
			Name:          strings.TrimSuffix(m.Name, ":latest"),
			Size:          m.Size,
			ParameterSize: m.Details.ParameterSize,
			Family:        m.Details.Family,
		}
	}
	return models, nil
}
