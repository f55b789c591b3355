package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseBytes caps how much of a provider response is read.
var maxResponseBytes int64 = 16 << 20

// apiCall describes one JSON round trip to a provider.
type apiCall struct {
	provider Provider
	baseURL  string // for network error guidance
	method   string
	url      string
	headers  map[string]string
	body     any // nil for GET
}

// doJSON performs the call and decodes a 2xx body into out (if non-nil).
// Every failure comes back as *Error.
func doJSON(ctx context.Context, client *http.Client, c apiCall, out any) error {
	var reqBody io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return &Error{Kind: KindProtocol, Provider: c.provider, Message: fmt.Sprintf("marshal %s request: %v", c.provider, err), Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reqBody)
	if err != nil {
		return configError(fmt.Sprintf("Invalid %s URL %q: %v", c.provider.DisplayName(), c.url, err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return transportError(ctx, c.provider, c.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return transportError(ctx, c.provider, c.baseURL, err)
	}
	if int64(len(respBody)) > maxResponseBytes {
		return &Error{
			Kind:     KindProtocol,
			Provider: c.provider,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("%s response too large (over %d bytes)", c.provider.DisplayName(), maxResponseBytes),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractAPIError(respBody)
		if detail == "" {
			detail = resp.Status
		}
		return &Error{
			Kind:     KindHTTP,
			Provider: c.provider,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("%s API error (%d): %s", c.provider.DisplayName(), resp.StatusCode, detail),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{
			Kind:     KindProtocol,
			Provider: c.provider,
			Message:  fmt.Sprintf("%s returned a response that is not valid JSON: %v", c.provider.DisplayName(), err),
			Err:      err,
		}
	}
	return nil
}

// extractAPIError parses provider JSON error bodies to extract a human-readable message.
// Providers return either {"error":"message"} or {"error":{"message":"text","type":"api_error"}}.
func extractAPIError(body []byte) string {
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}

	var nested struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	return ""
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// textOrSentinel substitutes NoResponseText for a missing field.
func textOrSentinel(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return NoResponseText
}
