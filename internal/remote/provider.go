// Package remote routes prompts to hosted model APIs.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Platform names accepted by the Router.
const (
	ChatGPT  = "chatgpt"
	Claude   = "claude"
	Gemini   = "gemini"
	Copilot  = "copilot"
	DeepSeek = "deepseek"
)

// maxResponseBytes bounds a provider response body.
const maxResponseBytes = 4 << 20

// Provider answers a single prompt.
type Provider interface {
	Name() string
	Query(ctx context.Context, prompt string) (string, error)
}

type notConfiguredError struct{ vendor string }

func (e notConfiguredError) Error() string { return e.vendor + " API key not configured" }

// IsNotConfigured reports whether the platform has no API key.
func IsNotConfigured(err error) bool {
	var e notConfiguredError
	return errors.As(err, &e)
}

type unsupportedError struct{ platform string }

func (e unsupportedError) Error() string { return "Unsupported AI platform: " + e.platform }

// IsUnsupported reports whether the platform name is unknown.
func IsUnsupported(err error) bool {
	var e unsupportedError
	return errors.As(err, &e)
}

type rateLimitedError struct{ platform string }

func (e rateLimitedError) Error() string { return "rate limit exceeded for " + e.platform }

// IsRateLimited reports whether the request was rejected by the local limiter.
func IsRateLimited(err error) bool {
	var e rateLimitedError
	return errors.As(err, &e)
}

// statusError is a non-2xx provider response.
type statusError struct {
	provider string
	status   int
	body     string
}

func (e statusError) Error() string {
	return fmt.Sprintf("%s error (%d): %s", e.provider, e.status, e.body)
}

// postJSON sends body as JSON and decodes a 2xx response into out.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		// Drop the URL: it may carry an API key as a query parameter.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%s: %w", provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError{provider: provider, status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}
