package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// chatCompletions speaks the OpenAI-compatible chat completions API shared by
// ChatGPT, DeepSeek and GitHub Copilot.
type chatCompletions struct {
	name   string
	url    string
	model  string
	apiKey string
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *chatCompletions) Name() string { return c.name }

func (c *chatCompletions) Query(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{Model: c.model, Messages: []chatMessage{{Role: "user", Content: prompt}}}
	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.client, c.name, c.url, headers, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%s error: %s", c.name, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", c.name)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
