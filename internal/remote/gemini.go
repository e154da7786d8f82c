package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// geminiGenerate calls the Google generateContent API.
type geminiGenerate struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *geminiGenerate) Name() string { return Gemini }

func (g *geminiGenerate) Query(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(g.baseURL, "/"), url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	var resp geminiResponse
	if err := postJSON(ctx, g.client, Gemini, endpoint, nil, req, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	return sb.String(), nil
}
