package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captured records what a fake upstream received.
type captured struct {
	path    string
	query   string
	headers http.Header
	body    map[string]any
}

func fakeUpstream(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestRouterChatGPT(t *testing.T) {
	srv, got := fakeUpstream(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":" Paris \n"}}]}`)
	r := NewRouter(Config{OpenAIKey: "sk-test", BaseURLs: map[string]string{ChatGPT: srv.URL + "/"}})

	out, err := r.Query(context.Background(), "ChatGPT", "capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", out)
	assert.Equal(t, "/v1/chat/completions", got.path)
	assert.Equal(t, "Bearer sk-test", got.headers.Get("Authorization"))
	assert.Equal(t, "gpt-3.5-turbo", got.body["model"])
}

func TestRouterDeepSeekAndCopilotPaths(t *testing.T) {
	reply := `{"choices":[{"message":{"content":"ok"}}]}`
	ds, dsGot := fakeUpstream(t, http.StatusOK, reply)
	cp, cpGot := fakeUpstream(t, http.StatusOK, reply)
	r := NewRouter(Config{
		DeepSeekKey: "ds", CopilotKey: "gh",
		BaseURLs: map[string]string{DeepSeek: ds.URL, Copilot: cp.URL},
	})

	_, err := r.Query(context.Background(), DeepSeek, "q")
	require.NoError(t, err)
	assert.Equal(t, "/v1/chat/completions", dsGot.path)
	assert.Equal(t, "deepseek-chat", dsGot.body["model"])

	_, err = r.Query(context.Background(), Copilot, "q")
	require.NoError(t, err)
	assert.Equal(t, "/copilot/v1/chat/completions", cpGot.path)
	assert.Equal(t, "Bearer gh", cpGot.headers.Get("Authorization"))
	_, hasModel := cpGot.body["model"]
	assert.False(t, hasModel)
}

func TestRouterClaude(t *testing.T) {
	srv, got := fakeUpstream(t, http.StatusOK, `{"content":[{"type":"text","text":"Bonjour"}]}`)
	r := NewRouter(Config{AnthropicKey: "ak", BaseURLs: map[string]string{Claude: srv.URL}})

	out, err := r.Query(context.Background(), Claude, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Equal(t, "/v1/messages", got.path)
	assert.Equal(t, "ak", got.headers.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", got.headers.Get("anthropic-version"))
	assert.Equal(t, "claude-3-sonnet-20240229", got.body["model"])
	assert.EqualValues(t, 1024, got.body["max_tokens"])
}

func TestRouterGemini(t *testing.T) {
	srv, got := fakeUpstream(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"42"}]}}]}`)
	r := NewRouter(Config{GoogleKey: "gk", BaseURLs: map[string]string{Gemini: srv.URL}})

	out, err := r.Query(context.Background(), Gemini, "answer?")
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", got.path)
	assert.Equal(t, "key=gk", got.query)
}

func TestRouterErrors(t *testing.T) {
	r := NewRouter(Config{})

	_, err := r.Query(context.Background(), "bard", "q")
	assert.True(t, IsUnsupported(err))
	assert.EqualError(t, err, "Unsupported AI platform: bard")

	_, err = r.Query(context.Background(), Copilot, "q")
	assert.True(t, IsNotConfigured(err))
	assert.EqualError(t, err, "GitHub Copilot API key not configured")
	assert.Empty(t, r.Platforms())
}

func TestRouterUpstreamFailure(t *testing.T) {
	srv, _ := fakeUpstream(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	r := NewRouter(Config{OpenAIKey: "sk", BaseURLs: map[string]string{ChatGPT: srv.URL}})

	_, err := r.Query(context.Background(), ChatGPT, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(401)")
	assert.Contains(t, err.Error(), "bad key")
}

func TestRouterRedactsKeyFromTransportErrors(t *testing.T) {
	r := NewRouter(Config{GoogleKey: "secret-key", BaseURLs: map[string]string{Gemini: "http://127.0.0.1:1"}})
	_, err := r.Query(context.Background(), Gemini, "q")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestRouterRateLimit(t *testing.T) {
	srv, _ := fakeUpstream(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)
	r := NewRouter(Config{
		OpenAIKey: "sk", BaseURLs: map[string]string{ChatGPT: srv.URL},
		RatePerSecond: 0.001, Burst: 1,
	})
	_, err := r.Query(context.Background(), ChatGPT, "q")
	require.NoError(t, err)
	_, err = r.Query(context.Background(), ChatGPT, "q")
	assert.True(t, IsRateLimited(err))
}

func TestRouterTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	r := NewRouter(Config{DeepSeekKey: "k", Timeout: 100 * time.Millisecond, BaseURLs: map[string]string{DeepSeek: srv.URL}})
	_, err := r.Query(context.Background(), DeepSeek, "q")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deadline exceeded") || strings.Contains(err.Error(), "Timeout"))
}

type stubProvider struct{ answer string }

func (s stubProvider) Name() string { return "Stub" }

func (s stubProvider) Query(context.Context, string) (string, error) { return s.answer, nil }

func TestRouterRegister(t *testing.T) {
	r := NewRouter(Config{})
	r.Register(stubProvider{answer: "pong"})
	out, err := r.Query(context.Background(), "stub", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	assert.Equal(t, []string{"stub"}, r.Platforms())
}
