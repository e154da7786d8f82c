package remote

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default upstream endpoints and models.
const (
	defaultOpenAIURL    = "https://api.openai.com"
	defaultAnthropicURL = "https://api.anthropic.com"
	defaultGeminiURL    = "https://generativelanguage.googleapis.com"
	defaultCopilotURL   = "https://api.github.com"
	defaultDeepSeekURL  = "https://api.deepseek.com"

	defaultTimeout = 60 * time.Second
)

// Config holds provider credentials and router tunables.
type Config struct {
	OpenAIKey    string
	AnthropicKey string
	GoogleKey    string
	CopilotKey   string
	DeepSeekKey  string

	// BaseURLs overrides the scheme://host of a platform, keyed by platform name.
	BaseURLs map[string]string
	// Timeout bounds one provider call. Defaults to 60s.
	Timeout time.Duration
	// RatePerSecond and Burst configure a token bucket per platform;
	// RatePerSecond <= 0 disables limiting.
	RatePerSecond float64
	Burst         int

	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Router dispatches queries to the provider registered for a platform.
type Router struct {
	providers map[string]Provider
	vendors   map[string]string
	limiters  map[string]*rate.Limiter
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRouter builds providers for every platform with a configured API key.
func NewRouter(cfg Config) *Router {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	base := func(platform, def string) string {
		if u := cfg.BaseURLs[platform]; u != "" {
			return strings.TrimRight(u, "/")
		}
		return def
	}
	r := &Router{
		providers: make(map[string]Provider),
		vendors: map[string]string{
			ChatGPT:  "OpenAI",
			Claude:   "Anthropic",
			Gemini:   "Google",
			Copilot:  "GitHub Copilot",
			DeepSeek: "DeepSeek",
		},
		limiters: make(map[string]*rate.Limiter),
		timeout:  cfg.Timeout,
		log:      cfg.Logger.With().Str("component", "remote").Logger(),
	}
	if cfg.OpenAIKey != "" {
		r.providers[ChatGPT] = &chatCompletions{
			name: ChatGPT, url: base(ChatGPT, defaultOpenAIURL) + "/v1/chat/completions",
			model: "gpt-3.5-turbo", apiKey: cfg.OpenAIKey, client: client,
		}
	}
	if cfg.AnthropicKey != "" {
		r.providers[Claude] = &anthropicMessages{
			url:   base(Claude, defaultAnthropicURL) + "/v1/messages",
			model: "claude-3-sonnet-20240229", apiKey: cfg.AnthropicKey, client: client,
		}
	}
	if cfg.GoogleKey != "" {
		r.providers[Gemini] = &geminiGenerate{
			baseURL: base(Gemini, defaultGeminiURL), model: "gemini-pro", apiKey: cfg.GoogleKey, client: client,
		}
	}
	if cfg.CopilotKey != "" {
		r.providers[Copilot] = &chatCompletions{
			name: Copilot, url: base(Copilot, defaultCopilotURL) + "/copilot/v1/chat/completions",
			apiKey: cfg.CopilotKey, client: client,
		}
	}
	if cfg.DeepSeekKey != "" {
		r.providers[DeepSeek] = &chatCompletions{
			name: DeepSeek, url: base(DeepSeek, defaultDeepSeekURL) + "/v1/chat/completions",
			model: "deepseek-chat", apiKey: cfg.DeepSeekKey, client: client,
		}
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		for name := range r.vendors {
			r.limiters[name] = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
		}
	}
	return r
}

// Register installs p under its name, replacing any existing provider.
func (r *Router) Register(p Provider) {
	name := strings.ToLower(p.Name())
	r.providers[name] = p
	if _, ok := r.vendors[name]; !ok {
		r.vendors[name] = p.Name()
	}
}

// Platforms returns the names of configured platforms, sorted.
func (r *Router) Platforms() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Query sends prompt to platform (case-insensitive).
func (r *Router) Query(ctx context.Context, platform, prompt string) (string, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	vendor, known := r.vendors[platform]
	if !known {
		return "", unsupportedError{platform: platform}
	}
	p, ok := r.providers[platform]
	if !ok {
		return "", notConfiguredError{vendor: vendor}
	}
	if lim := r.limiters[platform]; lim != nil && !lim.Allow() {
		return "", rateLimitedError{platform: platform}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	out, err := p.Query(ctx, prompt)
	if err != nil {
		r.log.Warn().Err(err).Str("platform", platform).Dur("took", time.Since(start)).Msg("remote query failed")
		return "", err
	}
	r.log.Info().Str("platform", platform).Int("chars", len(out)).Dur("took", time.Since(start)).Msg("remote query")
	return out, nil
}
