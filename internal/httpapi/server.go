package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mopra/internal/manager"
	"mopra/internal/memory"
	"mopra/pkg/types"
)

// Service is the local orchestrator as seen by the HTTP layer.
type Service interface {
	Stream(ctx context.Context, prompt, model string, timeout time.Duration, onLine func(string) error) manager.Result
	OptimizeRAM(ctx context.Context, keep string) int
	StopAll(ctx context.Context) int
	Switch(ctx context.Context, model string) (string, error)
	DefaultModel() string
	ListModels(ctx context.Context) ([]types.Model, error)
	Status() types.StatusResponse
	Ready() bool
}

// Memory stores successful prompt/response exchanges.
type Memory interface {
	Add(prompt, response string) memory.Entry
	Entries() []memory.Entry
	Clear() int
}

// Searcher answers prompts with a remote AI platform.
type Searcher interface {
	Query(ctx context.Context, platform, prompt string) (string, error)
}

type server struct {
	svc    Service
	mem    Memory
	search Searcher
}

// NewMux builds the router. mem and search may be nil, in which case the
// memory and online-search routes are not mounted.
func NewMux(svc Service, mem Memory, search Searcher) http.Handler {
	s := &server{svc: svc, mem: mem, search: search}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/optimize-ram", s.handleOptimizeRAM)
		r.Post("/stop-all", s.handleStopAll)
		r.Post("/switch", s.handleSwitch)
		r.Get("/models", s.handleModels)
		if mem != nil {
			r.Get("/memory", s.handleMemory)
			r.Post("/memory/clear", s.handleMemoryClear)
		}
		if search != nil {
			r.Post("/online-search", s.handleOnlineSearch)
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("runtime not found"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
