package httpapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mopra/internal/manager"
	"mopra/pkg/types"
)

type fakeService struct {
	mu sync.Mutex

	lines  []string
	result manager.Result

	gotPrompt  string
	gotModel   string
	gotTimeout time.Duration

	kept       string
	terminated int
	stopped    bool

	switchErr error
	switched  string

	models    []types.Model
	modelsErr error
	status    types.StatusResponse
	ready     bool
}

func (f *fakeService) Stream(ctx context.Context, prompt, model string, timeout time.Duration, onLine func(string) error) manager.Result {
	f.mu.Lock()
	f.gotPrompt, f.gotModel, f.gotTimeout = prompt, model, timeout
	lines, res := f.lines, f.result
	f.mu.Unlock()
	for _, l := range lines {
		if onLine == nil {
			continue
		}
		if err := onLine(l); err != nil {
			return manager.Result{Status: manager.StatusError, Error: err.Error(), Err: err}
		}
	}
	return res
}

func (f *fakeService) OptimizeRAM(ctx context.Context, keep string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kept = keep
	return f.terminated
}

func (f *fakeService) StopAll(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return f.terminated
}

func (f *fakeService) Switch(ctx context.Context, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.switchErr != nil {
		return "", f.switchErr
	}
	f.switched = model
	return "op-1", nil
}

func (f *fakeService) DefaultModel() string { return "phi3" }

func (f *fakeService) ListModels(ctx context.Context) ([]types.Model, error) {
	return f.models, f.modelsErr
}

func (f *fakeService) Status() types.StatusResponse { return f.status }
func (f *fakeService) Ready() bool                  { return f.ready }

func okResult(content, tag string) manager.Result {
	model, _, _ := strings.Cut(tag, ":")
	return manager.Result{Content: content, Model: model, ModelTag: tag, Status: manager.StatusSuccess}
}

type fakeProvider struct {
	name string
	out  string
	err  error
}

func (p fakeProvider) Name() string { return p.name }
func (p fakeProvider) Query(ctx context.Context, prompt string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.out + ": " + prompt, nil
}

var errUpstream = errors.New("upstream exploded")
