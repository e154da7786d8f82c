//go:build !windows

package manager

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	fakeRuntimeOnce sync.Once
	fakeRuntimeDir  string
	fakeRuntimePath string
	fakeRuntimeErr  string
)

// buildFakeRuntime compiles testdata/fake_runtime.go once per test binary.
// The binary gets a unique name so the signature sweep only ever matches
// processes started by these tests.
func buildFakeRuntime(t *testing.T) string {
	t.Helper()
	fakeRuntimeOnce.Do(func() {
		dir, err := os.MkdirTemp("", "mopra-manager-")
		if err != nil {
			fakeRuntimeErr = err.Error()
			return
		}
		fakeRuntimeDir = dir
		bin := filepath.Join(dir, "fakert-"+uuid.NewString()[:8])
		cmd := exec.Command("go", "build", "-o", bin, "./testdata/fake_runtime.go")
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		if out, err := cmd.CombinedOutput(); err != nil {
			fakeRuntimeErr = err.Error() + ": " + string(out)
			return
		}
		fakeRuntimePath = bin
	})
	if fakeRuntimeErr != "" {
		t.Fatalf("build fake runtime: %s", fakeRuntimeErr)
	}
	return fakeRuntimePath
}

// newTestManager returns a Manager driving the fake runtime with short
// timeouts. Any runtime process left behind is killed on cleanup.
func newTestManager(t *testing.T, mutate func(*ManagerConfig)) (*Manager, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	cfg := ManagerConfig{
		RuntimeBin:   buildFakeRuntime(t),
		DefaultModel: "modelA",
		LoadTimeout:  5 * time.Second,
		RunTimeout:   5 * time.Second,
		IdleTimeout:  2 * time.Second,
		GracePeriod:  200 * time.Millisecond,
		PollInterval: 20 * time.Millisecond,
		MaxWait:      2 * time.Second,
		Publisher:    pub,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.TerminateAll(ctx, "")
	})
	return m, pub
}

// startStray starts a runtime process the manager does not know about and
// returns it with a channel closed once it has been reaped.
func startStray(t *testing.T, bin, model string, ownGroup bool) (*exec.Cmd, <-chan struct{}) {
	t.Helper()
	cmd := exec.Command(bin, "run", model, "stray")
	if ownGroup {
		configureProcessGroup(cmd)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start stray: %v", err)
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-done
	})
	return cmd, done
}

func waitClosed(t *testing.T, ch <-chan struct{}, d time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}
