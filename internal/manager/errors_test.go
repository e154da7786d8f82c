package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("query: %w", tooBusyError{reason: "queue full"})
	if !IsTooBusy(wrapped) || IsTooBusy(errors.New("x")) {
		t.Fatalf("IsTooBusy mismatch")
	}
	if !IsModelNotFound(ErrModelNotFound("m")) {
		t.Fatalf("IsModelNotFound mismatch")
	}
	lf := loadFailureError{model: "phi3", reason: "exit status 1", err: context.DeadlineExceeded}
	if !IsLoadFailure(lf) || !errors.Is(lf, context.DeadlineExceeded) {
		t.Fatalf("load failure should unwrap its cause")
	}
	if lf.Error() != "failed to load model: phi3: exit status 1" {
		t.Fatalf("unexpected message: %q", lf.Error())
	}
	if !IsSpawnFailure(spawnFailureError{model: "m", err: errors.New("enoent")}) {
		t.Fatalf("IsSpawnFailure mismatch")
	}
	if !IsExecutionTimeout(timeoutError{after: time.Second}) {
		t.Fatalf("IsExecutionTimeout mismatch")
	}
}

func TestTimeoutErrorMessages(t *testing.T) {
	if msg := (timeoutError{after: 120 * time.Second}).Error(); msg != "response timed out after 2m0s" {
		t.Fatalf("absolute: %q", msg)
	}
	if msg := (timeoutError{idle: true, after: 30 * time.Second}).Error(); msg != "no output received for 30s" {
		t.Fatalf("idle: %q", msg)
	}
}

func TestFailedResult(t *testing.T) {
	res := failedResult("llama3:8b", timeoutError{idle: true, after: time.Second})
	if res.Status != StatusTimeout || res.Model != "llama3" || res.ModelTag != "llama3:8b" {
		t.Fatalf("unexpected timeout result: %+v", res)
	}
	res = failedResult("phi3", loadFailureError{model: "phi3"})
	if res.Status != StatusError || !strings.HasPrefix(res.Error, "failed to load model") || res.OK() {
		t.Fatalf("unexpected error result: %+v", res)
	}
}
