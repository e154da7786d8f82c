//go:build !windows

package manager

import (
	"testing"
	"time"
)

func TestStopAllClearsCurrentModel(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := testCtx(t)
	if err := m.EnsureLoaded(ctx, "modelA"); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	_, done := startStray(t, m.RuntimeBin(), "silent", true)
	if n := m.StopAll(ctx); n != 1 {
		t.Fatalf("expected 1 terminated, got %d", n)
	}
	waitClosed(t, done, 2*time.Second, "stray exit")
	if m.CurrentModel() != "" || m.Snapshot().State != StateIdle {
		t.Fatalf("current model not cleared: %+v", m.Snapshot())
	}
}

func TestOptimizeRAMKeepsModel(t *testing.T) {
	m, _ := newTestManager(t, nil)
	keep, keepDone := startStray(t, m.RuntimeBin(), "silent", true)
	m.Processes().Register(keep.Process.Pid, "phi3")
	_, strayDone := startStray(t, m.RuntimeBin(), "silent", true)

	if n := m.OptimizeRAM(testCtx(t), "phi3"); n != 1 {
		t.Fatalf("expected 1 terminated, got %d", n)
	}
	waitClosed(t, strayDone, 2*time.Second, "stray exit")
	select {
	case <-keepDone:
		t.Fatalf("kept model process was terminated")
	default:
	}
}

func TestCloseStopsOnlyRegistered(t *testing.T) {
	m, _ := newTestManager(t, nil)
	owned, ownedDone := startStray(t, m.RuntimeBin(), "silent", true)
	m.Processes().Register(owned.Process.Pid, "modelA")
	_, strayDone := startStray(t, m.RuntimeBin(), "silent", true)

	if n := m.Close(testCtx(t)); n != 1 {
		t.Fatalf("expected 1 stopped, got %d", n)
	}
	waitClosed(t, ownedDone, 2*time.Second, "owned process exit")
	select {
	case <-strayDone:
		t.Fatalf("Close must not sweep unregistered processes")
	default:
	}
	if m.Processes().Len() != 0 {
		t.Fatalf("registry not empty after Close")
	}
}

func TestSwitchLoadsInBackground(t *testing.T) {
	m, pub := newTestManager(t, nil)
	op, err := m.Switch(testCtx(t), "modelB")
	if err != nil || op == "" {
		t.Fatalf("Switch: %q, %v", op, err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for m.CurrentModel() != "modelB" {
		if time.Now().After(deadline) {
			t.Fatalf("switch did not complete: %+v", m.Snapshot())
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(pub.Named(EventEnsureReady)) != 1 {
		t.Fatalf("expected ensure_ready event")
	}
}

func TestStatusReportsProcesses(t *testing.T) {
	m, _ := newTestManager(t, func(c *ManagerConfig) { c.MaxQueueDepth = 3 })
	p, _ := startStray(t, m.RuntimeBin(), "silent", true)
	m.Processes().Register(p.Process.Pid, "phi3")
	st := m.Status()
	if len(st.Processes) != 1 || st.Processes[0].PID != p.Process.Pid || st.Processes[0].Model != "phi3" {
		t.Fatalf("unexpected processes: %+v", st.Processes)
	}
	if st.MaxQueueDepth != 3 || st.DefaultModel != "modelA" || st.State != string(StateIdle) {
		t.Fatalf("unexpected status: %+v", st)
	}
	if !m.Ready() {
		t.Fatalf("fake runtime should be found")
	}
}
