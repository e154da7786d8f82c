package manager

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"
)

// maxLineBytes bounds a single line of runtime output.
const maxLineBytes = 1 << 20

// runProcess is one live `<runtime> run` subprocess and its output plumbing.
type runProcess struct {
	cmd    *exec.Cmd
	pid    int
	model  string
	stdout *os.File
	stderr *tailBuffer

	lines      chan string
	stop       chan struct{}
	readerDone chan struct{}
	readErr    error

	exited  chan struct{}
	waitErr error
}

// Run executes prompt on model and returns the collected output. timeout is
// the absolute limit (zero means the configured run timeout); the idle limit
// always applies. The subprocess is terminated and unregistered on every path.
func (m *Manager) Run(ctx context.Context, prompt, model string, timeout time.Duration) Result {
	return m.Stream(ctx, prompt, model, timeout, nil)
}

// Stream is Run with onLine invoked for each output line as it arrives. A
// non-nil error from onLine aborts the run.
func (m *Manager) Stream(ctx context.Context, prompt, model string, timeout time.Duration, onLine func(string) error) Result {
	if timeout <= 0 {
		timeout = m.cfg.RunTimeout
	}
	start := time.Now()
	modelID, err := m.resolveModel(model)
	if err != nil {
		return m.finishRun(failedResult(model, err), start)
	}

	release, err := m.beginGeneration(ctx)
	if err != nil {
		return m.finishRun(failedResult(modelID, err), start)
	}
	defer release()

	p, err := m.spawn(ctx, prompt, modelID)
	if err != nil {
		return m.finishRun(failedResult(modelID, err), start)
	}
	defer m.cleanup(p)

	m.log.Info().Str("event", EventRunSpawn).Str("model", modelID).Int("pid", p.pid).Msg("inference started")
	m.publish(Event{Name: EventRunSpawn, ModelID: modelID, Fields: map[string]any{"pid": p.pid}})

	content, err := m.collect(ctx, p, timeout, onLine)
	res := Result{
		Content:  content,
		Model:    baseModelName(modelID),
		ModelTag: modelID,
		Status:   StatusSuccess,
		PID:      p.pid,
	}
	if err != nil {
		res = failedResult(modelID, err)
		res.PID = p.pid
		if IsExecutionTimeout(err) {
			m.log.Warn().Str("event", EventRunTimeout).Str("model", modelID).Int("pid", p.pid).Err(err).Msg("inference timed out")
			m.publish(Event{Name: EventRunTimeout, ModelID: modelID, Fields: map[string]any{"pid": p.pid, "error": err.Error()}})
		}
	}
	return m.finishRun(res, start)
}

// spawn loads model if needed and starts the inference subprocess while
// holding the loader lock, so no load sequence can interleave with it.
func (m *Manager) spawn(ctx context.Context, prompt, model string) (*runProcess, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if err := m.ensureLoadedLocked(ctx, model); err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, spawnFailureError{model: model, err: err}
	}
	stderr := newTailBuffer(stderrTailBytes)
	cmd := exec.Command(m.cfg.RuntimeBin, "run", model, prompt)
	configureProcessGroup(cmd)
	cmd.Stdout = pw
	cmd.Stderr = stderr
	cmd.WaitDelay = m.cfg.GracePeriod
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, spawnFailureError{model: model, err: err}
	}
	// The child holds its own copy of the write end.
	_ = pw.Close()

	p := &runProcess{
		cmd:        cmd,
		pid:        cmd.Process.Pid,
		model:      model,
		stdout:     pr,
		stderr:     stderr,
		lines:      make(chan string),
		stop:       make(chan struct{}),
		readerDone: make(chan struct{}),
		exited:     make(chan struct{}),
	}
	m.procs.Register(p.pid, model)

	go func() {
		p.waitErr = cmd.Wait()
		close(p.exited)
	}()
	go p.readLines()
	return p, nil
}

// readLines forwards stdout lines until EOF, a read error or stop.
func (p *runProcess) readLines() {
	defer close(p.readerDone)
	sc := bufio.NewScanner(p.stdout)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		select {
		case p.lines <- sc.Text():
		case <-p.stop:
			return
		}
	}
	p.readErr = sc.Err()
}

// collect gathers output until the process closes stdout and exits, or until
// the absolute timeout, the idle timeout or ctx ends it.
func (m *Manager) collect(ctx context.Context, p *runProcess, timeout time.Duration, onLine func(string) error) (string, error) {
	absolute := time.NewTimer(timeout)
	defer absolute.Stop()
	idle := time.NewTimer(m.cfg.IdleTimeout)
	defer idle.Stop()

	var out []string
	for eof := false; !eof; {
		select {
		case line := <-p.lines:
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			out = append(out, line)
			if onLine != nil {
				if err := onLine(line); err != nil {
					return "", fmt.Errorf("deliver output: %w", err)
				}
			}
			idle.Reset(m.cfg.IdleTimeout)
		case <-p.readerDone:
			eof = true
		case <-absolute.C:
			return "", timeoutError{after: timeout}
		case <-idle.C:
			return "", timeoutError{idle: true, after: m.cfg.IdleTimeout}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.readErr != nil {
		return "", fmt.Errorf("read runtime output: %w", p.readErr)
	}

	select {
	case <-p.exited:
	case <-absolute.C:
		return "", timeoutError{after: timeout}
	case <-idle.C:
		return "", timeoutError{idle: true, after: m.cfg.IdleTimeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if p.waitErr != nil {
		msg := "runtime exited: " + p.waitErr.Error()
		if tail := p.stderr.String(); tail != "" {
			msg += ": " + tail
		}
		return "", errors.New(msg)
	}
	return strings.Join(out, "\n"), nil
}

// cleanup stops the process group if it is still running, releases the
// output pipe and removes the registry entry. It runs on every exit path.
func (m *Manager) cleanup(p *runProcess) {
	close(p.stop)
	select {
	case <-p.exited:
	default:
		m.stopRunProcess(p)
	}
	_ = p.stdout.Close()
	<-p.readerDone
	m.procs.Unregister(p.pid)
}

func (m *Manager) stopRunProcess(p *runProcess) {
	if err := m.ctl.GracefulStop(p.pid); err == nil {
		select {
		case <-p.exited:
			return
		case <-time.After(m.cfg.GracePeriod):
		}
	}
	if err := m.ctl.ForceKill(p.pid); err != nil && !errors.Is(err, errProcessGone) {
		m.log.Warn().Err(err).Int("pid", p.pid).Msg("force kill failed")
	}
	select {
	case <-p.exited:
	case <-time.After(m.cfg.GracePeriod):
		_ = p.cmd.Process.Kill()
		<-p.exited
	}
}

func (m *Manager) finishRun(res Result, start time.Time) Result {
	res.Duration = time.Since(start)
	runsTotal.WithLabelValues(string(res.Status)).Inc()
	runDuration.Observe(res.Duration.Seconds())
	ev := m.log.Info()
	if res.Status != StatusSuccess {
		ev = m.log.Warn().Str("error", res.Error)
	}
	ev.Str("event", EventRunDone).
		Str("model", res.ModelTag).
		Str("status", string(res.Status)).
		Dur("took", res.Duration).
		Msg("inference finished")
	m.publish(Event{Name: EventRunDone, ModelID: res.ModelTag, Fields: map[string]any{
		"status": string(res.Status),
		"dur_ms": res.Duration.Milliseconds(),
	}})
	return res
}

// failedResult converts err into a timeout or error Result.
func failedResult(model string, err error) Result {
	res := Result{
		Model:    baseModelName(model),
		ModelTag: model,
		Status:   StatusError,
		Error:    err.Error(),
		Err:      err,
	}
	if IsExecutionTimeout(err) {
		res.Status = StatusTimeout
	}
	return res
}
