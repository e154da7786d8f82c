package manager

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (m *Manager) beginGeneration(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(m.cfg.MaxWait)
	defer timer.Stop()
	select {
	case m.queueCh <- struct{}{}:
	default:
		// Queue full: reject immediately rather than wait for a waiter slot.
		return func() {}, tooBusyError{reason: "queue full"}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		return func() { <-m.genCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "timed out waiting for a generation slot"}
	}
}

// QueueStats reports admitted callers (waiting plus running), running
// generations and the queue capacity.
func (m *Manager) QueueStats() (queued, inflight, capacity int) {
	return len(m.queueCh), len(m.genCh), cap(m.queueCh)
}
