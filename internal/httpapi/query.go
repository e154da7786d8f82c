package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"mopra/internal/manager"
	"mopra/pkg/types"
)

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req types.QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.Model = strings.TrimSpace(req.Model)
	if !validRequest(w, &req) {
		return
	}

	log := newRequestLogger(r)
	log.begin(req.Model)

	// Shutdown cancels the run as well as a client disconnect.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	timeout := time.Duration(req.TimeoutSeconds) * time.Second

	if req.Stream {
		s.streamQuery(ctx, w, r, req, timeout, log)
		return
	}

	res := s.svc.Stream(ctx, req.Prompt, req.Model, timeout, nil)
	if r.Context().Err() != nil {
		return
	}
	if !res.OK() {
		status := runStatusCode(res)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("queue")
		}
		writeRunError(w, status, res)
		log.end(status, res.Error)
		return
	}
	s.remember(req.Prompt, res.Content)
	writeJSON(w, http.StatusOK, queryResponse(res))
	log.end(http.StatusOK, "")
}

// streamQuery writes each output line as {"line": ...} NDJSON followed by a
// final QueryResponse line. The status code is sent with the first line, so
// a run that fails before producing output still gets a JSON error response.
func (s *server) streamQuery(ctx context.Context, w http.ResponseWriter, r *http.Request, req types.QueryRequest, timeout time.Duration, log requestLogger) {
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	started := false
	begin := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
	}

	res := s.svc.Stream(ctx, req.Prompt, req.Model, timeout, func(line string) error {
		begin()
		log.line(line)
		if err := enc.Encode(types.QueryLine{Line: line}); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if r.Context().Err() != nil {
		return
	}
	if !started && !res.OK() {
		status := runStatusCode(res)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("queue")
		}
		writeRunError(w, status, res)
		log.end(status, res.Error)
		return
	}
	begin()
	if res.OK() {
		s.remember(req.Prompt, res.Content)
	}
	_ = enc.Encode(queryResponse(res))
	if flusher != nil {
		flusher.Flush()
	}
	log.end(http.StatusOK, res.Error)
}

func (s *server) remember(prompt, response string) {
	if s.mem != nil {
		s.mem.Add(prompt, response)
	}
}

func queryResponse(res manager.Result) types.QueryResponse {
	return types.QueryResponse{
		Content:   res.Content,
		Model:     res.Model,
		ModelTag:  res.ModelTag,
		Status:    string(res.Status),
		Error:     res.Error,
		Timestamp: now(),
	}
}
