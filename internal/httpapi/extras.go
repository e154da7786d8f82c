package httpapi

import (
	"net/http"
	"strings"

	"mopra/pkg/types"
)

func (s *server) handleOnlineSearch(w http.ResponseWriter, r *http.Request) {
	var req types.OnlineSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	req.AIPlatform = strings.ToLower(strings.TrimSpace(req.AIPlatform))
	if !validRequest(w, &req) {
		return
	}
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	content, err := s.search.Query(ctx, req.AIPlatform, req.Query)
	if err != nil {
		status := remoteStatusCode(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("remote")
		}
		zlog.Warn().Str("platform", req.AIPlatform).Int("status", status).Err(err).Msg("online search failed")
		writeJSON(w, status, types.ErrorResponse{Error: err.Error(), Code: status, Status: "error", Timestamp: now()})
		return
	}
	writeJSON(w, http.StatusOK, types.OnlineSearchResponse{
		Status:     "success",
		Content:    content,
		AIPlatform: req.AIPlatform,
		Timestamp:  now(),
	})
}

func (s *server) handleMemory(w http.ResponseWriter, r *http.Request) {
	entries := s.mem.Entries()
	out := make([]types.MemoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.MemoryEntry{ID: e.ID, Prompt: e.Prompt, Response: e.Response, Timestamp: e.Timestamp})
	}
	writeJSON(w, http.StatusOK, types.MemoryResponse{Status: "success", Memory: out, Timestamp: now()})
}

func (s *server) handleMemoryClear(w http.ResponseWriter, r *http.Request) {
	n := s.mem.Clear()
	zlog.Info().Int("count", n).Msg("memory cleared")
	writeJSON(w, http.StatusOK, types.MessageResponse{Status: "success", Message: "Memory cleared successfully", Timestamp: now()})
}
