package httpapi

import (
	"net/http"
	"strings"

	"mopra/internal/manager"
	"mopra/pkg/types"
)

func (s *server) handleOptimizeRAM(w http.ResponseWriter, r *http.Request) {
	var req types.OptimizeRAMRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CurrentModel = strings.TrimSpace(req.CurrentModel)
	if !validRequest(w, &req) {
		return
	}
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	n := s.svc.OptimizeRAM(ctx, req.CurrentModel)
	writeJSON(w, http.StatusOK, types.TerminateResponse{
		Status:       "success",
		Terminated:   n,
		CurrentModel: &req.CurrentModel,
		Timestamp:    now(),
	})
}

// handleStopAll takes no body.
func (s *server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	n := s.svc.StopAll(ctx)
	writeJSON(w, http.StatusOK, types.TerminateResponse{
		Status:     "success",
		Terminated: n,
		Timestamp:  now(),
	})
}

func (s *server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req types.SwitchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Model = strings.TrimSpace(req.Model)
	if !validRequest(w, &req) {
		return
	}
	op, err := s.svc.Switch(r.Context(), req.Model)
	if err != nil {
		status := http.StatusInternalServerError
		if manager.IsModelNotFound(err) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, err.Error())
		return
	}
	model := req.Model
	if model == "" {
		model = s.svc.DefaultModel()
	}
	writeJSON(w, http.StatusAccepted, types.SwitchResponse{OpID: op, Model: model, Timestamp: now()})
}

func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.svc.ListModels(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	if models == nil {
		models = []types.Model{}
	}
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: models})
}
