package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// handleChat handles POST /chat.
//
// The body is decoded leniently: a malformed or absent body leaves both
// fields empty, so authentication is still checked first and the request
// then fails with the missing-fields error.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.L(r.Context()).Debug("chat body not decoded", "error", err)
		req = ChatRequest{}
	}

	result, err := h.chatSvc.Turn(r.Context(), &service.ChatTurnRequest{
		Authorization: r.Header.Get("Authorization"),
		SessionID:     r.Header.Get(HeaderSessionID),
		Input:         req.Input,
		Role:          req.Role,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if result.SessionCreated {
		w.Header().Set(HeaderSessionID, result.SessionID)
	}
	writeJSON(w, r, http.StatusOK, result.Body())
}
