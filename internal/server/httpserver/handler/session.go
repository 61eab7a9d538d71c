package handler

import "net/http"

// handleCreateSession handles POST /session.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Create(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, CreateSessionResponse{SessionID: session.ID})
}

// handleGetSession handles GET /session/{id}.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.Session(r.Context(), r.Header.Get("Authorization"), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionToResponse(session))
}
