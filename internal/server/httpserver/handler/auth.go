package handler

import "net/http"

// handleIssueToken handles POST /auth.
func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.tokenSvc.Issue(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, IssueTokenResponse{
		Token: tok.ID,
		TTL:   tok.TTLSeconds(),
	})
}
