package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// Header names shared with clients.
const (
	HeaderSessionID = "X-Session-ID"
	HeaderRequestID = "X-Request-ID"
	HeaderErrorCode = "X-Error-Code"
)

// maxBodyBytes caps request bodies read by the handlers.
const maxBodyBytes = 1 << 20

// Handler is the main HTTP handler that routes requests to the endpoint handlers.
type Handler struct {
	tokenSvc   *service.TokenService
	sessionSvc *service.SessionService
	chatSvc    *service.ChatService
	mux        *http.ServeMux
}

// New creates a new Handler with the given services.
func New(tokenSvc *service.TokenService, sessionSvc *service.SessionService, chatSvc *service.ChatService) *Handler {
	h := &Handler{
		tokenSvc:   tokenSvc,
		sessionSvc: sessionSvc,
		chatSvc:    chatSvc,
		mux:        http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Handle registers an additional route, such as the metrics endpoint.
func (h *Handler) Handle(pattern string, handler http.Handler) {
	h.mux.Handle(pattern, handler)
}

// Route returns the pattern that would serve r, or "" when nothing matches.
// It is used as a low-cardinality metrics label.
func (h *Handler) Route(r *http.Request) string {
	_, pattern := h.mux.Handler(r)
	return pattern
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /auth", h.handleIssueToken)

	h.mux.HandleFunc("POST /session", h.handleCreateSession)
	h.mux.HandleFunc("GET /session/{id}", h.handleGetSession)

	h.mux.HandleFunc("POST /chat", h.handleChat)
}

// writeJSON encodes data and writes it with the given status.
// Encoding happens before the header is written so a marshal failure
// can still become a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
		WriteError(w, http.StatusInternalServerError, domain.ErrInternalServer.Code, MsgInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteError writes the {"error": message} body used for every failure.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code != "" {
		w.Header().Set(HeaderErrorCode, code)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// handleServiceError converts service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.GetErrorCode(err)
	if m, ok := errorMappings[code]; ok {
		WriteError(w, m.status, code, m.message)
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	WriteError(w, http.StatusInternalServerError, domain.ErrInternalServer.Code, MsgInternal)
}

// Client-facing error messages.
const (
	MsgAuthHeader      = "Missing or invalid Authorization header"
	MsgInvalidToken    = "Invalid or expired token"
	MsgMissingFields   = "Missing required fields: input and role"
	MsgSessionNotFound = "Session not found"
	MsgTooManyRequests = "Too many requests"
	MsgInternal        = "Internal server error"
)

type errorMapping struct {
	status  int
	message string
}

// errorMappings maps domain error codes to a status and message.
// Missing and expired tokens share one message; only X-Error-Code differs.
var errorMappings = map[string]errorMapping{
	domain.ErrAuthHeaderInvalid.Code: {http.StatusUnauthorized, MsgAuthHeader},
	domain.ErrTokenInvalid.Code:      {http.StatusUnauthorized, MsgInvalidToken},
	domain.ErrTokenExpired.Code:      {http.StatusUnauthorized, MsgInvalidToken},
	domain.ErrMissingFields.Code:     {http.StatusBadRequest, MsgMissingFields},
	domain.ErrSessionNotFound.Code:   {http.StatusNotFound, MsgSessionNotFound},
	domain.ErrRateLimited.Code:       {http.StatusTooManyRequests, MsgTooManyRequests},
}
