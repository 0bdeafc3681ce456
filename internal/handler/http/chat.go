package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/service"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/httputil"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/validator"
)

// ChatHandler handles HTTP requests for the chat widget endpoints.
type ChatHandler struct {
	service *service.ChatService
	logger  *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(svc *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  logger,
	}
}

// SendMessageRequest is the JSON request body for a chat message.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// SendMessage handles POST /api/v1/chat/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	reply, err := h.service.Send(r.Context(), sessionID, req.Text)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reply})
}

// GetTranscript handles GET /api/v1/chat/transcript
func (h *ChatHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	transcript, err := h.service.Transcript(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: transcript})
}
