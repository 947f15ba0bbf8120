package http

import (
	"log/slog"
	"net/http"

	"github.com/shopverse/storefront/internal/service"
	"github.com/shopverse/storefront/pkg/httputil"
	"github.com/shopverse/storefront/pkg/validator"
)

// AssistantHandler handles HTTP requests for the shopping assistant.
type AssistantHandler struct {
	service *service.AssistantService
	logger  *slog.Logger
}

// NewAssistantHandler creates a new assistant HTTP handler.
func NewAssistantHandler(svc *service.AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: svc,
		logger:  logger,
	}
}

// ChatRequest is the JSON request body for a chat message.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// Chat handles POST /api/v1/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reply})
}
