package list_hostels

import (
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
)

type Handler struct {
	service HostelService
	logger  Logger
}

func NewHandler(service HostelService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hostels
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /hostels - Failed to list hostels: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
