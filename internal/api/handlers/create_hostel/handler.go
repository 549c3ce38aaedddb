package create_hostel

import (
	"errors"
	"net/http"

	"github.com/m04kA/LaundryBookingService/internal/api/handlers"
	"github.com/m04kA/LaundryBookingService/internal/service/hostels"
	"github.com/m04kA/LaundryBookingService/internal/service/hostels/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidName        = "некорректное название общежития"
	msgDuplicateName      = "общежитие с таким названием уже существует"
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

// Handle POST /api/v1/hostels
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHostelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hostels - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, hostels.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidName)

		case errors.Is(err, hostels.ErrDuplicateName):
			handlers.RespondError(w, http.StatusConflict, msgDuplicateName)

		default:
			h.logger.Error("POST /hostels - Failed to create hostel: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /hostels - Hostel created: hostel_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
