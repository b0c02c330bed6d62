package check_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	getOpenSlots "github.com/mesterhub/MH-SchedulingService/internal/usecase/get_open_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateTooFar            = "дата слишком далеко в будущем"
	msgInvalidInput          = "некорректные параметры поиска слотов"
)

type Handler struct {
	useCase GetOpenSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetOpenSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/{professionalId}/check
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /availability/{id}/check - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/{id}/check - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(professionalID)
	if err != nil {
		h.logger.Warn("POST /availability/{id}/check - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getOpenSlots.ErrDateTooFarInFuture):
			h.logger.Warn("POST /availability/{id}/check - Date too far in future: professional_id=%d, date=%s",
				professionalID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getOpenSlots.ErrInvalidInput):
			h.logger.Warn("POST /availability/{id}/check - Invalid input: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /availability/{id}/check - Failed to get slots: professional_id=%d, date=%s, error=%v",
				professionalID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /availability/{id}/check - Slots retrieved successfully: professional_id=%d, date=%s, slots_count=%d",
		professionalID, req.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
