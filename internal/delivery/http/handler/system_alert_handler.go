package handler

import (
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"
)

type SystemAlertHandler struct {
	alertUsecase usecase.SystemAlertUsecase
	validator    *validator.CustomValidator
}

func NewSystemAlertHandler(alertUsecase usecase.SystemAlertUsecase, validator *validator.CustomValidator) *SystemAlertHandler {
	return &SystemAlertHandler{
		alertUsecase: alertUsecase,
		validator:    validator,
	}
}

func (h *SystemAlertHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if active := queryBool(r, "active"); active != nil {
		activeOnly = *active
	}

	alerts, err := h.alertUsecase.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err, "Failed to get system alerts")
		return
	}

	response.Success(w, http.StatusOK, "System alerts retrieved successfully", alerts)
}

// Live returns the alerts every signed-in user should see.
func (h *SystemAlertHandler) Live(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertUsecase.Live(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get system alerts")
		return
	}

	response.Success(w, http.StatusOK, "System alerts retrieved successfully", alerts)
}

func (h *SystemAlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "system alert")
	if !ok {
		return
	}

	alert, err := h.alertUsecase.Get(r.Context(), int(id))
	if err != nil {
		writeError(w, err, "Failed to get system alert")
		return
	}

	response.Success(w, http.StatusOK, "System alert retrieved successfully", alert)
}

func (h *SystemAlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SystemAlertRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	alert, err := h.alertUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create system alert")
		return
	}

	response.Success(w, http.StatusCreated, "System alert created successfully", alert)
}

func (h *SystemAlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "system alert")
	if !ok {
		return
	}

	var req dto.UpdateSystemAlertRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	alert, err := h.alertUsecase.Update(r.Context(), int(id), &req)
	if err != nil {
		writeError(w, err, "Failed to update system alert")
		return
	}

	response.Success(w, http.StatusOK, "System alert updated successfully", alert)
}

func (h *SystemAlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "system alert")
	if !ok {
		return
	}

	if err := h.alertUsecase.Delete(r.Context(), int(id)); err != nil {
		writeError(w, err, "Failed to delete system alert")
		return
	}

	response.Success(w, http.StatusOK, "System alert deleted successfully", nil)
}
