package handler

import (
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// Upsert creates the weekly window for a day or replaces the existing one
// @Summary Set availability for a weekday
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AvailabilityRequest true "Availability Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctor/availability/ [post]
func (h *AvailabilityHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.AvailabilityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slot, err := h.availabilityUsecase.Upsert(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to save availability")
		return
	}

	response.Success(w, http.StatusCreated, "Availability saved successfully", slot)
}

func (h *AvailabilityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	slots, err := h.availabilityUsecase.ListMine(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", slots)
}

func (h *AvailabilityHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	slots, err := h.availabilityUsecase.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", slots)
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "availability")
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slot, err := h.availabilityUsecase.Update(r.Context(), int(id), &req)
	if err != nil {
		writeError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", slot)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "availability")
	if !ok {
		return
	}

	if err := h.availabilityUsecase.Delete(r.Context(), int(id)); err != nil {
		writeError(w, err, "Failed to delete availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}
