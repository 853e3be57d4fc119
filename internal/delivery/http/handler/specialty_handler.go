package handler

import (
	"errors"
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"
)

type SpecialtyHandler struct {
	specialtyUsecase usecase.SpecialtyUsecase
	validator        *validator.CustomValidator
}

func NewSpecialtyHandler(specialtyUsecase usecase.SpecialtyUsecase, validator *validator.CustomValidator) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyUsecase: specialtyUsecase,
		validator:        validator,
	}
}

func (h *SpecialtyHandler) List(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.specialtyUsecase.List(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *SpecialtyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "specialty")
	if !ok {
		return
	}

	specialty, err := h.specialtyUsecase.Get(r.Context(), int(id))
	if err != nil {
		h.writeError(w, err, "Failed to get specialty")
		return
	}

	response.Success(w, http.StatusOK, "Specialty retrieved successfully", specialty)
}

func (h *SpecialtyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecialtyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.specialtyUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create specialty")
		return
	}

	response.Success(w, http.StatusCreated, "Specialty created successfully", specialty)
}

func (h *SpecialtyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "specialty")
	if !ok {
		return
	}

	var req dto.SpecialtyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.specialtyUsecase.Update(r.Context(), int(id), &req)
	if err != nil {
		h.writeError(w, err, "Failed to update specialty")
		return
	}

	response.Success(w, http.StatusOK, "Specialty updated successfully", specialty)
}

func (h *SpecialtyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "specialty")
	if !ok {
		return
	}

	if err := h.specialtyUsecase.Delete(r.Context(), int(id)); err != nil {
		h.writeError(w, err, "Failed to delete specialty")
		return
	}

	response.Success(w, http.StatusOK, "Specialty deleted successfully", nil)
}

// writeError reports a missing specialty addressed by path as 404 rather than a field error.
func (h *SpecialtyHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrSpecialtyNotFound) {
		response.NotFound(w, "Specialty not found")
		return
	}
	writeError(w, err, fallback)
}
