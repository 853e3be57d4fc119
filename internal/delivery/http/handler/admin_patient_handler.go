package handler

import (
	"context"
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"

	"github.com/google/uuid"
)

type AdminPatientHandler struct {
	patientUsecase usecase.AdminPatientUsecase
	validator      *validator.CustomValidator
}

func NewAdminPatientHandler(patientUsecase usecase.AdminPatientUsecase, validator *validator.CustomValidator) *AdminPatientHandler {
	return &AdminPatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *AdminPatientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := &entity.PatientFilter{
		Name:       r.URL.Query().Get("name"),
		IsApproved: queryBool(r, "is_approved"),
		IsBlocked:  queryBool(r, "is_blocked"),
	}

	patients, total, err := h.patientUsecase.List(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, newMeta(page, limit, total))
}

func (h *AdminPatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *AdminPatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *AdminPatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *AdminPatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *AdminPatientHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.patientUsecase.Approve, "Patient approved successfully")
}

func (h *AdminPatientHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.patientUsecase.Block, "Patient blocked successfully")
}

func (h *AdminPatientHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.patientUsecase.Unblock, "Patient unblocked successfully")
}

func (h *AdminPatientHandler) moderate(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID) (*dto.PatientResponse, error), message string) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := action(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to update patient status")
		return
	}

	response.Success(w, http.StatusOK, message, patient)
}
