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

type AdminDoctorHandler struct {
	doctorUsecase usecase.AdminDoctorUsecase
	validator     *validator.CustomValidator
}

func NewAdminDoctorHandler(doctorUsecase usecase.AdminDoctorUsecase, validator *validator.CustomValidator) *AdminDoctorHandler {
	return &AdminDoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

// List handles the admin doctor listing
// @Summary List doctors
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param name query string false "Name or username"
// @Param specialization query string false "Specialization"
// @Param specialty_id query int false "Specialty ID"
// @Param is_approved query bool false "Approval flag"
// @Param is_blocked query bool false "Block flag"
// @Success 200 {object} response.Response
// @Router /admin-api/doctors/ [get]
func (h *AdminDoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := &entity.DoctorFilter{
		Name:           r.URL.Query().Get("name"),
		Specialization: r.URL.Query().Get("specialization"),
		SpecialtyID:    queryInt(r, "specialty_id"),
		IsApproved:     queryBool(r, "is_approved"),
		IsBlocked:      queryBool(r, "is_blocked"),
	}

	doctors, total, err := h.doctorUsecase.List(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Doctors retrieved successfully", doctors, newMeta(page, limit, total))
}

func (h *AdminDoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *AdminDoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *AdminDoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *AdminDoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *AdminDoctorHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.doctorUsecase.Approve, "Doctor approved successfully")
}

func (h *AdminDoctorHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.doctorUsecase.Block, "Doctor blocked successfully")
}

func (h *AdminDoctorHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.doctorUsecase.Unblock, "Doctor unblocked successfully")
}

func (h *AdminDoctorHandler) moderate(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID) (*dto.DoctorResponse, error), message string) {
	id, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := action(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to update doctor status")
		return
	}

	response.Success(w, http.StatusOK, message, doctor)
}
