package handler

import (
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"
)

// DoctorHandler serves the signed-in doctor's own resources.
type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.doctorUsecase.GetProfile(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get doctor profile")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile retrieved successfully", profile)
}

func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDoctorProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.doctorUsecase.UpdateProfile(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to update doctor profile")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile updated successfully", profile)
}

func (h *DoctorHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.doctorUsecase.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get dashboard stats")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *DoctorHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.doctorUsecase.ListPatients(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
