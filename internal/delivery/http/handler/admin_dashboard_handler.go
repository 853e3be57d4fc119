package handler

import (
	"net/http"

	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
)

type AdminDashboardHandler struct {
	dashboardUsecase usecase.AdminDashboardUsecase
}

func NewAdminDashboardHandler(dashboardUsecase usecase.AdminDashboardUsecase) *AdminDashboardHandler {
	return &AdminDashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

func (h *AdminDashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardUsecase.Stats(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get dashboard stats")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
