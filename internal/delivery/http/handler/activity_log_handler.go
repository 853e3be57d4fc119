package handler

import (
	"net/http"

	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
)

type ActivityLogHandler struct {
	activityLogUsecase usecase.ActivityLogUsecase
}

func NewActivityLogHandler(activityLogUsecase usecase.ActivityLogUsecase) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityLogUsecase: activityLogUsecase,
	}
}

func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	logs, total, err := h.activityLogUsecase.List(r.Context(), r.URL.Query().Get("action"), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get activity logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Activity logs retrieved successfully", logs, newMeta(page, limit, total))
}

func (h *ActivityLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "activity log")
	if !ok {
		return
	}

	log, err := h.activityLogUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get activity log")
		return
	}

	response.Success(w, http.StatusOK, "Activity log retrieved successfully", log)
}

func (h *ActivityLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "activity log")
	if !ok {
		return
	}

	if err := h.activityLogUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete activity log")
		return
	}

	response.Success(w, http.StatusOK, "Activity log deleted successfully", nil)
}
