package handler

import (
	"net/http"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
	"medical-clinic-api/pkg/validator"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, validator *validator.CustomValidator) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

func unreadOnly(r *http.Request) bool {
	unread := queryBool(r, "unread")
	return unread != nil && *unread
}

// List handles the admin notification listing
// @Summary List notifications
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param user_id query string false "Recipient user ID"
// @Success 200 {object} response.Response
// @Router /admin-api/notifications/ [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUUID(r, "user_id")
	if !ok {
		response.FieldError(w, "user_id", "must be a valid UUID")
		return
	}
	page, limit := pageParams(r)

	filter := &entity.NotificationFilter{UserID: userID, UnreadOnly: unreadOnly(r)}
	notifications, total, err := h.notificationUsecase.List(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get notifications")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Notifications retrieved successfully", notifications, newMeta(page, limit, total))
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "notification")
	if !ok {
		return
	}

	notification, err := h.notificationUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification retrieved successfully", notification)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create notification")
		return
	}

	response.Success(w, http.StatusCreated, "Notification created successfully", notification)
}

func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "notification")
	if !ok {
		return
	}

	var req dto.UpdateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification updated successfully", notification)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification deleted successfully", nil)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkRead(r.Context(), id); err != nil {
		writeError(w, err, "Failed to mark notification read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	notifications, total, err := h.notificationUsecase.ListMine(r.Context(), unreadOnly(r), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get notifications")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Notifications retrieved successfully", notifications, newMeta(page, limit, total))
}

func (h *NotificationHandler) MarkMineRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkMineRead(r.Context(), id); err != nil {
		writeError(w, err, "Failed to mark notification read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}
