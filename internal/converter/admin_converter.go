package converter

import (
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
)

func SpecialtyToResponse(specialty *entity.Specialty) *dto.SpecialtyResponse {
	if specialty == nil {
		return nil
	}

	return &dto.SpecialtyResponse{
		ID:          specialty.ID,
		Name:        specialty.Name,
		Description: specialty.Description,
		CreatedAt:   specialty.CreatedAt,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = *SpecialtyToResponse(&specialties[i])
	}
	return responses
}

func SystemAlertToResponse(alert *entity.SystemAlert) *dto.SystemAlertResponse {
	if alert == nil {
		return nil
	}

	return &dto.SystemAlertResponse{
		ID:        alert.ID,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  alert.Severity,
		IsActive:  alert.IsActive,
		ExpiresAt: alert.ExpiresAt,
		CreatedAt: alert.CreatedAt,
		UpdatedAt: alert.UpdatedAt,
	}
}

func SystemAlertsToResponses(alerts []entity.SystemAlert) []dto.SystemAlertResponse {
	responses := make([]dto.SystemAlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = *SystemAlertToResponse(&alerts[i])
	}
	return responses
}

func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	if notification == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}

// ActivityLogToResponse converts an ActivityLog entity to ActivityLogResponse DTO
func ActivityLogToResponse(log *entity.ActivityLog) *dto.ActivityLogResponse {
	if log == nil {
		return nil
	}

	response := &dto.ActivityLogResponse{
		ID:          log.ID,
		PerformedBy: log.PerformedBy,
		Action:      log.Action,
		Entity:      log.Entity,
		EntityID:    log.EntityID,
		Metadata:    log.Metadata,
		CreatedAt:   log.CreatedAt,
	}
	if log.User != nil {
		response.Username = log.User.Username
		response.Role = log.User.Role.RoleName
	}
	return response
}

// ActivityLogsToResponses converts a slice of ActivityLog entities to slice of ActivityLogResponse DTOs
func ActivityLogsToResponses(logs []entity.ActivityLog) []dto.ActivityLogResponse {
	responses := make([]dto.ActivityLogResponse, len(logs))
	for i := range logs {
		responses[i] = *ActivityLogToResponse(&logs[i])
	}
	return responses
}
