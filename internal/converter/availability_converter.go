package converter

import (
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
)

// AvailabilityToResponse renders stored time columns as HH:MM
func AvailabilityToResponse(slot *entity.DoctorAvailability) *dto.AvailabilityResponse {
	if slot == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		Day:       slot.Day,
		StartTime: entity.FormatClock(slot.StartTime),
		EndTime:   entity.FormatClock(slot.EndTime),
	}
}

func AvailabilitiesToResponses(slots []entity.DoctorAvailability) []dto.AvailabilityResponse {
	if len(slots) == 0 {
		return nil
	}
	responses := make([]dto.AvailabilityResponse, len(slots))
	for i := range slots {
		responses[i] = *AvailabilityToResponse(&slots[i])
	}
	return responses
}
