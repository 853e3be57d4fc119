package converter

import (
	"time"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
)

func patientProfileResponse(profile *entity.PatientProfile) dto.PatientProfileResponse {
	response := dto.PatientProfileResponse{
		Phone:          profile.Phone,
		Address:        profile.Address,
		Age:            profile.Age(time.Now()),
		Gender:         profile.Gender,
		BloodType:      profile.BloodType,
		Allergies:      profile.Allergies,
		MedicalHistory: profile.MedicalHistory,
		IsApproved:     profile.IsApproved,
		IsBlocked:      profile.IsBlocked,
	}
	if profile.DateOfBirth != nil {
		dob := profile.DateOfBirth.Format("2006-01-02")
		response.DateOfBirth = &dob
	}
	return response
}

// PatientProfileToResponse converts a PatientProfile entity (with User loaded) to PatientResponse DTO
func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:                     profile.UserID,
		Username:               profile.User.Username,
		Email:                  profile.User.Email,
		FirstName:              profile.User.FirstName,
		LastName:               profile.User.LastName,
		FullName:               profile.User.FullName(),
		IsActive:               profile.User.Active(),
		PatientProfileResponse: patientProfileResponse(profile),
		CreatedAt:              profile.User.CreatedAt,
	}
}

func PatientProfilesToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PatientProfileToResponse(&profiles[i])
	}
	return responses
}
