package converter

import (
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
)

func doctorProfileResponse(profile *entity.DoctorProfile) dto.DoctorProfileResponse {
	return dto.DoctorProfileResponse{
		Specialization: profile.Specialization,
		SpecialtyID:    profile.SpecialtyID,
		Specialty:      SpecialtyToResponse(profile.Specialty),
		Phone:          profile.Phone,
		Bio:            profile.Bio,
		Address:        profile.Address,
		ImageURL:       profile.ImageURL,
		Rating:         profile.Rating,
		IsApproved:     profile.IsApproved,
		IsBlocked:      profile.IsBlocked,
	}
}

// DoctorProfileToResponse converts a DoctorProfile entity (with User loaded) to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                    profile.UserID,
		Username:              profile.User.Username,
		Email:                 profile.User.Email,
		FirstName:             profile.User.FirstName,
		LastName:              profile.User.LastName,
		FullName:              profile.User.FullName(),
		IsActive:              profile.User.Active(),
		DoctorProfileResponse: doctorProfileResponse(profile),
		Availabilities:        AvailabilitiesToResponses(profile.Availabilities),
		CreatedAt:             profile.User.CreatedAt,
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}
