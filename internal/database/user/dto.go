package user

import (
	"github.com/studyhub/studyhub-backend/internal/model"
)

type userDTO struct {
	ID           int64
	FullName     string
	Email        string
	Photo        string
	Admin        bool
	DeviceTokens []string
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID:           dto.ID,
		FullName:     dto.FullName,
		Email:        dto.Email,
		Photo:        dto.Photo,
		Admin:        dto.Admin,
		DeviceTokens: dto.DeviceTokens,
	}
}
