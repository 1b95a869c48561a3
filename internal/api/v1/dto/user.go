package dto

import (
	"time"

	"handled/internal/model"
)

// UserResponseDTO is returned by GET /users/me.
type UserResponseDTO struct {
	UserID           string                 `json:"user_id"`
	Email            string                 `json:"email"`
	DisplayName      string                 `json:"display_name"`
	SubscriptionTier model.SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// UserToDTO maps a user model to its response shape.
func UserToDTO(u *model.User) UserResponseDTO {
	return UserResponseDTO{
		UserID:           u.UserID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		SubscriptionTier: u.SubscriptionTier,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
