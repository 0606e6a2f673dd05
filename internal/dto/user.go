package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
)

// UpsertUserRequest defines the profile fields a user may set on themselves.
// Changing the reporting currency never rewrites recorded transaction amounts.
type UpsertUserRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=100"`
	ReportingCurrency string `json:"reportingCurrency" binding:"required,currency"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID            string    `json:"userID"`
	Name              string    `json:"name"`
	ReportingCurrency string    `json:"reportingCurrency"`
	CreatedAt         time.Time `json:"createdAt"`
	LastUpdatedAt     time.Time `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:            user.UserID,
		Name:              user.Name,
		ReportingCurrency: user.ReportingCurrency,
		CreatedAt:         user.CreatedAt,
		LastUpdatedAt:     user.LastUpdatedAt,
	}
}
