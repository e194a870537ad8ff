package dto

import (
	"github.com/norte-express/fleet-api/internal/models"
)

// CreateUserRequest captures the payload for registering a user. AdminID is
// set when an administrator creates the account on someone's behalf; the new
// account then becomes an admin account itself.
type CreateUserRequest struct {
	FirstName         string  `json:"first_name" validate:"required,min=1"`
	LastName          string  `json:"last_name" validate:"required,min=1"`
	DocumentType      string  `json:"document_type" validate:"required,oneof=DNI RUC PASSPORT"`
	DocumentNumber    string  `json:"document_number" validate:"required,min=5,max=11"`
	PhoneNumber       string  `json:"phone_number" validate:"required,len=9,numeric"`
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	AdminID           string  `json:"admin_id" validate:"omitempty,uuid4"`
}

// UpdateUserRequest captures partial profile updates.
type UpdateUserRequest struct {
	FirstName         *string `json:"first_name" validate:"omitempty,min=1"`
	LastName          *string `json:"last_name" validate:"omitempty,min=1"`
	DocumentType      *string `json:"document_type" validate:"omitempty,oneof=DNI RUC PASSPORT"`
	DocumentNumber    *string `json:"document_number" validate:"omitempty,min=5,max=11"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,len=9,numeric"`
	Email             *string `json:"email" validate:"omitempty,email"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateUserRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.DocumentType == nil &&
		r.DocumentNumber == nil && r.PhoneNumber == nil && r.Email == nil &&
		r.ProfilePictureURL == nil
}

// UpdatePasswordRequest captures a password change.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=8"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// LoginRequest captures login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse serializes user data. The password hash is never exposed.
type UserResponse struct {
	ID                string  `json:"id"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	DocumentType      string  `json:"document_type"`
	DocumentNumber    string  `json:"document_number"`
	PhoneNumber       string  `json:"phone_number"`
	Email             string  `json:"email"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	UserType          string  `json:"user_type"`
	CreatedAt         int64   `json:"created_at"`
	UpdatedAt         *int64  `json:"updated_at"`
}

// LoginResponse bundles the issued token with the authenticated profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		DocumentType:      user.DocumentType,
		DocumentNumber:    user.DocumentNumber,
		PhoneNumber:       user.PhoneNumber,
		Email:             user.Email,
		ProfilePictureURL: user.ProfilePictureURL,
		UserType:          user.UserType,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}
