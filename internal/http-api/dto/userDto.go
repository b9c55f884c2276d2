package dto

import "reviewhub/internal/http-api/models"

// CreateUserDTO used for POST /api/v1/users (admin)
type CreateUserDTO struct {
	Username  string `json:"username" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserDTO used for PATCH requests (partial updates allowed)
type UpdateUserDTO struct {
	Username  *string `json:"username,omitempty" binding:"omitempty,max=50"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// Converters
func (d CreateUserDTO) ToModel() models.User {
	return models.User{
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
		Role:      models.Role(d.Role),
	}
}

// ApplyTo copies only the provided fields onto the model. Role handling is
// the service's job: self-updates discard it, admin updates apply it.
func (d UpdateUserDTO) ApplyTo(u *models.User) {
	if d.Username != nil {
		u.Username = *d.Username
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.FirstName != nil {
		u.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		u.LastName = *d.LastName
	}
	if d.Bio != nil {
		u.Bio = *d.Bio
	}
	if d.Role != nil {
		u.Role = models.Role(*d.Role)
	}
}

func FromUserModel(u models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      string(u.Role),
	}
}
