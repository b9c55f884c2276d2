package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. Permission checks go through the
// capability methods below instead of comparing strings at call sites.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants full administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanModerate reports whether the role may edit or delete content owned by
// other users (reviews and comments).
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Role      Role      `gorm:"size:50;default:'user';not null" json:"role"`
	IsStaff   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID and default role before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// EffectiveRole is the role used in permission checks. Staff accounts act as
// admin regardless of the stored role value.
func (user *User) EffectiveRole() Role {
	if user.IsStaff {
		return RoleAdmin
	}
	return user.Role
}

func (User) TableName() string {
	return "users"
}
