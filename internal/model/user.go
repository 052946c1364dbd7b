package model

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// RoleAdmin is the privileged userType. Any other value is non-privileged.
const RoleAdmin = "0"

// User is an admin_user credential record.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:255;not null"`
	LastName  string    `json:"lastName" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex:idx_admin_user_email_live;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never serialized
	UserType  string    `json:"userType" gorm:"size:8;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// DeletedAt is 0 for live rows, so (email, deleted_at) is unique among
	// live users while deleted rows keep their email.
	DeletedAt soft_delete.DeletedAt `json:"deletedAt,omitempty" gorm:"uniqueIndex:idx_admin_user_email_live;softDelete:milli;not null;default:0"`
}

// TableName keeps the historical table name.
func (User) TableName() string {
	return "admin_user"
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u.UserType == RoleAdmin
}
