package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Capability identifies a feature area gated per user. Admins pass
// every capability check regardless of their flags.
type Capability int

const (
	CapabilityDirectMail Capability = iota
	CapabilityEmailConfig
	CapabilityAccountManagement
)

func (c Capability) String() string {
	switch c {
	case CapabilityDirectMail:
		return "direct_mail"
	case CapabilityEmailConfig:
		return "email_config"
	case CapabilityAccountManagement:
		return "account_management"
	}
	return "unknown"
}

// User represents a user account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Account status and role
	Role     string `gorm:"default:'user'" json:"role"` // admin, user
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Feature capability flags, independent of role
	CanAccessDirectMail  bool `gorm:"default:true" json:"can_access_direct_mail"`
	CanAccessEmailConfig bool `gorm:"default:true" json:"can_access_email_config"`

	// Password reset (single use)
	ResetToken          *string    `gorm:"index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relations
	Clients      []Client      `gorm:"foreignKey:OwnerID" json:"clients,omitempty"`
	Campaigns    []Campaign    `gorm:"foreignKey:OwnerID" json:"campaigns,omitempty"`
	EmailConfigs []EmailConfig `gorm:"foreignKey:OwnerID" json:"email_configs,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission decides whether the user may use a feature area.
// Account management is reserved to admins; unknown capabilities are
// denied.
func (u *User) HasPermission(cap Capability) bool {
	if u.IsAdmin() {
		return true
	}
	switch cap {
	case CapabilityDirectMail:
		return u.CanAccessDirectMail
	case CapabilityEmailConfig:
		return u.CanAccessEmailConfig
	case CapabilityAccountManagement:
		return false
	}
	return false
}

// Sanitize clears credential material before the user is serialized.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
}
