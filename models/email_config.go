package models

import "gorm.io/gorm"

// EmailConfig holds a user's outbound SMTP credentials. At most one
// configuration per owner may be active at a time; the store enforces
// this when creating or activating a configuration.
type EmailConfig struct {
	gorm.Model
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	Host     string `gorm:"not null" json:"host"`
	Port     int    `gorm:"not null;default:587" json:"port"`
	Secure   bool   `gorm:"default:true" json:"secure"`
	Username string `gorm:"not null" json:"username"`
	Password string `gorm:"not null" json:"-"`

	FromEmail string `gorm:"not null" json:"from_email"`
	FromName  string `json:"from_name"`

	IsActive bool `gorm:"default:false;index" json:"is_active"`
}

// Sanitize clears credential material before serialization.
func (e *EmailConfig) Sanitize() {
	e.Password = ""
}
