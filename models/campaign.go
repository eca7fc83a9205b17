package models

import "gorm.io/gorm"

// Campaign channels
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// Campaign send statuses
const (
	SendStatusPending = "pending"
	SendStatusSent    = "sent"
	SendStatusFailed  = "failed"
)

// Campaign represents a direct-mail message template
type Campaign struct {
	gorm.Model
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	Name    string `gorm:"not null" json:"name"`
	Channel string `gorm:"not null;default:'email'" json:"channel"` // email, whatsapp
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// Relations
	Attachments []CampaignAttachment `gorm:"foreignKey:CampaignID" json:"attachments,omitempty"`
	Sends       []CampaignSend       `gorm:"foreignKey:CampaignID" json:"sends,omitempty"`
}

// CampaignAttachment holds file metadata attached to a campaign
type CampaignAttachment struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`

	FileName    string `gorm:"not null" json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// CampaignSend records a per-recipient delivery request. Rows are
// created in pending state when a send is requested; dispatch itself
// is handled outside this service.
type CampaignSend struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	ClientID   uint `gorm:"not null;index" json:"client_id"`

	Status string  `gorm:"default:'pending'" json:"status"` // pending, sent, failed
	Error  *string `json:"error,omitempty"`
}
