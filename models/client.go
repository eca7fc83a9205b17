package models

import "gorm.io/gorm"

// Client status (commercial classification, not account status)
const (
	ClientStatusPotential = "potential"
	ClientStatusActive    = "active"
	ClientStatusInactive  = "inactive"
)

// Client person types
const (
	PersonTypeIndividual = "individual"
	PersonTypeCompany    = "company"
)

// Client represents a contact/organization owned by exactly one user
type Client struct {
	gorm.Model
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	// Identity
	Name       string `gorm:"not null" json:"name"`
	PersonType string `gorm:"default:'company'" json:"person_type"` // individual, company
	TaxID      string `json:"tax_id"`

	// Contact
	Email         string `json:"email"`
	MobilePhone   string `json:"mobile_phone"`
	LandlinePhone string `json:"landline_phone"`
	Website       string `json:"website"`

	// Address
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`

	// Secondary contact person
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	// Commercial classification
	Status       string `gorm:"default:'potential'" json:"status"` // potential, active, inactive
	BusinessArea string `json:"business_area"`

	Notes string `json:"notes"`
}
