package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"maladireta/models"
)

// ClientStore performs owner-scoped reads and writes of clients.
type ClientStore struct {
	DB *gorm.DB
}

// clientSearchFields are matched with OR semantics by List when a
// search term is given.
var clientSearchFields = []string{
	"name", "email", "tax_id", "mobile_phone", "landline_phone", "city", "business_area",
}

// List returns all clients for ownerID, newest first. A non-empty
// search narrows the result to rows where any searchable field
// contains the term, case-insensitively.
func (s *ClientStore) List(ownerID uint, search string) ([]models.Client, error) {
	query := s.DB.Where("owner_id = ?", ownerID)

	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		var conds []string
		var args []interface{}
		for _, field := range clientSearchFields {
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, term)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	var clients []models.Client
	if err := query.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Get returns the client only if both the id and the owner match.
func (s *ClientStore) Get(id, ownerID uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Create inserts the client with the owner forced from the
// authenticated context.
func (s *ClientStore) Create(ownerID uint, client *models.Client) error {
	client.OwnerID = ownerID
	return s.DB.Create(client).Error
}

// Update persists the client after the caller has applied changes to a
// row obtained through Get, keeping the same scoping. If the row was
// deleted in between, ErrNotFound is returned instead of silently
// writing nothing.
func (s *ClientStore) Update(client *models.Client) error {
	result := s.DB.Save(client)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the client when id and owner match; a non-matching id
// is reported as ErrNotFound.
func (s *ClientStore) Delete(id, ownerID uint) error {
	result := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
