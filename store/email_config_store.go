package store

import (
	"errors"

	"gorm.io/gorm"

	"maladireta/models"
)

// EmailConfigStore performs owner-scoped reads and writes of SMTP
// configurations and enforces the single-active-configuration rule.
type EmailConfigStore struct {
	DB *gorm.DB
}

// List returns all configurations for ownerID, newest first.
func (s *EmailConfigStore) List(ownerID uint) ([]models.EmailConfig, error) {
	var configs []models.EmailConfig
	if err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Get returns the configuration only if both the id and the owner match.
func (s *EmailConfigStore) Get(id, ownerID uint) (*models.EmailConfig, error) {
	var config models.EmailConfig
	if err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// GetActive returns the single active configuration for ownerID.
func (s *EmailConfigStore) GetActive(ownerID uint) (*models.EmailConfig, error) {
	var config models.EmailConfig
	if err := s.DB.Where("owner_id = ? AND is_active = ?", ownerID, true).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// Create inserts the configuration with the owner forced from the
// authenticated context. When the new configuration is active, all
// previously active ones for the owner are deactivated in the same
// transaction, so a concurrent reader never observes zero or two
// active rows.
func (s *EmailConfigStore) Create(ownerID uint, config *models.EmailConfig) error {
	config.OwnerID = ownerID
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if config.IsActive {
			if err := deactivateConfigs(tx, ownerID); err != nil {
				return err
			}
		}
		return tx.Create(config).Error
	})
}

// Update persists a configuration previously loaded through Get,
// applying the same single-active rule when it is being activated.
func (s *EmailConfigStore) Update(config *models.EmailConfig) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if config.IsActive {
			if err := deactivateConfigs(tx, config.OwnerID); err != nil {
				return err
			}
		}
		result := tx.Save(config)
		if result.Error != nil {
			return result.Error
		}
		// Rolls back the deactivation when the row is gone
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes the configuration when id and owner match.
func (s *EmailConfigStore) Delete(id, ownerID uint) error {
	result := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.EmailConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deactivateConfigs(tx *gorm.DB, ownerID uint) error {
	return tx.Model(&models.EmailConfig{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Update("is_active", false).Error
}
