package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"maladireta/models"
)

// UserStore manages user accounts. Unlike the tenant-data stores,
// listing and administrative operations here are not owner-scoped:
// accounts themselves are not sub-tenant data.
type UserStore struct {
	DB *gorm.DB
}

// GetByID returns the user or ErrNotFound.
func (s *UserStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user or ErrNotFound.
func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user or ErrNotFound.
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns every account, newest first, optionally excluding one
// id (typically the caller's own).
func (s *UserStore) List(excludeID uint) ([]models.User, error) {
	query := s.DB.Order("created_at DESC")
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts the user, reporting ErrConflict when the username or
// email is already taken.
func (s *UserStore) Create(user *models.User) error {
	var count int64
	if err := s.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return s.DB.Create(user).Error
}

// Update persists a user previously loaded through one of the getters.
func (s *UserStore) Update(user *models.User) error {
	return s.DB.Save(user).Error
}

// SetResetToken stores a password reset token with its expiry.
func (s *UserStore) SetResetToken(userID uint, token string, expiresAt time.Time) error {
	return s.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":            token,
			"reset_token_expires_at": expiresAt,
		}).Error
}

// ConsumeResetToken stores the new password hash and clears the token
// fields in a single update, so a reset is either complete or did not
// happen. A second attempt with the same token finds no matching row
// and fails with ErrInvalidOrExpiredToken.
func (s *UserStore) ConsumeResetToken(token, passwordHash string) (*models.User, error) {
	var user models.User

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reset_token = ? AND reset_token_expires_at > ?", token, time.Now()).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the account and everything it owns in one
// transaction. A failure partway rolls the whole operation back so no
// child rows are orphaned. Rows are removed outright rather than
// soft-deleted: the unique indexes on username and email cover
// soft-deleted rows, so the handle would otherwise stay unusable
// forever.
func (s *UserStore) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := cascadeOwnedData(tx, []uint{user.ID}); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
}

// DeleteAllExcept removes every account other than keepID, cascading
// each one's owned data, and returns the number of accounts removed.
func (s *UserStore) DeleteAllExcept(keepID uint) (int64, error) {
	var removed int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.User{}).Where("id <> ?", keepID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := cascadeOwnedData(tx, ids); err != nil {
			return err
		}

		result := tx.Unscoped().Where("id IN ?", ids).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// cascadeOwnedData deletes every client, campaign (with attachments
// and sends), and email configuration owned by the given set of user
// ids, using set-membership predicates. Deletes are unscoped for the
// same reason account rows are: nothing may linger under a removed
// account.
func cascadeOwnedData(tx *gorm.DB, ownerIDs []uint) error {
	var campaignIDs []uint
	if err := tx.Model(&models.Campaign{}).Where("owner_id IN ?", ownerIDs).
		Pluck("id", &campaignIDs).Error; err != nil {
		return err
	}

	if len(campaignIDs) > 0 {
		if err := tx.Unscoped().Where("campaign_id IN ?", campaignIDs).
			Delete(&models.CampaignAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("campaign_id IN ?", campaignIDs).
			Delete(&models.CampaignSend{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Unscoped().Where("owner_id IN ?", ownerIDs).Delete(&models.Campaign{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("owner_id IN ?", ownerIDs).Delete(&models.Client{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("owner_id IN ?", ownerIDs).Delete(&models.EmailConfig{}).Error
}
