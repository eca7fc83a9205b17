package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"maladireta/models"
)

// CampaignStore performs owner-scoped reads and writes of campaigns
// and their child attachment/send rows.
type CampaignStore struct {
	DB *gorm.DB
}

// List returns all campaigns for ownerID, newest first, optionally
// narrowed by a case-insensitive match on name or subject.
func (s *CampaignStore) List(ownerID uint, search string) ([]models.Campaign, error) {
	query := s.DB.Where("owner_id = ?", ownerID)

	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(subject) LIKE ?", term, term)
	}

	var campaigns []models.Campaign
	if err := query.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Get returns the campaign only if both the id and the owner match.
func (s *CampaignStore) Get(id, ownerID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// Create inserts the campaign with the owner forced from the
// authenticated context.
func (s *CampaignStore) Create(ownerID uint, campaign *models.Campaign) error {
	campaign.OwnerID = ownerID
	return s.DB.Create(campaign).Error
}

// Update persists a campaign previously loaded through Get. If the row
// was deleted in between, ErrNotFound is returned instead of silently
// writing nothing.
func (s *CampaignStore) Update(campaign *models.Campaign) error {
	result := s.DB.Save(campaign)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the campaign and its attachment and send rows in one
// transaction so no child rows are orphaned.
func (s *CampaignStore) Delete(id, ownerID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&campaign).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&models.CampaignAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&models.CampaignSend{}).Error; err != nil {
			return err
		}
		return tx.Delete(&campaign).Error
	})
}

// CreateSends records a pending send row per recipient. The campaign
// and every client id must belong to ownerID; otherwise nothing is
// written and ErrNotFound is returned. Dispatch is not performed here.
func (s *CampaignStore) CreateSends(campaignID, ownerID uint, clientIDs []uint) ([]models.CampaignSend, error) {
	var sends []models.CampaignSend

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Where("id = ? AND owner_id = ?", campaignID, ownerID).First(&campaign).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var owned int64
		if err := tx.Model(&models.Client{}).
			Where("id IN ? AND owner_id = ?", clientIDs, ownerID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned != int64(len(clientIDs)) {
			return ErrNotFound
		}

		for _, clientID := range clientIDs {
			sends = append(sends, models.CampaignSend{
				CampaignID: campaign.ID,
				ClientID:   clientID,
				Status:     models.SendStatusPending,
			})
		}
		return tx.Create(&sends).Error
	})
	if err != nil {
		return nil, err
	}
	return sends, nil
}

// ListSends returns the send rows of a campaign owned by ownerID.
func (s *CampaignStore) ListSends(campaignID, ownerID uint) ([]models.CampaignSend, error) {
	if _, err := s.Get(campaignID, ownerID); err != nil {
		return nil, err
	}

	var sends []models.CampaignSend
	if err := s.DB.Where("campaign_id = ?", campaignID).
		Order("created_at DESC").Find(&sends).Error; err != nil {
		return nil, err
	}
	return sends, nil
}
