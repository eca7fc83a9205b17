package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

type CampaignController struct {
	Campaigns *store.CampaignStore
	Logger    *log.Logger
}

func NewCampaignController(campaigns *store.CampaignStore, logger *log.Logger) *CampaignController {
	return &CampaignController{
		Campaigns: campaigns,
		Logger:    logger,
	}
}

type campaignInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Channel string `json:"channel" validate:"omitempty,oneof=email whatsapp"`
	Subject string `json:"subject" validate:"omitempty,max=300"`
	Body    string `json:"body"`
}

type sendCampaignRequest struct {
	ClientIDs []uint `json:"client_ids" validate:"required,min=1"`
}

// CreateCampaign creates a campaign owned by the authenticated user.
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input campaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	campaign := models.Campaign{
		Name:    input.Name,
		Channel: input.Channel,
		Subject: input.Subject,
		Body:    input.Body,
	}
	if campaign.Channel == "" {
		campaign.Channel = models.ChannelEmail
	}

	if err := cc.Campaigns.Create(user.ID, &campaign); err != nil {
		utils.LogError("campaign_create_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(campaign))
}

// GetCampaigns lists the user's campaigns, optionally filtered by a
// search term on name and subject.
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	campaigns, err := cc.Campaigns.List(user.ID, c.Query("search"))
	if err != nil {
		utils.LogError("campaign_list_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns", nil)
	}

	return c.JSON(utils.SuccessResponse(campaigns))
}

// GetCampaign returns a single campaign by ID.
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		utils.LogError("campaign_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", nil)
	}

	return c.JSON(utils.SuccessResponse(campaign))
}

// UpdateCampaign updates a campaign owned by the authenticated user.
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input campaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		utils.LogError("campaign_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", nil)
	}

	campaign.Name = input.Name
	if input.Channel != "" {
		campaign.Channel = input.Channel
	}
	campaign.Subject = input.Subject
	campaign.Body = input.Body

	if err := cc.Campaigns.Update(campaign); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		utils.LogError("campaign_update_failed", err, map[string]interface{}{"user_id": user.ID, "campaign_id": campaign.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", nil)
	}

	return c.JSON(utils.SuccessResponse(campaign))
}

// DeleteCampaign removes a campaign and its attachment and send rows.
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := cc.Campaigns.Delete(utils.ParseUint(c.Params("id")), user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		utils.LogError("campaign_delete_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Campaign deleted successfully",
	}))
}

// SendCampaign records a pending send per recipient. Delivery is
// performed by an external dispatcher, not this service, so the
// request is accepted rather than executed.
func (cc *CampaignController) SendCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req sendCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	clientIDs := dedupeIDs(req.ClientIDs)

	sends, err := cc.Campaigns.CreateSends(utils.ParseUint(c.Params("id")), user.ID, clientIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign or client not found", nil)
		}
		utils.LogError("campaign_send_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue campaign", nil)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse(fiber.Map{
		"message":    "Campaign queued for sending",
		"recipients": len(sends),
	}))
}

// GetCampaignSends returns the per-recipient send records of a
// campaign.
func (cc *CampaignController) GetCampaignSends(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	sends, err := cc.Campaigns.ListSends(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		utils.LogError("campaign_sends_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch sends", nil)
	}

	return c.JSON(utils.SuccessResponse(sends))
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	var out []uint
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
