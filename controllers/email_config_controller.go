package controller

import (
	"errors"
	"log"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"

	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

type EmailConfigController struct {
	Configs *store.EmailConfigStore
	Logger  *log.Logger
}

func NewEmailConfigController(configs *store.EmailConfigStore, logger *log.Logger) *EmailConfigController {
	return &EmailConfigController{
		Configs: configs,
		Logger:  logger,
	}
}

type emailConfigInput struct {
	Host      string `json:"host" validate:"required,max=200"`
	Port      int    `json:"port" validate:"required,min=1,max=65535"`
	Secure    bool   `json:"secure"`
	Username  string `json:"username" validate:"required,max=200"`
	Password  string `json:"password" validate:"omitempty,max=200"`
	FromEmail string `json:"from_email" validate:"required,email"`
	FromName  string `json:"from_name" validate:"omitempty,max=200"`
	IsActive  bool   `json:"is_active"`
}

// CreateEmailConfig stores a new SMTP configuration. When the new
// configuration is active, previously active ones are deactivated in
// the same transaction.
func (ec *EmailConfigController) CreateEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input emailConfigInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "password is required", nil)
	}

	config := models.EmailConfig{
		Host:      input.Host,
		Port:      input.Port,
		Secure:    input.Secure,
		Username:  input.Username,
		Password:  input.Password,
		FromEmail: input.FromEmail,
		FromName:  input.FromName,
		IsActive:  input.IsActive,
	}

	if err := ec.Configs.Create(user.ID, &config); err != nil {
		utils.LogError("email_config_create_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create email configuration", nil)
	}

	config.Sanitize()
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(config))
}

// GetEmailConfigs lists the user's SMTP configurations.
func (ec *EmailConfigController) GetEmailConfigs(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	configs, err := ec.Configs.List(user.ID)
	if err != nil {
		utils.LogError("email_config_list_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email configurations", nil)
	}

	for i := range configs {
		configs[i].Sanitize()
	}
	return c.JSON(utils.SuccessResponse(configs))
}

// GetActiveEmailConfig returns the single active configuration.
func (ec *EmailConfigController) GetActiveEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	config, err := ec.Configs.GetActive(user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No active email configuration", nil)
		}
		utils.LogError("email_config_active_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email configuration", nil)
	}

	config.Sanitize()
	return c.JSON(utils.SuccessResponse(config))
}

// GetEmailConfig returns a single configuration by ID.
func (ec *EmailConfigController) GetEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	config, err := ec.Configs.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Email configuration not found", nil)
		}
		utils.LogError("email_config_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email configuration", nil)
	}

	config.Sanitize()
	return c.JSON(utils.SuccessResponse(config))
}

// UpdateEmailConfig updates a configuration, reapplying the
// single-active rule when it is being activated. An empty password
// keeps the stored one.
func (ec *EmailConfigController) UpdateEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input emailConfigInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	config, err := ec.Configs.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Email configuration not found", nil)
		}
		utils.LogError("email_config_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email configuration", nil)
	}

	config.Host = input.Host
	config.Port = input.Port
	config.Secure = input.Secure
	config.Username = input.Username
	if input.Password != "" {
		config.Password = input.Password
	}
	config.FromEmail = input.FromEmail
	config.FromName = input.FromName
	config.IsActive = input.IsActive

	if err := ec.Configs.Update(config); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Email configuration not found", nil)
		}
		utils.LogError("email_config_update_failed", err, map[string]interface{}{"user_id": user.ID, "config_id": config.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update email configuration", nil)
	}

	config.Sanitize()
	return c.JSON(utils.SuccessResponse(config))
}

// DeleteEmailConfig removes a configuration.
func (ec *EmailConfigController) DeleteEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := ec.Configs.Delete(utils.ParseUint(c.Params("id")), user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Email configuration not found", nil)
		}
		utils.LogError("email_config_delete_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete email configuration", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Email configuration deleted successfully",
	}))
}

// TestEmailConfig checks the from-address format and MX records, then
// dials the stored SMTP credentials. The outcome is reported to the
// caller; a failed check is not an error of this endpoint.
func (ec *EmailConfigController) TestEmailConfig(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	config, err := ec.Configs.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Email configuration not found", nil)
		}
		utils.LogError("email_config_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch email configuration", nil)
	}

	results := fiber.Map{
		"address_format": true,
		"mx_records":     true,
		"smtp":           true,
	}

	if err := checkmail.ValidateFormat(config.FromEmail); err != nil {
		results["address_format"] = false
		results["address_format_error"] = err.Error()
	}
	if err := checkmail.ValidateHost(config.FromEmail); err != nil {
		results["mx_records"] = false
		results["mx_records_error"] = err.Error()
	}
	if err := utils.TestEmailConfig(config, config.Password); err != nil {
		results["smtp"] = false
		results["smtp_error"] = err.Error()
		ec.Logger.Printf("SMTP test failed for config %d: %v", config.ID, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email configuration test completed",
		"results": results,
	})
}
