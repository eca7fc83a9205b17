package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

type ClientController struct {
	Clients *store.ClientStore
	Logger  *log.Logger
}

func NewClientController(clients *store.ClientStore, logger *log.Logger) *ClientController {
	return &ClientController{
		Clients: clients,
		Logger:  logger,
	}
}

type clientInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	PersonType string `json:"person_type" validate:"omitempty,oneof=individual company"`
	TaxID      string `json:"tax_id" validate:"omitempty,max=30"`

	Email         string `json:"email" validate:"omitempty,email"`
	MobilePhone   string `json:"mobile_phone" validate:"omitempty,max=30"`
	LandlinePhone string `json:"landline_phone" validate:"omitempty,max=30"`
	Website       string `json:"website" validate:"omitempty,max=200"`

	Street     string `json:"street" validate:"omitempty,max=200"`
	Number     string `json:"number" validate:"omitempty,max=20"`
	Complement string `json:"complement" validate:"omitempty,max=100"`
	District   string `json:"district" validate:"omitempty,max=100"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,max=50"`
	ZipCode    string `json:"zip_code" validate:"omitempty,max=20"`

	ContactName  string `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=30"`

	Status       string `json:"status" validate:"omitempty,oneof=potential active inactive"`
	BusinessArea string `json:"business_area" validate:"omitempty,max=100"`

	Notes string `json:"notes"`
}

func (in *clientInput) apply(client *models.Client) {
	client.Name = in.Name
	if in.PersonType != "" {
		client.PersonType = in.PersonType
	}
	client.TaxID = in.TaxID
	client.Email = in.Email
	client.MobilePhone = in.MobilePhone
	client.LandlinePhone = in.LandlinePhone
	client.Website = in.Website
	client.Street = in.Street
	client.Number = in.Number
	client.Complement = in.Complement
	client.District = in.District
	client.City = in.City
	client.State = in.State
	client.ZipCode = in.ZipCode
	client.ContactName = in.ContactName
	client.ContactEmail = in.ContactEmail
	client.ContactPhone = in.ContactPhone
	if in.Status != "" {
		client.Status = in.Status
	}
	client.BusinessArea = in.BusinessArea
	client.Notes = in.Notes
}

// CreateClient creates a client owned by the authenticated user.
func (cc *ClientController) CreateClient(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input clientInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var client models.Client
	input.apply(&client)

	if err := cc.Clients.Create(user.ID, &client); err != nil {
		utils.LogError("client_create_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(client))
}

// GetClients lists the user's clients, optionally filtered by a search
// term matched across name, email, tax id, phones, city, and business
// area.
func (cc *ClientController) GetClients(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	clients, err := cc.Clients.List(user.ID, c.Query("search"))
	if err != nil {
		utils.LogError("client_list_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch clients", nil)
	}

	return c.JSON(utils.SuccessResponse(clients))
}

// GetClient returns a single client by ID.
func (cc *ClientController) GetClient(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	client, err := cc.Clients.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		utils.LogError("client_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch client", nil)
	}

	return c.JSON(utils.SuccessResponse(client))
}

// UpdateClient updates a client owned by the authenticated user.
func (cc *ClientController) UpdateClient(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input clientInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	client, err := cc.Clients.Get(utils.ParseUint(c.Params("id")), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		utils.LogError("client_get_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch client", nil)
	}

	input.apply(client)

	if err := cc.Clients.Update(client); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		utils.LogError("client_update_failed", err, map[string]interface{}{"user_id": user.ID, "client_id": client.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update client", nil)
	}

	return c.JSON(utils.SuccessResponse(client))
}

// DeleteClient removes a client owned by the authenticated user.
func (cc *ClientController) DeleteClient(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := cc.Clients.Delete(utils.ParseUint(c.Params("id")), user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		utils.LogError("client_delete_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete client", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Client deleted successfully",
	}))
}
