package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

// UserAdminController exposes account management. Routes using it are
// guarded by middleware.AdminOnly; admin creation and role changes
// only exist on this path.
type UserAdminController struct {
	Users  *store.UserStore
	Logger *log.Logger
}

func NewUserAdminController(users *store.UserStore, logger *log.Logger) *UserAdminController {
	return &UserAdminController{
		Users:  users,
		Logger: logger,
	}
}

type adminCreateUserRequest struct {
	Username             string `json:"username" validate:"required,min=3,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	Role                 string `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive             *bool  `json:"is_active"`
	CanAccessDirectMail  *bool  `json:"can_access_direct_mail"`
	CanAccessEmailConfig *bool  `json:"can_access_email_config"`
}

type adminUpdateUserRequest struct {
	Email                string `json:"email" validate:"omitempty,email"`
	Password             string `json:"password" validate:"omitempty,min=8"`
	Role                 string `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive             *bool  `json:"is_active"`
	CanAccessDirectMail  *bool  `json:"can_access_direct_mail"`
	CanAccessEmailConfig *bool  `json:"can_access_email_config"`
}

// GetUsers lists all accounts. ?exclude_self=true omits the caller.
func (uc *UserAdminController) GetUsers(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	var excludeID uint
	if c.QueryBool("exclude_self") {
		excludeID = admin.ID
	}

	users, err := uc.Users.List(excludeID)
	if err != nil {
		utils.LogError("user_list_failed", err, map[string]interface{}{"admin_id": admin.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch users", nil)
	}

	for i := range users {
		users[i].Sanitize()
	}
	return c.JSON(utils.SuccessResponse(users))
}

// GetUser returns one account by ID.
func (uc *UserAdminController) GetUser(c *fiber.Ctx) error {
	user, err := uc.Users.GetByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
		}
		utils.LogError("user_get_failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", nil)
	}

	user.Sanitize()
	return c.JSON(utils.SuccessResponse(user))
}

// CreateUser creates an account with role, status, and capability
// flags as first-class fields.
func (uc *UserAdminController) CreateUser(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	var req adminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", nil)
	}

	user := models.User{
		Username:             req.Username,
		Email:                req.Email,
		PasswordHash:         string(hashedPassword),
		Role:                 models.RoleUser,
		IsActive:             true,
		CanAccessDirectMail:  true,
		CanAccessEmailConfig: true,
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.CanAccessDirectMail != nil {
		user.CanAccessDirectMail = *req.CanAccessDirectMail
	}
	if req.CanAccessEmailConfig != nil {
		user.CanAccessEmailConfig = *req.CanAccessEmailConfig
	}

	if err := uc.Users.Create(&user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Username or email already registered", nil)
		}
		utils.LogError("user_create_failed", err, map[string]interface{}{"admin_id": admin.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", nil)
	}

	uc.Logger.Printf("Admin %d created user %d (%s)", admin.ID, user.ID, user.Username)

	user.Sanitize()
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(user))
}

// UpdateUser edits an account, including role, status, and capability
// flags.
func (uc *UserAdminController) UpdateUser(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	var req adminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	user, err := uc.Users.GetByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
		}
		utils.LogError("user_get_failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", nil)
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", nil)
		}
		user.PasswordHash = string(hashedPassword)
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.CanAccessDirectMail != nil {
		user.CanAccessDirectMail = *req.CanAccessDirectMail
	}
	if req.CanAccessEmailConfig != nil {
		user.CanAccessEmailConfig = *req.CanAccessEmailConfig
	}

	if err := uc.Users.Update(user); err != nil {
		utils.LogError("user_update_failed", err, map[string]interface{}{"admin_id": admin.ID, "user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", nil)
	}

	user.Sanitize()
	return c.JSON(utils.SuccessResponse(user))
}

// DeleteUser removes an account and cascades to everything it owns.
func (uc *UserAdminController) DeleteUser(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	if id == admin.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "You cannot delete your own account", nil)
	}

	if err := uc.Users.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
		}
		utils.LogError("user_delete_failed", err, map[string]interface{}{"admin_id": admin.ID, "user_id": id})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", nil)
	}

	uc.Logger.Printf("Admin %d deleted user %d", admin.ID, id)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "User deleted successfully",
	}))
}

// DeleteAllUsers removes every account except the caller's, cascading
// each one's data, and reports how many were removed.
func (uc *UserAdminController) DeleteAllUsers(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	removed, err := uc.Users.DeleteAllExcept(admin.ID)
	if err != nil {
		utils.LogError("user_bulk_delete_failed", err, map[string]interface{}{"admin_id": admin.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete users", nil)
	}

	uc.Logger.Printf("Admin %d removed %d accounts", admin.ID, removed)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"removed": removed,
	}))
}
