package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"maladireta/config"
	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

const resetTokenTTL = 1 * time.Hour

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type AuthController struct {
	Users  *store.UserStore
	Mailer *utils.Mailer
	Logger *log.Logger
}

func NewAuthController(users *store.UserStore, mailer *utils.Mailer, logger *log.Logger) *AuthController {
	return &AuthController{
		Users:  users,
		Mailer: mailer,
		Logger: logger,
	}
}

// Register creates a self-service account. The role is always "user";
// capability flags default from configuration.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
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

	grantFeatures := config.AppConfig.SelfSignupGrantFeatures
	user := models.User{
		Username:             req.Username,
		Email:                req.Email,
		PasswordHash:         string(hashedPassword),
		Role:                 models.RoleUser,
		IsActive:             true,
		CanAccessDirectMail:  grantFeatures,
		CanAccessEmailConfig: grantFeatures,
	}

	if err := ac.Users.Create(&user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Username or email already registered", nil)
		}
		utils.LogError("register_failed", err, map[string]interface{}{"username": req.Username})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account", nil)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(&user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", nil)
	}

	user.Sanitize()
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	})
}

// Login authenticates by username. Unknown username and wrong password
// produce the same response.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	user, err := ac.Users.GetByUsername(req.Username)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", nil)
	}

	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is not active", nil)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", nil)
	}

	user.Sanitize()
	return c.JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	claims, err := utils.ParseJWTToken(req.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
	}

	user, err := ac.Users.GetByID(claims.UserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", nil)
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// ChangePassword updates the authenticated user's password after
// verifying the current one.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	user := c.Locals("user").(*models.User)

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid current password", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", nil)
	}

	user.PasswordHash = string(hashedPassword)
	if err := ac.Users.Update(user); err != nil {
		utils.LogError("change_password_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update password", nil)
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

// ForgotPassword stores a reset token and mails a reset link. The
// response never reveals whether the email exists, and a mail failure
// is logged but does not fail the request.
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	genericReply := fiber.Map{
		"message": "If an account exists, a reset link will be sent",
	}

	user, err := ac.Users.GetByEmail(req.Email)
	if err != nil {
		return c.JSON(genericReply)
	}

	token, err := utils.GenerateSecureToken()
	if err != nil {
		utils.LogError("reset_token_generation_failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process request", nil)
	}

	if err := ac.Users.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		utils.LogError("reset_token_save_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process request", nil)
	}

	if err := ac.Mailer.SendPasswordResetEmail(user.Email, token); err != nil {
		ac.Logger.Printf("Failed to send password reset email to user %d: %v", user.ID, err)
		utils.LogError("reset_email_failed", err, map[string]interface{}{"user_id": user.ID})
	}

	return c.JSON(genericReply)
}

// ResetPassword consumes a reset token and stores the new password.
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
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

	if _, err := ac.Users.ConsumeResetToken(req.Token, string(hashedPassword)); err != nil {
		if errors.Is(err, store.ErrInvalidOrExpiredToken) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid or expired token", nil)
		}
		utils.LogError("reset_password_failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reset password", nil)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}

// GetCurrentUser returns the authenticated account without credential
// material.
func (ac *AuthController) GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	user.Sanitize()
	return c.JSON(user)
}
