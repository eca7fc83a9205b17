package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "maladireta/controllers"
	"maladireta/middleware"
	"maladireta/models"
	"maladireta/store"
	"maladireta/utils"
)

// SetupRoutes wires the HTTP surface. The store set is constructed
// once here and handed to the controllers by reference.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	st := store.New(db)
	mailer := utils.NewMailer()

	authController := controller.NewAuthController(st.Users, mailer, log.New(os.Stdout, "AUTH: ", log.LstdFlags))
	clientController := controller.NewClientController(st.Clients, log.New(os.Stdout, "CLIENT: ", log.LstdFlags))
	campaignController := controller.NewCampaignController(st.Campaigns, log.New(os.Stdout, "CAMPAIGN: ", log.LstdFlags))
	emailConfigController := controller.NewEmailConfigController(st.EmailConfigs, log.New(os.Stdout, "EMAILCFG: ", log.LstdFlags))
	userAdminController := controller.NewUserAdminController(st.Users, log.New(os.Stdout, "ADMIN: ", log.LstdFlags))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth endpoints, rate limited per IP
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	public := auth.Group("", middleware.AuthRateLimiter())
	public.Post("/register", authController.Register)
	public.Post("/login", authController.Login)
	public.Post("/refresh", authController.RefreshToken)
	public.Post("/forgot-password", authController.ForgotPassword)
	public.Post("/reset-password", authController.ResetPassword)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected(st.Users))
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Post("/change-password", authController.ChangePassword)
	protectedAuth.Get("/me", authController.GetCurrentUser)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(st.Users), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Client routes (base feature, no capability flag)
	client := api.Group("/clients")
	client.Post("/", clientController.CreateClient)
	client.Get("/", clientController.GetClients)
	client.Get("/:id", clientController.GetClient)
	client.Put("/:id", clientController.UpdateClient)
	client.Delete("/:id", clientController.DeleteClient)

	// Campaign routes, gated by the direct-mail capability
	campaign := api.Group("/campaigns", middleware.RequireCapability(models.CapabilityDirectMail))
	campaign.Post("/", campaignController.CreateCampaign)
	campaign.Get("/", campaignController.GetCampaigns)
	campaign.Get("/:id", campaignController.GetCampaign)
	campaign.Put("/:id", campaignController.UpdateCampaign)
	campaign.Delete("/:id", campaignController.DeleteCampaign)
	campaign.Post("/:id/send", campaignController.SendCampaign)
	campaign.Get("/:id/sends", campaignController.GetCampaignSends)

	// Email configuration routes, gated by the email-config capability
	emailConfig := api.Group("/email-configs", middleware.RequireCapability(models.CapabilityEmailConfig))
	emailConfig.Post("/", emailConfigController.CreateEmailConfig)
	emailConfig.Get("/", emailConfigController.GetEmailConfigs)
	emailConfig.Get("/active", emailConfigController.GetActiveEmailConfig)
	emailConfig.Get("/:id", emailConfigController.GetEmailConfig)
	emailConfig.Put("/:id", emailConfigController.UpdateEmailConfig)
	emailConfig.Delete("/:id", emailConfigController.DeleteEmailConfig)
	emailConfig.Post("/:id/test", emailConfigController.TestEmailConfig)

	// Account management, admins only
	users := api.Group("/users", middleware.AdminOnly())
	users.Get("/", userAdminController.GetUsers)
	users.Post("/", userAdminController.CreateUser)
	users.Get("/:id", userAdminController.GetUser)
	users.Put("/:id", userAdminController.UpdateUser)
	users.Delete("/:id", userAdminController.DeleteUser)
	users.Delete("/", userAdminController.DeleteAllUsers)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
