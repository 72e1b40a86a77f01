package routes

import (
	"time"

	"github.com/adeqintegrated/adeqsite/app/controllers"
	"github.com/adeqintegrated/adeqsite/app/repositories"
	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/pkg/metrics"
	"github.com/adeqintegrated/adeqsite/pkg/middleware"
	"github.com/adeqintegrated/adeqsite/pkg/router"
)

// RegisterAPI mounts every route. Call after the database and storage
// layers are connected.
func RegisterAPI(r *router.Router) {
	users := repositories.NewUserRepository()
	mailer := services.NewMailer()
	authService := services.NewAuthService(users, mailer)
	contentService := services.NewContentService()

	authController := controllers.NewAuthController(authService)
	contentController := controllers.NewContentController(contentService)
	mailController := controllers.NewMailController(mailer)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Post("/send-email", "mail.receipt", mailController.SendReceipt)

	api := r.Group("/api")

	// Direct code-send endpoints used by the storefront forms.
	api.Post("/send-verification", "mail.verification", mailController.SendVerification)
	api.Post("/send-password-reset", "mail.password_reset", mailController.SendPasswordReset)

	// Auth endpoints carry a tighter per-IP limit: codes are 6 digits, so
	// guessing has to stay expensive.
	auth := api.Group("/auth", middleware.RateLimit(15, time.Minute))
	auth.Post("/register", "auth.register", authController.Register)
	auth.Post("/verify-email", "auth.verify_email", authController.VerifyEmail)
	auth.Post("/login", "auth.login", authController.Login)
	auth.Post("/forgot-password", "auth.forgot_password", authController.ForgotPassword)
	auth.Post("/reset-password", "auth.reset_password", authController.ResetPassword)
	auth.Get("/profile", "auth.profile", authController.Profile, middleware.Auth)
	auth.Get("/check-email/{email}", "auth.check_email", authController.CheckEmail)

	// CMS documents: public reads, admin writes.
	api.Get("/{key}", "content.show", contentController.Show)
	admin := api.Group("/admin")
	admin.Put("/{key}", "content.update", contentController.Update)

	// Legacy update routes kept for the old admin page.
	api.Post("/services/update", "content.services_update", contentController.UpdateServices)
	api.Post("/equipment/update", "content.equipment_update", contentController.UpdateEquipment)
}
