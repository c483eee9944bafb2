package routes

import (
	"github.com/abenfraj/menufique-sub001/config"
	aiapi "github.com/abenfraj/menufique-sub001/internal/api/ai"
	authapi "github.com/abenfraj/menufique-sub001/internal/api/auth"
	"github.com/abenfraj/menufique-sub001/internal/api/billing"
	"github.com/abenfraj/menufique-sub001/internal/api/generate"
	"github.com/abenfraj/menufique-sub001/internal/api/health"
	"github.com/abenfraj/menufique-sub001/internal/api/imagesearch"
	menusapi "github.com/abenfraj/menufique-sub001/internal/api/menus"
	publicapi "github.com/abenfraj/menufique-sub001/internal/api/public"
	stripewebhooks "github.com/abenfraj/menufique-sub001/internal/api/stripewebhook"
	"github.com/abenfraj/menufique-sub001/internal/app/http/middleware"
	"github.com/abenfraj/menufique-sub001/internal/mail"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps carries every externally constructed dependency the handlers need.
// Tests build their own Deps with fakes.
type Deps struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Log    zerolog.Logger
	Mailer mail.Mailer
	AI     *aiapi.Client
	Images *imagesearch.Client
}

func RegisterRoutes(r *gin.Engine, d *Deps) {
	authHandler := authapi.NewHandler(d.DB, d.Cfg, d.Mailer, d.Log)
	menuHandler := menusapi.NewHandler(d.DB, d.Log)
	publicHandler := publicapi.NewHandler(d.DB, d.Cfg)
	billingHandler := billing.NewHandler(d.DB, d.Cfg, d.Log)
	webhookHandler := stripewebhooks.NewHandler(d.DB, d.Cfg, d.Log)
	qrHandler := generate.NewHandler(d.DB, d.Cfg)
	aiHandler := aiapi.NewHandler(d.AI, d.Log)
	imageHandler := imagesearch.NewHandler(d.Images, d.Log)
	healthHandler := health.NewHandler(d.DB)

	r.POST("/api/stripe/webhook", webhookHandler.StripeWebhook)
	r.GET("/api/health", healthHandler.Health)

	r.GET("/p/:slug", publicHandler.GetPublishedMenu)
	r.GET("/sitemap.xml", publicHandler.Sitemap)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/api/auth/register", authHandler.Register)
	public.POST("/api/auth/login", authHandler.Login)
	public.POST("/api/auth/forgot-password", authHandler.RequestPasswordReset)
	public.POST("/api/auth/reset-password", authHandler.ResetPassword)

	public.GET("/auth/google", authHandler.GoogleStart)
	public.GET("/auth/google/callback", authHandler.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.Cfg.JWTSecret))
	auth.GET("/api/me", authHandler.GetCurrentUser)
	auth.POST("/api/auth/change-password", authHandler.ChangePassword)

	auth.GET("/api/menus", menuHandler.ListMenus)
	auth.POST("/api/menus", menuHandler.CreateMenu)
	auth.GET("/api/menus/:id", menuHandler.GetMenu)
	auth.PUT("/api/menus/:id", menuHandler.UpdateMenu)
	auth.DELETE("/api/menus/:id", menuHandler.DeleteMenu)
	auth.PUT("/api/menus/:id/publish", menuHandler.PublishMenu)

	auth.POST("/api/menus/:id/categories", menuHandler.CreateCategory)
	auth.PUT("/api/menus/:id/categories/reorder", menuHandler.ReorderCategories)
	auth.PUT("/api/menus/:id/categories/:catId", menuHandler.UpdateCategory)
	auth.DELETE("/api/menus/:id/categories/:catId", menuHandler.DeleteCategory)

	auth.POST("/api/menus/:id/categories/:catId/dishes", menuHandler.CreateDish)
	auth.PUT("/api/menus/:id/categories/:catId/dishes/:dishId", menuHandler.UpdateDish)
	auth.DELETE("/api/menus/:id/categories/:catId/dishes/:dishId", menuHandler.DeleteDish)

	auth.POST("/api/menus/:id/snapshots", menuHandler.SaveSnapshot)
	auth.POST("/api/menus/:id/snapshots/:snapId/restore", menuHandler.RestoreSnapshot)

	auth.POST("/api/generate/qr", qrHandler.GenerateQR)
	auth.POST("/api/ai/extract-menu", aiHandler.ExtractMenu)
	auth.GET("/api/images/search", imageHandler.Search)

	auth.GET("/api/payments", billingHandler.GetPaymentHistory)
	auth.POST("/api/stripe/checkout", billingHandler.CreateCheckoutSession)
	auth.POST("/api/stripe/portal", billingHandler.CreateBillingPortal)
}
