package server

import (
	"time"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/auth"
	"github.com/Kyz7/wip/internal/dashboard"
	"github.com/Kyz7/wip/internal/politician"
	"github.com/Kyz7/wip/internal/public"
	"github.com/Kyz7/wip/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, svc Services) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/health-check", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
		return response.Success(c, fiber.Map{"status": "ok"}, "WIP API is running")
	})
	app.Get("/metrics", svc.Metrics.Handler())

	if svc.Log != nil {
		politician.SetLogger(svc.Log)
	}

	// ==========================================
	// AUTH ROUTES
	// ==========================================
	authHandler := auth.NewHandler(svc.Auth, svc.OTP, svc.Log)
	authGroup := app.Group("/admin/api/v1/auth")
	authGroup.Post("/signup", authHandler.SignupHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), authHandler.LoginHandler)
	authGroup.Post("/refresh/:admin_id", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
	}), authHandler.RefreshHandler)
	authGroup.Post("/logout", auth.JWTProtected(svc.Auth), authHandler.LogoutHandler)
	authGroup.Post("/email/authorization/:email", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 1 * time.Minute,
	}), authHandler.SendAuthCodeHandler)
	authGroup.Get("/email/verification", authHandler.VerifyAuthCodeHandler)

	// ==========================================
	// ADMIN (bearer required)
	// ==========================================
	adminGroup := app.Group("/admin/api/v1", auth.JWTProtected(svc.Auth))

	politicianGroup := adminGroup.Group("/politician")
	politicianGroup.Post("/", politician.CreatePoliticianHandler)
	politicianGroup.Post("/bulk", politician.BulkCreatePoliticianHandler)
	politicianGroup.Get("/", politician.ListPoliticiansHandler)
	politicianGroup.Get("/:id", politician.GetPoliticianHandler)
	politicianGroup.Put("/:id", politician.UpdatePoliticianHandler)
	politicianGroup.Delete("/:id", politician.DeletePoliticianHandler)
	politicianGroup.Post("/:id/profile-image", politician.UploadProfileImageHandler)

	adminGroup.Get("/admin-log", dashboard.AdminLogHandler)
	adminGroup.Get("/integrity-error", dashboard.IntegrityErrorHandler)

	adminGroup.Post("/constituency", invalidateOnCreate, area.CreateConstituencyHandler)
	adminGroup.Get("/region", area.ListRegionsHandler)

	// ==========================================
	// PUBLIC
	// ==========================================
	publicGroup := app.Group("/wip/public/api/v1")
	publicGroup.Get("/constituency/:assembly_term/:region", public.ConstituencyHandler)
	publicGroup.Get("/politician/search", public.PoliticianSearchHandler)
	publicGroup.Get("/politician", public.PoliticianListHandler)
}

// invalidateOnCreate drops cached public constituency lists once new
// constituencies have been registered.
func invalidateOnCreate(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil && c.Response().StatusCode() == fiber.StatusCreated {
		public.InvalidateConstituencies()
	}
	return err
}
