package server

import (
	"github.com/Kyz7/wip/internal/auth"
	"github.com/Kyz7/wip/internal/metrics"
	"github.com/Kyz7/wip/internal/otp"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services carries the long-lived components the routes depend on.
type Services struct {
	Auth    *auth.Manager
	OTP     *otp.Service
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

func New(db *gorm.DB, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Static("/uploads", "./uploads", fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app, db, svc)

	return app
}
