package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyz7/wip/internal/admin"
	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/auth"
	"github.com/Kyz7/wip/internal/config"
	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/mailer"
	"github.com/Kyz7/wip/internal/metrics"
	"github.com/Kyz7/wip/internal/otp"
	"github.com/Kyz7/wip/internal/server"
	"github.com/Kyz7/wip/internal/utils"
	"github.com/sirupsen/logrus"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func newOTPStore(cfg *config.Config, log logrus.FieldLogger) (otp.Store, error) {
	if cfg.OTPBackend != "redis" {
		log.Info("💾 OTP codes kept in process memory")
		return otp.NewMemoryStore(otp.CodeValidity, time.Minute), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := otp.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	log.WithField("addr", cfg.RedisAddr).Info("✅ OTP codes kept in redis")
	return otp.NewRedisStore(rc), nil
}

func setupStorage(cfg *config.Config, log logrus.FieldLogger) {
	if err := utils.InitLocalStorage(); err != nil {
		log.WithError(err).Fatal("❌ Failed to initialize local storage")
	}

	if !cfg.UseS3 {
		log.Info("💾 Using LOCAL storage mode (./uploads/)")
		utils.SetStorageMode(true)
		return
	}
	if cfg.S3Bucket == "" || cfg.S3Region == "" {
		log.Warn("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured, falling back to local storage")
		utils.SetStorageMode(true)
		return
	}
	if err := utils.InitS3(cfg.S3Bucket, cfg.S3Region, cfg.CloudFrontURL); err != nil {
		log.WithError(err).Warn("⚠️  S3 initialization failed, falling back to local storage")
		utils.SetStorageMode(true)
		return
	}
	log.WithFields(logrus.Fields{"bucket": cfg.S3Bucket, "region": cfg.S3Region}).Info("☁️  Using S3 storage")
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	if err := cfg.ValidateTokenSecrets(); err != nil {
		log.WithError(err).Fatal("❌ JWT configuration error")
	}
	tokens, err := utils.NewTokenCodec(utils.TokenConfig{
		Algorithm:     cfg.JWTAlgorithm,
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     time.Duration(cfg.AccessTokenExpMinutes) * time.Minute,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    time.Duration(cfg.RefreshTokenExpMinutes) * time.Minute,
	})
	if err != nil {
		log.WithError(err).Fatal("❌ JWT configuration error")
	}
	log.Info("✅ JWT secrets validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("❌ Database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("❌ Migration failed")
	}
	if _, err := database.RunMigrations(db); err != nil {
		log.WithError(err).Warn("⚠️  SQL migrations failed, search may be slower")
	}
	if err := area.SeedRegions(db); err != nil {
		log.WithError(err).Fatal("❌ Failed to seed regions")
	}
	log.Info("✅ Regions seeded")

	setupStorage(cfg, log)

	// ========== SERVICES ==========
	m := metrics.New()

	sender, err := mailer.NewSender(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Mail configuration error")
	}
	dispatcher := mailer.NewDispatcher(sender, log, m)

	store, err := newOTPStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ OTP store unavailable")
	}

	manager := auth.NewManager(admin.NewRepository(db), tokens, dispatcher, log, m)
	otpService := otp.NewService(store, dispatcher, log, m)

	// ========== START SERVER ==========
	app := server.New(db, server.Services{
		Auth:    manager,
		OTP:     otpService,
		Metrics: m,
		Log:     log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("🛑 Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.ServerAddr,
		"storage": utils.GetStorageMode(),
		"mail":    sender.Name(),
		"otp":     cfg.OTPBackend,
	}).Info("🚀 WIP server starting")

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.WithError(err).Fatal("❌ Failed to start server")
	}

	// let queued mail finish before exiting
	dispatcher.Wait()
}
