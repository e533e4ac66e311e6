package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAccessTokenSecret  = "wip-access-secret"
	defaultRefreshTokenSecret = "wip-refresh-secret"
)

type Config struct {
	ServerAddr string
	AppEnv     string
	LogLevel   string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAlgorithm           string
	AccessTokenSecret      string
	AccessTokenExpMinutes  int
	RefreshTokenSecret     string
	RefreshTokenExpMinutes int

	OTPBackend    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MailProvider  string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFrom      string
	MailgunDomain string
	MailgunAPIKey string
	MailgunFrom   string

	UseS3         bool
	S3Bucket      string
	S3Region      string
	CloudFrontURL string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":2309"),
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "pinocchio"),

		JWTAlgorithm:           getEnv("JWT_ALGORITHM", "HS256"),
		AccessTokenSecret:      getEnv("ACCESS_TOKEN_SECRET_KEY", defaultAccessTokenSecret),
		AccessTokenExpMinutes:  getEnvInt("ACCESS_TOKEN_EXP", 60),
		RefreshTokenSecret:     getEnv("REFRESH_TOKEN_SECRET_KEY", defaultRefreshTokenSecret),
		RefreshTokenExpMinutes: getEnvInt("REFRESH_TOKEN_EXP", 1440),

		OTPBackend:    getEnv("OTP_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MailProvider:  getEnv("MAIL_PROVIDER", "none"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "465"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		MailgunFrom:   getEnv("MAILGUN_FROM", ""),

		UseS3:         getEnv("USE_S3", "false") == "true",
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", ""),
		CloudFrontURL: getEnv("CLOUDFRONT_URL", ""),
	}

	log.Println("✅ Config loaded")
	return cfg
}

// ValidateTokenSecrets refuses configurations where access and refresh tokens
// could be forged with each other's key.
func (c *Config) ValidateTokenSecrets() error {
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET_KEY and REFRESH_TOKEN_SECRET_KEY are required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	if c.AccessTokenExpMinutes <= 0 || c.RefreshTokenExpMinutes <= 0 {
		return fmt.Errorf("token lifetimes must be positive (access: %d, refresh: %d)",
			c.AccessTokenExpMinutes, c.RefreshTokenExpMinutes)
	}
	if c.AppEnv == "production" &&
		(c.AccessTokenSecret == defaultAccessTokenSecret || c.RefreshTokenSecret == defaultRefreshTokenSecret) {
		return fmt.Errorf("cannot use default token secrets in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
