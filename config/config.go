package config

import (
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port             string
	DBPath           string
	DatabaseURL      string
	JWTSecret        string
	SessionTTL       time.Duration
	AdminEmail       string
	AdminPassword    string
	QRBaseURL        string
	QRAPIURL         string
	CloudinaryURL    string
	CloudinaryPreset string
	HTTPTimeout      time.Duration
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		glog.V(1).Infof("[cfg] no .env file loaded: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			glog.Warningf("[cfg] %s=%q is not a positive duration, using %s", k, v, def)
			return def
		}
		return d
	}
	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		DBPath:           get("DB_PATH", "herbal.db"),
		DatabaseURL:      get("DATABASE_URL", ""),
		JWTSecret:        get("JWT_SECRET", ""),
		SessionTTL:       dur("SESSION_TTL", 12*time.Hour),
		AdminEmail:       strings.TrimSpace(get("ADMIN_EMAIL", "")),
		AdminPassword:    get("ADMIN_PASSWORD", ""),
		QRBaseURL:        get("QR_BASE_URL", "https://herbal-app-mobile.vercel.app/plant/"),
		QRAPIURL:         get("QR_API_URL", "https://api.qrserver.com/v1/create-qr-code/"),
		CloudinaryURL:    get("CLOUDINARY_URL", ""),
		CloudinaryPreset: get("CLOUDINARY_UPLOAD_PRESET", ""),
		HTTPTimeout:      dur("HTTP_TIMEOUT", 20*time.Second),
	}
	glog.Infof("[cfg] %+v", cfg.Redacted())
	return cfg
}

// Redacted returns a copy that is safe to log.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.JWTSecret = mask(c.JWTSecret)
	c.AdminPassword = mask(c.AdminPassword)
	c.DatabaseURL = mask(c.DatabaseURL)
	return c
}
