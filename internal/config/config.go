package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID  string
	Region     string
	LogLevel   string
	Port       string
	Bucket     string
	KMSKeyName string
	// PublicBaseURL serves stored objects; empty uses the bucket's
	// storage.googleapis.com URL.
	PublicBaseURL string
}

// New reads the environment. A .env file in the working directory is loaded
// first when present; variables already set take precedence.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:     os.Getenv("PROJECTID"),
		Region:        os.Getenv("REGION"),
		LogLevel:      os.Getenv("LOGLEVEL"),
		Port:          getEnv("PORT", "8080"),
		Bucket:        os.Getenv("BUCKET"),
		KMSKeyName:    os.Getenv("KMSKEYNAME"),
		PublicBaseURL: os.Getenv("PUBLICBASEURL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
