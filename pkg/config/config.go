package config

import "os"

// Config collects every external knob once at startup so that handlers and
// gateways receive credentials explicitly instead of reading globals.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// Secret used to sign the device-identity cookie.
	CookieSecret string

	// LLM gateway (OpenAI-compatible chat/images API).
	AIBaseURL string
	AIKey     string
	AIModel   string

	// Cloudinary signed uploads.
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string

	// Local upload storage.
	UploadsDir string
}

func FromEnv() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         getenv("REDIS_URL", "redis://localhost:6379"),
		CookieSecret:     getenv("COOKIE_SECRET", "dev-secret-key-change-in-production"),
		AIBaseURL:        getenv("AI_BASE_URL", "https://api.openai.com/v1"),
		AIKey:            os.Getenv("AI_API_KEY"),
		AIModel:          getenv("AI_MODEL", "gpt-4o-mini"),
		CloudinaryCloud:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder: getenv("CLOUDINARY_FOLDER", "unafeed"),
		UploadsDir:       getenv("UPLOADS_DIR", "./public/uploads"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
