package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret   string
	Environment string
	ServiceName = "froebel-backend"
	BlobBaseDir string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	Environment = GetEnvOr("APP_ENV", "production")
	BlobBaseDir = GetEnvOr("BLOB_DIR", "./var/blobs")

	if JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
