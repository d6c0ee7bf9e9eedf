package configs

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, reading configuration from environment")
		}
	})
}

func EnvMongoURI() string {
	loadEnv()
	return os.Getenv("MONGOURI")
}

func EnvDBName() string {
	loadEnv()
	if name := os.Getenv("DB_NAME"); name != "" {
		return name
	}
	return "riderApi"
}

func EnvPort() string {
	loadEnv()
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "3000"
}

func EnvJWTSecret() string {
	loadEnv()
	return os.Getenv("JWT_SECRET")
}

// EnvStrictConfirm toggles the terminal-state guard on delivery
// confirmation. Off by default to match the behavior rider apps rely on.
func EnvStrictConfirm() bool {
	loadEnv()
	return os.Getenv("STRICT_CONFIRM") == "true"
}

func EnvRazorpayKeyId() string {
	loadEnv()
	return os.Getenv("RAZORPAY_KEY_ID")
}

func EnvRazorpayKeySecret() string {
	loadEnv()
	return os.Getenv("RAZORPAY_KEY_SECRET")
}
