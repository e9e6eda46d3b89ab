package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// App holds the environment-driven settings. Call Load once after godotenv
// has run; handlers read the exported singleton.
type App struct {
	Port      string
	Env       string
	MongoURI  string
	RedisAddr string
	JWTSecret string

	PaystackSecretKey   string
	PaystackBaseURL     string
	PaystackCallbackURL string

	EmailHost     string
	EmailPort     string
	EmailUser     string
	EmailPassword string
	EmailFrom     string

	FrontendURL string

	ReservationExpiryHours int
	PaymentCodeLength      int
}

var Cfg = Load()

func Load() App {
	_ = godotenv.Load()
	return App{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "stayhub-dev-secret"),

		PaystackSecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackCallbackURL: os.Getenv("PAYSTACK_CALLBACK_URL"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnv("EMAIL_PORT", "587"),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getEnv("EMAIL_FROM", "StayHub <no-reply@stayhub.app>"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		ReservationExpiryHours: getEnvInt("RESERVATION_EXPIRY_HOURS", 48),
		PaymentCodeLength:      getEnvInt("PAYMENT_CODE_LENGTH", 6),
	}
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
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
