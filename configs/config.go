package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	JWTSecret         string
	TokenTTL          time.Duration
	StoreBackend      string
	DataFile          string
	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	RedisHost         string
	RedisPort         int
	RedisKey          string
	FileEncryptionKey string
	LogDir            string
	CORSOrigins       string
	RateLimitMax      int
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		Port:              getEnvInt("PORT", 4000),
		JWTSecret:         getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 8*time.Hour),
		StoreBackend:      getEnv("STORE_BACKEND", "file"),
		DataFile:          getEnv("DATA_FILE", "data/db.json"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnvInt("REDIS_PORT", 6379),
		RedisKey:          getEnv("REDIS_KEY", "taskflow:document"),
		FileEncryptionKey: os.Getenv("FILE_ENCRYPTION_KEY"),
		LogDir:            getEnv("LOG_DIR", "logs"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
