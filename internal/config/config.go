package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SQLitePath            string
	Ephemeral             bool
	AuthSecret            string
	AccessTokenTTLMinutes int
	AdminPassword         string
	PharmacistPassword    string
	StoreName             string
	StoreAddress          string
	StorePhone            string
}

func Load() Config {
	// Missing .env files are fine; configuration may come straight from
	// the environment.
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		SQLitePath:            getEnv("MEDSTORE_DB_PATH", "medstore.db"),
		Ephemeral:             os.Getenv("MEDSTORE_EPHEMERAL") == "1",
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		PharmacistPassword:    os.Getenv("PHARMACIST_PASSWORD"),
		StoreName:             getEnv("STORE_NAME", "Pioneer Medical Store"),
		StoreAddress:          getEnv("STORE_ADDRESS", "Bada Bazar, Kannauj: 209725"),
		StorePhone:            getEnv("STORE_PHONE", "+91 99191 96590"),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
