package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr     string
	GinMode     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBName      string
	JWTSecret   string
	CORSOrigins string
}

func LoadEnv() Env {
	return Env{
		AppAddr:     envOr("APP_ADDR", ":8080"),
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:      envOr("DB_USER", "root"),
		DBPassword:  strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBHost:      envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:      envOr("DB_NAME", "locadora"),
		JWTSecret:   envOr("JWT_SECRET", "troque-esta-chave-em-producao"),
		CORSOrigins: strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
