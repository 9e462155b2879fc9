package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	Port          string
	Env           string
	LLMProvider   string
	LLMModel      string
	GeminiKey     string
	OpenAIKey     string
	RetentionDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        os.Getenv("PORT"),
		Env:         os.Getenv("ENV"),
		LLMProvider: os.Getenv("LLM_PROVIDER"),
		LLMModel:    os.Getenv("LLM_MODEL"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "gemini"
	}

	cfg.RetentionDays = 90
	if v := os.Getenv("LOG_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.RetentionDays = days
		}
	}

	return cfg
}
