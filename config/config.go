package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	LLMProvider       string
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	PineconeAPIKey    string
	PineconeIndexName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DB_URL"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		LLMProvider:       getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName: getEnv("PINECONE_INDEX_NAME", "studyquiz-materials-index"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
