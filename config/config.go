package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	AnthropicAPIKey   string
	PineconeAPIKey    string
	OpenAIAPIKey      string
	PineconeIndexName string

	VapiPublicKey   string
	VapiAssistantID string

	CompanyName   string
	CompanyCity   string
	PolicyDocPath string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("[WARN] Could not load .env file: %v", err)
	}

	return &Config{
		Port:              getEnv("PORT", "8000"),
		DatabaseURL:       os.Getenv("DB_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		PineconeIndexName: getEnv("PINECONE_INDEX_NAME", "leadflow-policy-index"),
		VapiPublicKey:     os.Getenv("VAPI_PUBLIC_KEY"),
		VapiAssistantID:   os.Getenv("VAPI_ASSISTANT_ID"),
		CompanyName:       getEnv("COMPANY_NAME", "კომპანია"),
		CompanyCity:       getEnv("COMPANY_CITY", "თბილისი"),
		PolicyDocPath:     getEnv("POLICY_DOC_PATH", "data/company_policy.md"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
