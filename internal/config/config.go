package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Backend string // "ollama" or "openai"

	OllamaURL    string
	OpenAIAPIKey string
	Model        string

	ChatTimeout time.Duration
	SyncTimeout time.Duration

	Temperature float64
	MaxTokens   int

	AllowedOrigins []string
	PersonaFile    string
}

func Load() Config {
	_ = godotenv.Load()
	backend := strings.ToLower(getEnvDefault("BACKEND", "ollama"))
	defaultModel := "llama3"
	if backend == "openai" {
		defaultModel = "gpt-4o-mini"
	}
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		Backend:        backend,
		OllamaURL:      getEnvDefault("OLLAMA_URL", "http://localhost:11434"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:          getEnvDefault("MODEL", defaultModel),
		ChatTimeout:    getEnvSecondsDefault("CHAT_TIMEOUT_SECONDS", 60),
		SyncTimeout:    getEnvSecondsDefault("CHAT_SYNC_TIMEOUT_SECONDS", 120),
		Temperature:    getEnvFloatDefault("TEMPERATURE", 0.2),
		MaxTokens:      getEnvIntDefault("MAX_TOKENS", 300),
		AllowedOrigins: getEnvListDefault("ALLOWED_ORIGINS", []string{"*"}),
		PersonaFile:    getEnvDefault("PERSONA_FILE", "prompts/persona.yaml"),
	}
	if cfg.Backend == "openai" && cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; API calls will fail until provided")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
		log.Printf("warning: ignoring invalid %s=%q", key, v)
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 {
			return f
		}
		log.Printf("warning: ignoring invalid %s=%q", key, v)
	}
	return def
}

func getEnvSecondsDefault(key string, def int) time.Duration {
	return time.Duration(getEnvIntDefault(key, def)) * time.Second
}
