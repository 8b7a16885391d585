package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// NVIDIA NIM (OpenAI-compatible) completion endpoint
	NvidiaAPIKey string
	GatewayURL   string
	Model        string
	STTModel     string
	// Optional YAML file overriding the embedded persona facts
	FactsFile string
	// ElevenLabs synthesis proxy
	ElevenAPIKey  string
	ElevenBaseURL string
	ElevenVoiceID string
	ElevenModel   string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:          getEnvDefault("PORT", "8080"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		NvidiaAPIKey:  os.Getenv("NVIDIA_API_KEY"),
		GatewayURL:    getEnvDefault("NVIDIA_API_URL", "https://integrate.api.nvidia.com/v1"),
		Model:         getEnvDefault("NVIDIA_MODEL", "openai/gpt-oss-120b"),
		STTModel:      getEnvDefault("STT_MODEL", "whisper-1"),
		FactsFile:     os.Getenv("FACTS_FILE"),
		ElevenAPIKey:  os.Getenv("ELEVEN_API_KEY"),
		ElevenBaseURL: getEnvDefault("ELEVEN_BASE_URL", "https://api.elevenlabs.io"),
		ElevenVoiceID: os.Getenv("ELEVEN_VOICE_ID"),
		ElevenModel:   getEnvDefault("ELEVEN_MODEL_ID", "eleven_multilingual_v2"),
	}
	if cfg.NvidiaAPIKey == "" {
		log.Println("warning: NVIDIA_API_KEY is not set; chat requests will fail until provided")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
