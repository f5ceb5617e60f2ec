package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Providers selectable per deployment. The strategy is fixed at startup and
// never switched at runtime.
const (
	ProviderOpenAI  = "openai"
	ProviderTextGen = "textgen"
)

// Config aggregates every setting for the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
	}
	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig selects and parameterizes the inference strategy.
type AIConfig struct {
	Provider       string
	OpenAIModel    string
	ImageModel     string
	ImagesEnabled  bool
	TextGenURL     string
	TextGenTimeout time.Duration
	APIKey         string
	SuggestLLM     bool
}

// Enabled reports whether an inference provider is configured at all.
func (c AIConfig) Enabled() bool {
	return c.Provider != ""
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER")))
	switch provider {
	case "", ProviderOpenAI, ProviderTextGen:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q: expected %q or %q", provider, ProviderOpenAI, ProviderTextGen)
	}

	imagesEnabled, err := parseBoolEnv("OPENAI_IMAGES_ENABLED", true)
	if err != nil {
		return AIConfig{}, err
	}

	suggestLLM, err := parseBoolEnv("SUGGEST_LLM_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	timeoutSeconds, err := parseOptionalIntEnv("TEXTGEN_TIMEOUT")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := 60 * time.Second
	if timeoutSeconds != nil {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	cfg := AIConfig{
		Provider:       provider,
		OpenAIModel:    getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		ImageModel:     getEnvOrDefault("OPENAI_IMAGE_MODEL", "dall-e-3"),
		ImagesEnabled:  imagesEnabled,
		TextGenURL:     strings.TrimSpace(os.Getenv("TEXTGEN_URL")),
		TextGenTimeout: timeout,
		SuggestLLM:     suggestLLM,
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case ProviderTextGen:
		cfg.APIKey = strings.TrimSpace(os.Getenv("TEXTGEN_API_KEY"))
		if cfg.TextGenURL == "" {
			return AIConfig{}, fmt.Errorf("TEXTGEN_URL is required when AI_PROVIDER=%s", ProviderTextGen)
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
