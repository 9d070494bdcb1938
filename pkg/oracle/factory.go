package oracle

import (
	"fmt"
	"time"
)

const defaultTimeout = 120 * time.Second

func NewOracle(providerType, modelName, ollamaBaseURL, geminiAPIKey string, timeout time.Duration) (Oracle, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	switch providerType {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return NewGeminiOracle(geminiAPIKey, modelName, timeout), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return NewOllamaOracle(ollamaBaseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", providerType)
	}
}
