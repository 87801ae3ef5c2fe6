package llm

import (
	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultOllamaModel   = "llama3.2"
)

// NewOllamaProvider reaches a local Ollama server through its
// OpenAI-compatible endpoint. No API key is needed; the client library
// still wants a non-empty one.
func NewOllamaProvider(config model.LLMConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultOllamaBaseURL
	}
	if config.Model == "" {
		config.Model = defaultOllamaModel
	}
	if config.APIKey == "" {
		config.APIKey = "ollama"
	}
	return newChatProvider(config, "ollama", log)
}
