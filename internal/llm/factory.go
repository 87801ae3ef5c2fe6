package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// NewProvider creates the configured provider. An empty provider name means
// the extractor is disabled and returns (nil, nil).
func NewProvider(config model.LLMConfig, log *zap.Logger) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, log)

	case "ollama":
		return NewOllamaProvider(config, log)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
