package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/worker"
)

// OpenAIProvider speaks the OpenAI chat API. With a BaseURL override it also
// covers any OpenAI-compatible server, which is how Ollama is reached.
type OpenAIProvider struct {
	client  *openai.Client
	config  model.LLMConfig
	name    string
	limiter *worker.Limiter
	host    string
	log     *zap.Logger
}

// NewOpenAIProvider creates a provider for the OpenAI API.
func NewOpenAIProvider(config model.LLMConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return newChatProvider(config, "openai", log)
}

func newChatProvider(config model.LLMConfig, name string, log *zap.Logger) (*OpenAIProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	rps := config.RateLimit
	if rps <= 0 {
		rps = 1
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		name:    name,
		limiter: worker.NewLimiter(rps, 1),
		host:    hostOf(clientConfig.BaseURL),
		log:     log,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks the endpoint answers a lightweight call.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		p.log.Warn("llm availability check failed",
			zap.String("provider", p.name),
			zap.Error(err))
		return false
	}
	return true
}

// Extract asks the model for mention records and parses its JSON reply.
// Transport errors surface; a garbled reply degrades to an empty dataset.
func (p *OpenAIProvider) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.limiter.Wait(ctxWithTimeout, p.host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract genealogical facts from historical French text and answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req.Text),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	out := &ExtractResponse{
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
	}
	out.Dataset = parseDataset(strings.TrimSpace(resp.Choices[0].Message.Content), req.Source, p.log)
	return out, nil
}

// parseDataset reads the model's reply leniently. Anything unparseable
// yields an empty dataset so the caller can fall back to regex extraction.
func parseDataset(reply, source string, log *zap.Logger) model.Dataset {
	if log == nil {
		log = zap.NewNop()
	}
	var ds model.Dataset

	raw, err := extractJSON(reply)
	if err != nil {
		log.Warn("llm reply had no JSON, dropping", zap.Error(err))
		return ds
	}
	if err := json.Unmarshal([]byte(raw), &ds); err != nil {
		log.Warn("llm reply failed to parse, dropping", zap.Error(err))
		return model.Dataset{}
	}
	sanitizeDataset(&ds, source)
	return ds
}

func hostOf(baseURL string) string {
	if baseURL == "" {
		return "api.openai.com"
	}
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return baseURL
}
