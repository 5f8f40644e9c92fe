package imagesession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixelworks/imagesession/ratelimiter"
)

const (
	ModelNanoBanana2 Model = "nano-banana-2" // Gemini 3 Pro Image

	ModelDefault Model = ModelNanoBanana2
)

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrProviderNotConfigured is returned when a provider lacks required config.
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI Provider = "gemini"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	// Provider type
	Provider Provider

	// APIKey for authentication
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string
}

// ModelMapping maps a model identifier to its provider and actual model name.
type ModelMapping struct {
	Provider        Provider
	ActualModelName string
}

// Client routes generation requests to the appropriate provider based on
// the Model in GenerateConfig, applies per-model rate limiting, and hands
// out sessions for multi-turn refinement.
type Client struct {
	// Model to provider mapping
	modelMappings map[Model]ModelMapping

	// Provider instances
	providers map[Provider]Generator

	// Default model to use when config.Model is empty
	defaultModel Model

	// Rate limiting (per model)
	rateLimiters map[Model]ratelimiter.Limiter

	// Model info (per model)
	modelInfo map[Model]*ModelInfo

	// Logger for structured logging (optional)
	logger *slog.Logger

	// Storage for persisting generated images (optional)
	storage Storage

	tokenEstimator TokenEstimator

	mu sync.RWMutex
}

// Ensure Client itself satisfies the generation boundary.
var _ Generator = (*Client)(nil)

// New creates an empty Client. Most callers should use NewClient, which
// registers a provider's models in one step.
func New() *Client {
	return &Client{
		logger:         slog.Default(),
		modelMappings:  make(map[Model]ModelMapping),
		providers:      make(map[Provider]Generator),
		rateLimiters:   make(map[Model]ratelimiter.Limiter),
		modelInfo:      make(map[Model]*ModelInfo),
		tokenEstimator: NewSimpleTokenEstimator(),
		defaultModel:   ModelDefault,
	}
}

// RegisterModel registers a model with full info (including rate limits).
// Uses the default in-memory rate limiter. Use SetRateLimiter to override with a custom implementation.
func (c *Client) RegisterModel(model Model, mapping ModelMapping, info *ModelInfo) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modelMappings[model] = mapping
	c.modelInfo[model] = info

	// Create default in-memory rate limiter from model's rate limits
	if info.RateLimits.TokensPerMinute > 0 || info.RateLimits.RequestsPerMinute > 0 {
		c.rateLimiters[model] = ratelimiter.New(
			info.RateLimits.TokensPerMinute,
			info.RateLimits.RequestsPerMinute,
		)
	}

	return c
}

// SetRateLimiter sets a custom rate limiter for a model.
// Use this to swap in a distributed rate limiter for production.
func (c *Client) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rateLimiters[model] = limiter
	return c
}

// SetDefaultModel sets the default model used when config.Model is empty.
func (c *Client) SetDefaultModel(model Model) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.defaultModel = model
	return c
}

// SetLogger sets a structured logger for the client.
// When set, the client logs generation requests, completions, errors, and rate limiting events.
func (c *Client) SetLogger(logger *slog.Logger) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger = logger
	return c
}

// SetStorage sets a storage backend for persisting generated images.
// Use SaveResponse to save images after generation.
func (c *Client) SetStorage(storage Storage) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.storage = storage
	return c
}

// Storage returns the configured storage backend, or nil if not set.
func (c *Client) Storage() Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storage
}

// SaveResponse saves all inline images from a response to the configured
// storage. Returns StorageResults for each saved image, or an error.
// If no storage is configured, returns ErrStorageNotConfigured.
func (c *Client) SaveResponse(ctx context.Context, resp *Response, basePath string) ([]StorageResult, error) {
	c.mu.RLock()
	storage := c.storage
	c.mu.RUnlock()

	return SaveToStorage(ctx, storage, resp, basePath)
}

// GeneratePrompt creates images from a single text prompt, outside of any
// session. It submits a history of exactly one user turn.
func (c *Client) GeneratePrompt(ctx context.Context, prompt string, config *GenerateConfig) (*Response, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	return c.Generate(ctx, []Turn{UserTurn(prompt)}, config)
}

// Edit modifies an existing image based on a text instruction.
func (c *Client) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*Response, error) {
	if err := ValidatePrompt(instruction); err != nil {
		return nil, err
	}
	if err := ValidateInputImage(image); err != nil {
		return nil, err
	}
	return c.Generate(ctx, []Turn{UserTurn(instruction, image)}, config)
}

// EditMultiple performs editing with multiple reference images.
func (c *Client) EditMultiple(ctx context.Context, images []InputImage, instruction string, config *GenerateConfig) (*Response, error) {
	if err := ValidatePrompt(instruction); err != nil {
		return nil, err
	}
	if err := ValidateInputImages(images); err != nil {
		return nil, err
	}
	return c.Generate(ctx, []Turn{UserTurn(instruction, images...)}, config)
}

// Generate submits an ordered conversation history to the provider that
// serves the resolved model. This is the Generator implementation backing
// both single-shot calls and sessions started with StartSession.
func (c *Client) Generate(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
	if config == nil {
		config = DefaultConfig()
	}

	model := c.resolveModel(config)
	start := time.Now()

	c.logger.Debug("starting generation",
		"model", string(model),
		"history_len", len(history),
	)

	// Check rate limit
	if err := c.checkRateLimit(ctx, model, config, promptText(history)); err != nil {
		c.logger.Warn("rate limit hit",
			"model", string(model),
			"error", err.Error(),
		)
		return nil, err
	}

	gen, actualConfig, err := c.generatorForConfig(config)
	if err != nil {
		c.logger.Error("failed to get generator",
			"model", string(model),
			"error", err.Error(),
		)

		return nil, err
	}

	resp, err := gen.Generate(ctx, history, actualConfig)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("generation failed",
			"model", string(model),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)

		return nil, err
	}

	// Log success with usage metadata
	logAttrs := []any{
		"model", string(model),
		"duration_ms", duration.Milliseconds(),
		"candidate_count", len(resp.Candidates),
		"image_count", len(ExtractImages(resp)),
	}
	if resp.Usage != nil {
		logAttrs = append(logAttrs,
			"prompt_tokens", resp.Usage.PromptTokens,
			"response_tokens", resp.Usage.CandidatesTokens,
			"total_tokens", resp.Usage.TotalTokens,
		)
	}
	c.logger.Info("generation completed", logAttrs...)

	return resp, nil
}

// StartSession begins a multi-turn refinement session routed through this
// client. The config is fixed for the session's lifetime; pass nil for
// defaults.
func (c *Client) StartSession(config *GenerateConfig) (*Session, error) {
	return NewSession(c, config, WithSessionLogger(c.logger))
}

// StartSessionWithModel begins a session pinned to a specific model.
func (c *Client) StartSessionWithModel(model Model, config *GenerateConfig) (*Session, error) {
	return c.StartSession(config.WithModel(model))
}

// Models returns all registered model definitions.
func (c *Client) Models() []ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	models := make([]ModelInfo, 0, len(c.modelInfo))
	for _, info := range c.modelInfo {
		if info != nil {
			models = append(models, *info)
		}
	}
	return models
}

// ListModels returns all registered model identifiers.
func (c *Client) ListModels() []Model {
	c.mu.RLock()
	defer c.mu.RUnlock()

	models := make([]Model, 0, len(c.modelMappings))
	for model := range c.modelMappings {
		models = append(models, model)
	}
	return models
}

// GetModelProvider returns the provider for a model.
func (c *Client) GetModelProvider(model Model) (Provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mapping, ok := c.modelMappings[model]
	if !ok {
		return "", false
	}
	return mapping.Provider, true
}

// GetModelInfo returns model information for a specific model.
func (c *Client) GetModelInfo(model Model) (*ModelInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.modelInfo[model]
	return info, ok
}

// Close releases all provider resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for provider, gen := range c.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	c.providers = make(map[Provider]Generator)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// checkRateLimit checks rate limits for a model and optionally waits.
func (c *Client) checkRateLimit(ctx context.Context, model Model, config *GenerateConfig, prompt string) error {

	const (
		tokenBuffer = 100
	)

	c.mu.RLock()
	limiter := c.rateLimiters[model]
	c.mu.RUnlock()

	if limiter == nil {
		return nil
	}

	estimatedTokens := c.tokenEstimator.EstimateTokens(prompt)

	estimatedTokens += tokenBuffer

	if config.WaitOnRateLimit {
		return limiter.WaitAndConsume(ctx, estimatedTokens, config.MaxWaitDuration)
	}

	if !limiter.TryConsume(estimatedTokens) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
			LimitType:  "tokens",
			Model:      string(model),
		}
	}

	return nil
}

// resolveModel determines the actual model to use.
func (c *Client) resolveModel(config *GenerateConfig) Model {
	model := ModelDefault
	if config != nil && config.Model != "" {
		model = config.Model
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if model == ModelDefault {
		model = c.defaultModel
	}

	return model
}

// generatorForConfig returns the appropriate generator and adjusted config.
func (c *Client) generatorForConfig(config *GenerateConfig) (Generator, *GenerateConfig, error) {
	model := c.resolveModel(config)

	c.mu.RLock()
	mapping, ok := c.modelMappings[model]
	c.mu.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
	}

	gen, err := c.getProvider(mapping.Provider)
	if err != nil {
		return nil, nil, err
	}

	actualConfig := config
	if actualConfig == nil {
		actualConfig = DefaultConfig()
	}
	configCopy := *actualConfig
	configCopy.Model = Model(mapping.ActualModelName)

	return gen, &configCopy, nil
}

// getProvider returns the provider instance for the given provider type.
func (c *Client) getProvider(provider Provider) (Generator, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	gen, ok := c.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}
	return gen, nil
}

// promptText flattens the text parts of the most recent user turn, used
// for token estimation against the rate limiter.
func promptText(history []Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != RoleUser {
			continue
		}
		var text string
		for _, part := range history[i].Parts {
			if part.Kind() == PartKindText {
				text += part.Text
			}
		}
		return text
	}
	return ""
}
