// Package gemini provides a Generator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
//
// For Vertex AI or other Google Cloud backends, a separate provider implementation
// could be created using the same SDK with a different backend configuration.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pixelworks/imagesession"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana2 is the actual API name for Gemini 3 Pro Image
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"

	// APIModelNanoBanana1 is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana1 = "gemini-2.5-flash-image"
)

// GeminiGenerator implements imagesession.Generator using Google's Gemini API.
// It is stateless with respect to conversations: the full turn history
// arrives with every call, so one generator can serve many sessions.
type GeminiGenerator struct {
	client         *genai.Client
	safetySettings []*genai.SafetySetting
	mu             sync.RWMutex
}

// Ensure GeminiGenerator implements the interface.
var _ imagesession.Generator = (*GeminiGenerator)(nil)

// New creates a new GeminiGenerator from a ProviderConfig. Credentials are
// checked here, once: an explicit APIKey wins, otherwise the SDK's ambient
// environment variables are accepted. Missing credentials fail construction
// with a ConfigurationError rather than surfacing on the first call.
func New(ctx context.Context, config *imagesession.ProviderConfig) (*GeminiGenerator, error) {
	if config == nil {
		config = &imagesession.ProviderConfig{}
	}

	if config.APIKey == "" && os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return nil, &imagesession.ConfigurationError{
			Field:  "APIKey",
			Reason: "no API key provided and neither GEMINI_API_KEY nor GOOGLE_API_KEY is set",
		}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return New(ctx, &imagesession.ProviderConfig{
		Provider: imagesession.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// SetSafetySettings configures default safety settings for all requests.
// These can be overridden per-request via GenerateConfig.SafetySettings.
func (g *GeminiGenerator) SetSafetySettings(settings []imagesession.SafetySetting) *GeminiGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.safetySettings = convertSafetySettings(settings)
	return g
}

// Generate submits the ordered turn history as a single request and
// translates the service response into the core Response tree. The call is
// one complete round trip; no retry is performed here.
func (g *GeminiGenerator) Generate(ctx context.Context, history []imagesession.Turn, config *imagesession.GenerateConfig) (*imagesession.Response, error) {
	if len(history) == 0 {
		return nil, imagesession.ErrEmptyPrompt
	}

	if config == nil {
		config = imagesession.DefaultConfig()
	}

	modelName := g.resolveModel(config)
	contents := convertHistory(history)
	genConfig := g.buildGenerateContentConfig(config)

	result, err := g.client.Models.GenerateContent(ctx, modelName, contents, genConfig)
	if err != nil {
		if rlErr := checkRateLimitError(err, modelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, &imagesession.TransportError{Model: modelName, Err: err}
	}

	return translateResponse(result), nil
}

// Models returns the model definitions supported by this provider.
// The first model (NanoBanana2) is the default.
func (g *GeminiGenerator) Models() []imagesession.ModelInfo {
	return []imagesession.ModelInfo{
		NanoBanana2Info,
		NanoBanana1Info,
	}
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// resolveModel determines which API model name to use.
// Falls back to the first model (default) if none specified.
func (g *GeminiGenerator) resolveModel(config *imagesession.GenerateConfig) string {
	if config != nil && config.Model != "" {
		return string(config.Model)
	}
	models := g.Models()
	if len(models) == 0 {
		return APIModelNanoBanana2
	}
	return models[0].APIModelName
}

// convertHistory translates the core turn history into the SDK's content
// list, preserving roles and part order. Parts of an unrecognized kind are
// skipped, not fatal.
func convertHistory(history []imagesession.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, part := range turn.Parts {
			switch part.Kind() {
			case imagesession.PartKindText:
				parts = append(parts, &genai.Part{Text: part.Text})
			case imagesession.PartKindInline:
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						Data:     part.Inline.Data,
						MIMEType: part.Inline.MIMEType,
					},
				})
			}
		}
		contents = append(contents, &genai.Content{
			Role:  string(turn.Role),
			Parts: parts,
		})
	}
	return contents
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func (g *GeminiGenerator) buildGenerateContentConfig(config *imagesession.GenerateConfig) *genai.GenerateContentConfig {
	modalities := make([]string, 0, len(config.ResponseModalities))
	for _, m := range config.ResponseModalities {
		modalities = append(modalities, string(m))
	}
	if len(modalities) == 0 {
		modalities = []string{"TEXT", "IMAGE"}
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: modalities,
	}

	if config.EnableGrounding {
		genConfig.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	// Image configuration
	imageConfig := &genai.ImageConfig{}

	if config.Size != "" {
		imageConfig.ImageSize = config.Size.String()
	}

	if config.AspectRatio != "" {
		imageConfig.AspectRatio = config.AspectRatio.String()
	}

	genConfig.ImageConfig = imageConfig

	// Temperature
	if config.Temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(*config.Temperature))
	}

	// Thinking mode configuration
	if config.EnableThinking {
		genConfig.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
		}
	}

	// Safety settings: per-request overrides provider defaults
	g.mu.RLock()
	defaults := g.safetySettings
	g.mu.RUnlock()
	if len(config.SafetySettings) > 0 {
		genConfig.SafetySettings = convertSafetySettings(config.SafetySettings)
	} else if len(defaults) > 0 {
		genConfig.SafetySettings = defaults
	}

	return genConfig
}

// convertSafetySettings converts our SafetySettings to Gemini's format.
func convertSafetySettings(settings []imagesession.SafetySetting) []*genai.SafetySetting {
	result := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		result = append(result, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return result
}

// translateResponse converts the SDK response into the core candidate/part
// tree. Candidate and part order is preserved exactly; thought parts and
// parts of unknown kind are dropped. A nil or candidate-free SDK response
// becomes an empty Response, a valid degenerate outcome the extractor
// reports as ErrNoImageProduced.
func translateResponse(result *genai.GenerateContentResponse) *imagesession.Response {
	resp := &imagesession.Response{}
	if result == nil {
		return resp
	}

	for _, candidate := range result.Candidates {
		c := imagesession.Candidate{}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Thought {
					continue
				}
				if part.Text != "" {
					c.Parts = append(c.Parts, imagesession.TextPart(part.Text))
					continue
				}
				if part.InlineData != nil && part.InlineData.Data != nil {
					c.Parts = append(c.Parts, imagesession.InlinePart(part.InlineData.MIMEType, part.InlineData.Data))
				}
			}
		}
		resp.Candidates = append(resp.Candidates, c)
	}

	if result.UsageMetadata != nil {
		resp.Usage = &imagesession.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp
}

// ImageFromBytes wraps raw bytes as an input image.
func ImageFromBytes(data []byte, mimeType string) imagesession.InputImage {
	return imagesession.InputImage{
		Data:     data,
		MIMEType: mimeType,
	}
}

// ImageFromBase64 decodes a base64 payload into an input image.
func ImageFromBase64(b64 string, mimeType string) (imagesession.InputImage, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return imagesession.InputImage{}, fmt.Errorf("invalid base64: %w", err)
	}
	return imagesession.InputImage{
		Data:     data,
		MIMEType: mimeType,
	}, nil
}

// checkRateLimitError checks if an error from the Gemini API is a rate limit error.
// If so, it wraps it in a RateLimitError for standardized handling; otherwise returns nil.
func checkRateLimitError(err error, model string) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	if apiErr.Code != 429 && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}

	return &imagesession.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
