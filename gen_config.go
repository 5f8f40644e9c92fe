package imagesession

import (
	"time"
)

// Model represents a specific image generation model.
type Model string

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}

// Modality is a category of content the service is asked to produce.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
)

// ImageSize represents the output resolution for generated images.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// String returns the string representation for API calls.
func (s ImageSize) String() string {
	return string(s)
}

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio2x3  AspectRatio = "2:3"  // Photo portrait
	AspectRatio3x2  AspectRatio = "3:2"  // Photo landscape (35mm film ratio)
	AspectRatio4x5  AspectRatio = "4:5"  // Instagram portrait
	AspectRatio5x4  AspectRatio = "5:4"  // Large format photo
	AspectRatio21x9 AspectRatio = "21:9" // Ultrawide/cinematic
	AspectRatioAuto AspectRatio = ""
)

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// SafetyCategory represents a content safety category.
type SafetyCategory string

const (
	SafetyCategoryHarassment       SafetyCategory = "HARM_CATEGORY_HARASSMENT"
	SafetyCategoryHateSpeech       SafetyCategory = "HARM_CATEGORY_HATE_SPEECH"
	SafetyCategorySexuallyExplicit SafetyCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	SafetyCategoryDangerousContent SafetyCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// SafetyThreshold represents the blocking threshold for safety filters.
type SafetyThreshold string

const (
	SafetyThresholdBlockNone      SafetyThreshold = "BLOCK_NONE"
	SafetyThresholdBlockLowAndUp  SafetyThreshold = "BLOCK_LOW_AND_ABOVE"
	SafetyThresholdBlockMedAndUp  SafetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	SafetyThresholdBlockHighAndUp SafetyThreshold = "BLOCK_ONLY_HIGH"
)

// SafetySetting configures content filtering for a specific category.
type SafetySetting struct {
	Category  SafetyCategory
	Threshold SafetyThreshold
}

// GenerateConfig holds configuration options for a generation request or
// session. It is immutable per session: SendTurn submits the same config on
// every turn.
type GenerateConfig struct {
	// Model to use for generation (if empty, uses the client's default)
	Model Model

	// ResponseModalities the service should produce. Image generation
	// requires ModalityImage; most models also require ModalityText
	// alongside it.
	ResponseModalities []Modality

	// Size of the output image (1K, 2K, 4K)
	Size ImageSize

	// AspectRatio of the output image
	AspectRatio AspectRatio

	// NumberOfImages to generate (1-4 typically)
	NumberOfImages int

	// EnableGrounding enables Google Search grounding for real-time data
	EnableGrounding bool

	// EnableThinking enables the model's thinking mode for complex prompts
	EnableThinking bool

	// Temperature controls randomness (0.0-2.0, default 1.0)
	Temperature *float32

	// SafetySettings for content filtering
	SafetySettings []SafetySetting

	// WaitOnRateLimit, if true, causes the client to wait for local rate
	// limit capacity instead of returning a RateLimitError immediately.
	// The remote call itself is never retried.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time to wait when WaitOnRateLimit is
	// true. Zero means no limit.
	MaxWaitDuration time.Duration
}

// Validate checks that the config can produce images. Called once at
// session construction, not per turn.
func (c *GenerateConfig) Validate() error {
	if c == nil {
		return nil
	}
	if len(c.ResponseModalities) == 0 {
		return nil // provider applies its TEXT+IMAGE default
	}
	for _, m := range c.ResponseModalities {
		if m == ModalityImage {
			return nil
		}
	}
	return &ConfigurationError{
		Field:  "ResponseModalities",
		Reason: "must include IMAGE for image generation",
	}
}

// WithModel returns a copy of the config with the specified model.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	if c == nil {
		return &GenerateConfig{Model: model}
	}
	cX := *c
	cX.Model = model
	return &cX
}

// DefaultConfig returns a GenerateConfig with sensible defaults.
func DefaultConfig() *GenerateConfig {
	temp := float32(1.0)
	return &GenerateConfig{
		Model:              ModelDefault,
		ResponseModalities: []Modality{ModalityText, ModalityImage},
		Size:               ImageSize2K,
		AspectRatio:        AspectRatioAuto,
		NumberOfImages:     1,
		EnableThinking:     false,
		Temperature:        &temp,
	}
}

// DefaultConfigWithModel returns a default config with the specified model.
func DefaultConfigWithModel(model Model) *GenerateConfig {
	config := DefaultConfig()
	config.Model = model
	return config
}
