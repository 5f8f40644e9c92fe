package gemini

import "github.com/pixelworks/imagesession"

// NanoBanana2Info is the model info for Gemini 3 Pro Image (nano-banana-2).
//
// Nano Banana Pro (official name: Gemini 3 Pro Image) is Google DeepMind's
// image generation and editing model, built on Gemini 3 Pro.
var NanoBanana2Info = imagesession.ModelInfo{
	Name:         "nano-banana-2",
	Provider:     imagesession.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana2,

	Capabilities: imagesession.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsSessions:     true,
		SupportsStreaming:    false,
		SupportsGrounding:    true,
		SupportsThinking:     true,
		MaxInputImages:       14,
		MaxOutputImages:      4,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: imagesession.ImageConstraints{
		SupportedAspectRatios: []imagesession.AspectRatio{
			imagesession.AspectRatio1x1,
			imagesession.AspectRatio16x9,
			imagesession.AspectRatio9x16,
			imagesession.AspectRatio4x3,
			imagesession.AspectRatio3x4,
			imagesession.AspectRatio2x3,
			imagesession.AspectRatio3x2,
			imagesession.AspectRatio4x5,
			imagesession.AspectRatio5x4,
			imagesession.AspectRatio21x9,
		},
		SupportedSizes: []imagesession.ImageSize{
			imagesession.ImageSize1K,
			imagesession.ImageSize2K,
			imagesession.ImageSize4K,
		},
	},

	RateLimits: imagesession.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 360,
		TokensPerDay:      1000000000,
	},

	// Pricing as of November 2025 for prompts ≤200K tokens.
	// For prompts >200K tokens, prices double ($4/$24 per million).
	// Image output is priced at ~$120/million tokens ($0.039 per 1024x1024 image).
	Pricing: imagesession.Pricing{
		InputTokensPerMillion:  2.00,
		OutputTokensPerMillion: 12.00,
	},
}

// NanoBanana1Info is the model info for Gemini 2.5 Flash Image (nano-banana-1).
var NanoBanana1Info = imagesession.ModelInfo{
	Name:         "nano-banana-1",
	Provider:     imagesession.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,

	Capabilities: imagesession.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsSessions:     true,
		SupportsStreaming:    false,
		SupportsGrounding:    true,
		SupportsThinking:     true,
		MaxInputImages:       14, // Practical limit
		MaxOutputImages:      4,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: imagesession.ImageConstraints{
		SupportedAspectRatios: []imagesession.AspectRatio{
			imagesession.AspectRatio1x1,
			imagesession.AspectRatio16x9,
			imagesession.AspectRatio9x16,
			imagesession.AspectRatio4x3,
			imagesession.AspectRatio3x4,
			imagesession.AspectRatio2x3,
			imagesession.AspectRatio3x2,
			imagesession.AspectRatio4x5,
			imagesession.AspectRatio5x4,
			imagesession.AspectRatio21x9,
		},

		// Flash Image only supports ~1024px output (1K)
		SupportedSizes: []imagesession.ImageSize{
			imagesession.ImageSize1K,
		},
	},

	RateLimits: imagesession.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 500, // ~500 RPM for Tier 1
		TokensPerDay:      1000000000,
	},

	Pricing: imagesession.Pricing{
		InputTokensPerMillion:  0.15,
		OutputTokensPerMillion: 0.60,
	},
}
