package imagesession

import "context"

// Generator is the boundary to the remote generation service. Implement
// this interface to add support for new models or providers.
//
// Generate submits an ordered conversation history as a single request and
// returns the complete response. Implementations hold no conversational
// state of their own: continuity lives entirely in the history the caller
// passes, so a Generator is safe to share across sessions.
//
// The first model returned by Models() is considered the default model.
type Generator interface {
	// Generate submits the full ordered history and returns the response.
	// A single-shot request is a history of exactly one user turn.
	Generate(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error)

	// Models returns the model definitions supported by this provider.
	// The first model in the list is the default.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}

// Storage is an interface for persisting generated images to cloud or
// local storage. Implementations can wrap existing storage clients
// (GCS, S3, etc.) with this interface.
type Storage interface {
	// SaveFile saves image data to storage and returns the public URL.
	// The path should include the full object path (e.g., "images/2024/01/output.png").
	// The contentType is typically the image's MIME type (e.g., "image/png").
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}
