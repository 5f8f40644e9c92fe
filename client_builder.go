package imagesession

import (
	"log/slog"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets a structured logger for the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithStorage sets a storage backend for persisting generated images.
func WithStorage(storage Storage) ClientOption {
	return func(c *Client) {
		c.storage = storage
	}
}

// WithDefaultModel sets the default model used when config.Model is empty.
func WithDefaultModel(model Model) ClientOption {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// NewClient creates a Client with the given provider and options.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	client := imagesession.NewClient(gen)
//
// With options:
//
//	client := imagesession.NewClient(gen,
//	    imagesession.WithLogger(slog.Default()),
//	    imagesession.WithDefaultModel(imagesession.ModelNanoBanana2),
//	)
func NewClient(defaultProvider Generator, opts ...ClientOption) *Client {
	c := New()

	models := defaultProvider.Models()
	for i := range models {
		info := &models[i]

		c.providers[info.Provider] = defaultProvider

		c.RegisterModel(Model(info.Name),
			ModelMapping{
				Provider:        info.Provider,
				ActualModelName: info.APIModelName,
			},
			info)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
