package imagesession

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns an ordered, append-only conversation history and threads it
// into every request so each new prompt is interpreted in the context of
// prior turns and prior generated images.
//
// History is exclusively owned by the session and grows monotonically: one
// user turn per SendTurn call, plus one model turn when the call succeeds.
// Past turns are never rewritten or removed. Only the first candidate of a
// response is carried forward into subsequent-turn context; alternate
// candidates remain readable on the returned Response.
//
// A session is single-writer: SendTurn serializes callers, so at most one
// request is in flight per session at a time. Independent sessions share
// no mutable state and may run concurrently.
type Session struct {
	id     string
	gen    Generator
	config *GenerateConfig
	logger *slog.Logger

	history []Turn
	mu      sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets a structured logger for the session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session backed by the given generator. The config is
// validated here, once, not per turn; a config that cannot produce images
// fails with a ConfigurationError.
func NewSession(gen Generator, config *GenerateConfig, opts ...SessionOption) (*Session, error) {
	if gen == nil {
		return nil, &ConfigurationError{Field: "generator", Reason: "must not be nil"}
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.NewString(),
		gen:     gen,
		config:  config,
		logger:  slog.Default(),
		history: make([]Turn, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session identifier, used for log correlation.
func (s *Session) ID() string {
	return s.id
}

// SendTurn appends the prompt as a user turn, submits the entire
// accumulated history to the generation service as a single ordered
// request, appends the first candidate's parts as the model turn, and
// returns the response unmodified.
//
// If the call fails or is cancelled mid-flight, no model turn is appended;
// the user turn already appended stays, so a retried SendTurn with the same
// prompt will duplicate it. Callers needing idempotent retry must
// de-duplicate above this layer.
func (s *Session) SendTurn(ctx context.Context, prompt string) (*Response, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	return s.send(ctx, UserTurn(prompt))
}

// SendTurnWithImages sends a prompt together with reference images, for
// edit-style refinements inside a session. Images precede the prompt in
// part order.
func (s *Session) SendTurnWithImages(ctx context.Context, prompt string, images []InputImage) (*Response, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := ValidateInputImages(images); err != nil {
			return nil, err
		}
	}
	return s.send(ctx, UserTurn(prompt, images...))
}

func (s *Session) send(ctx context.Context, userTurn Turn) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, userTurn)

	start := time.Now()
	s.logger.Debug("sending session turn",
		"session_id", s.id,
		"turn", len(s.history),
		"model", string(s.config.Model),
	)

	resp, err := s.gen.Generate(ctx, s.historyCopyLocked(), s.config)
	duration := time.Since(start)

	if err != nil {
		// The turn never happened from the session's point of view:
		// the model turn is not appended, the user turn stays.
		s.logger.Error("session turn failed",
			"session_id", s.id,
			"turn", len(s.history),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	modelTurn := Turn{Role: RoleModel}
	if len(resp.Candidates) > 0 {
		modelTurn.Parts = resp.Candidates[0].Parts
	}
	s.history = append(s.history, modelTurn)

	s.logger.Info("session turn completed",
		"session_id", s.id,
		"history_len", len(s.history),
		"duration_ms", duration.Milliseconds(),
		"image_count", len(ExtractImages(resp)),
	)

	return resp, nil
}

// History returns a copy of the conversation history.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyCopyLocked()
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) historyCopyLocked() []Turn {
	historyCopy := make([]Turn, len(s.history))
	copy(historyCopy, s.history)
	return historyCopy
}
