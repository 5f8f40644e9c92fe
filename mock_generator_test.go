package imagesession

import (
	"context"
)

// MockGenerator is a mock implementation of Generator.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error)
	ModelsFunc   func() []ModelInfo
	CloseFunc    func() error
}

func (m *MockGenerator) Generate(ctx context.Context, history []Turn, config *GenerateConfig) (*Response, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, history, config)
	}
	return &Response{}, nil
}

func (m *MockGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
