package api

import (
	"context"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
)

// mockGenerator は generator.ImageGenerator のテスト用モックなのだ。
type mockGenerator struct {
	generateFunc func(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
	calls        int
	lastPrompt   string
}

func (m *mockGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	m.calls++
	m.lastPrompt = req.Prompt
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &domain.ImageResponse{Data: []byte("fake"), MimeType: "image/png"}, nil
}
