package generator

import (
	"context"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"google.golang.org/genai"
)

// ImageGenerator はプロンプトから画像を生成する統合窓口です。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// ContentGenerator は Gemini の GenerateContent 呼び出しを抽象化するインターフェースです。
// *genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
