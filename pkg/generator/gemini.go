package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"google.golang.org/genai"
)

// GeminiGenerator はプロンプトだけを入力に Gemini で画像を生成するジェネレーターです。
type GeminiGenerator struct {
	models ContentGenerator
	model  string
}

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
// model が空の場合は DefaultModel を使います。
func NewGeminiGenerator(models ContentGenerator, model string) (*GeminiGenerator, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if model == "" {
		model = DefaultModel
	}

	return &GeminiGenerator{
		models: models,
		model:  model,
	}, nil
}

// NewGeminiClient は API キーから Gemini API バックエンドのクライアントを生成します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// GenerateImage はプロンプトを唯一のコンテンツとして送信し、最初の画像パーツを返します。
// テキストと画像の両方のモダリティを要求します。
func (g *GeminiGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします", "model", g.model, "prompt_len", len(req.Prompt))

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{modalityText, modalityImage},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, err // 上流のメッセージをそのまま呼び出し元に返すのだ
	}

	return parseToResponse(resp)
}

// parseToResponse は最初の候補 (Candidate) からインラインの画像データを探します。
func parseToResponse(resp *genai.GenerateContentResponse) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoImage
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return nil, fmt.Errorf("%w (FinishReason: %s)", ErrNoImage, candidate.FinishReason)
	}
	return nil, ErrNoImage
}
