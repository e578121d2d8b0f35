package domain

// ImageGenerationRequest はプロンプトからの単一画像生成要求です。
type ImageGenerationRequest struct {
	Prompt string
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
