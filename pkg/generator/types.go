package generator

import "errors"

const (
	// DefaultModel は画像生成に使用する Gemini のモデル名です。
	DefaultModel = "gemini-2.0-flash-preview-image-generation"

	modalityText  = "TEXT"
	modalityImage = "IMAGE"
)

var (
	// ErrAPIKeyMissing は Gemini の API キーが設定されていない場合のエラーです。
	ErrAPIKeyMissing = errors.New("Gemini API key not set.")

	// ErrNoImage はレスポンスに画像パーツが含まれていない場合のエラーです。
	ErrNoImage = errors.New("No image returned from Gemini.")
)
