package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DataURLPrefix は生成画像の data URL に付与するプレフィックスです。
	// Gemini が返す実際の MIME タイプに関わらず PNG として扱います。
	DataURLPrefix = "data:image/png;base64,"

	// DefaultDownloadName はダウンロード時のファイル名です。
	DefaultDownloadName = "zora-mini-image.png"

	// CoinImageName はミント時にアップロードする画像のファイル名です。
	CoinImageName = "coin-image.png"
)

// ErrInvalidDataURL は data URL の形式が不正な場合のエラーです。
var ErrInvalidDataURL = errors.New("invalid data URL")

// EncodeDataURL はバイナリを base64 にエンコードして data URL を組み立てます。
func EncodeDataURL(data []byte) string {
	return DataURLPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL は base64 形式の data URL をバイナリと MIME タイプに戻します。
// ヘッダに MIME タイプがない場合は内容から推定します。
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing comma separator", ErrInvalidDataURL)
	}

	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
