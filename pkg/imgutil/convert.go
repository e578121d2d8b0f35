package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"
)

// Format は保存時の画像形式です。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"

	// DefaultJPEGQuality は quality に 0 を渡したときの JPEG 品質です。
	DefaultJPEGQuality = 85
)

// ParseFormat は文字列を Format に変換します。"jpg" は JPEG として扱います。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported image format: %q", s)
	}
}

// Convert は画像を指定の形式にエンコードし直します。
// data URL のヘッダは常に PNG ですが中身は Gemini の出力形式のままなので、保存前にここで揃えます。
// 既に目的の形式であればデータをそのまま返します。
func Convert(data []byte, format Format, quality int) ([]byte, error) {
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}

	sniffed := http.DetectContentType(data)
	switch format {
	case FormatPNG:
		if sniffed == "image/png" {
			return data, nil
		}
	case FormatJPEG:
	default:
		return nil, fmt.Errorf("unsupported image format: %q", format)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました (%s): %w", sniffed, err)
	}

	buf := new(bytes.Buffer)
	if format == FormatJPEG {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("%s へのエンコードに失敗しました: %w", format, err)
	}
	return buf.Bytes(), nil
}

// FileName は name の拡張子を format に合わせて付け替えます。
func FileName(name string, format Format) string {
	ext := ".png"
	if format == FormatJPEG {
		ext = ".jpg"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
