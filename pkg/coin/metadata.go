package coin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
)

// metadataCategory はメタデータの properties.category に入れる値です。
const metadataCategory = "social"

var (
	ErrMissingName   = errors.New("coin name is required")
	ErrMissingSymbol = errors.New("coin symbol is required")
	ErrMissingImage  = errors.New("coin image is required")
)

// Metadata はアップロードされるコインメタデータの JSON 形式です。
type Metadata struct {
	Name        string             `json:"name"`
	Symbol      string             `json:"symbol"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Properties  MetadataProperties `json:"properties"`
	Content     *MetadataContent   `json:"content,omitempty"`
}

type MetadataProperties struct {
	Category string `json:"category"`
}

type MetadataContent struct {
	Mime string `json:"mime"`
	URI  string `json:"uri"`
}

// MetadataBuilder はコインメタデータを組み立ててアップロードします。
type MetadataBuilder struct {
	name        string
	symbol      string
	description string
	image       []byte
	imageName   string
}

func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{}
}

func (b *MetadataBuilder) WithName(name string) *MetadataBuilder {
	b.name = name
	return b
}

func (b *MetadataBuilder) WithSymbol(symbol string) *MetadataBuilder {
	b.symbol = symbol
	return b
}

func (b *MetadataBuilder) WithDescription(description string) *MetadataBuilder {
	b.description = description
	return b
}

// WithImage はコイン画像のバイト列とファイル名を設定します。
func (b *MetadataBuilder) WithImage(data []byte, fileName string) *MetadataBuilder {
	b.image = data
	b.imageName = fileName
	return b
}

// Validate は必須項目が揃っているかを確認します。説明文は空でも構いません。
func (b *MetadataBuilder) Validate() error {
	var errs []error
	if strings.TrimSpace(b.name) == "" {
		errs = append(errs, ErrMissingName)
	}
	if strings.TrimSpace(b.symbol) == "" {
		errs = append(errs, ErrMissingSymbol)
	}
	if len(b.image) == 0 {
		errs = append(errs, ErrMissingImage)
	}
	return errors.Join(errs...)
}

// Upload は画像、続いてメタデータ JSON を uploader に保存し、
// コイン作成に渡すパラメータを返します。
func (b *MetadataBuilder) Upload(ctx context.Context, uploader Uploader) (domain.MetadataParameters, error) {
	if err := b.Validate(); err != nil {
		return domain.MetadataParameters{}, err
	}

	mimeType := http.DetectContentType(b.image)
	imageURI, err := uploader.UploadFile(ctx, b.imageName, mimeType, b.image)
	if err != nil {
		return domain.MetadataParameters{}, fmt.Errorf("画像のアップロードに失敗しました: %w", err)
	}

	meta := Metadata{
		Name:        b.name,
		Symbol:      b.symbol,
		Description: b.description,
		Image:       imageURI,
		Properties:  MetadataProperties{Category: metadataCategory},
		Content:     &MetadataContent{Mime: mimeType, URI: imageURI},
	}
	body, err := json.Marshal(meta)
	if err != nil {
		return domain.MetadataParameters{}, fmt.Errorf("メタデータのエンコードに失敗しました: %w", err)
	}

	metaURI, err := uploader.UploadJSON(ctx, body)
	if err != nil {
		return domain.MetadataParameters{}, fmt.Errorf("メタデータのアップロードに失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "コインメタデータをアップロードしました", "image_uri", imageURI, "metadata_uri", metaURI)

	return domain.MetadataParameters{
		Name:   b.name,
		Symbol: b.symbol,
		URI:    metaURI,
	}, nil
}
