package coin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	uploadFilePath = "/upload/file"
	uploadJSONPath = "/upload/json"

	// CreatorAddressHeader はアップロード者のアドレスを伝えるヘッダーです。
	CreatorAddressHeader = "X-Creator-Address"

	defaultUploadTimeout = 60 * time.Second
)

var ErrEmptyURI = errors.New("upload service returned an empty uri")

type uploadResponse struct {
	URI string `json:"uri"`
}

// HTTPUploader はアップロードサービスの HTTP API を使う Uploader です。
type HTTPUploader struct {
	baseURL string
	apiKey  string
	creator common.Address
	client  httpkit.ClientInterface
}

var _ Uploader = (*HTTPUploader)(nil)

// HTTPUploaderFactory は作成者ごとに HTTPUploader を生成する UploaderFactory です。
// 生成される Uploader は Client を共有します。
type HTTPUploaderFactory struct {
	BaseURL string
	APIKey  string
	Client  httpkit.ClientInterface
}

// NewHTTPUploaderFactory は既定の httpkit クライアントを共有する HTTPUploaderFactory を生成します。
func NewHTTPUploaderFactory(baseURL, apiKey string) HTTPUploaderFactory {
	return HTTPUploaderFactory{BaseURL: baseURL, APIKey: apiKey, Client: newUploadClient()}
}

func (f HTTPUploaderFactory) ForCreator(creator common.Address) Uploader {
	return NewHTTPUploader(f.BaseURL, f.APIKey, creator, f.Client)
}

// NewHTTPUploader は HTTPUploader を生成します。client が nil の場合は既定のクライアントを使います。
func NewHTTPUploader(baseURL, apiKey string, creator common.Address, client httpkit.ClientInterface) *HTTPUploader {
	if client == nil {
		client = newUploadClient()
	}
	return &HTTPUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		creator: creator,
		client:  client,
	}
}

// newUploadClient はリトライしない httpkit クライアントを生成します。
// 同じアップロードを二重に送らないよう MaxRetries は 0 です。
func newUploadClient() *httpkit.Client {
	return httpkit.New(defaultUploadTimeout,
		httpkit.WithMaxRetries(0),
		httpkit.WithSkipNetworkValidation(true),
	)
}

// UploadFile はファイルを multipart/form-data で送信します。
func (u *HTTPUploader) UploadFile(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("multipart の作成に失敗しました: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("multipart の書き込みに失敗しました: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("multipart のクローズに失敗しました: %w", err)
	}

	return u.post(ctx, uploadFilePath, mw.FormDataContentType(), buf.Bytes())
}

// UploadJSON は JSON ドキュメントをそのまま送信します。
func (u *HTTPUploader) UploadJSON(ctx context.Context, data []byte) (string, error) {
	return u.post(ctx, uploadJSONPath, "application/json", data)
}

func (u *HTTPUploader) post(ctx context.Context, path, contentType string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(CreatorAddressHeader, u.creator.Hex())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	respBody, err := u.client.DoRequest(req)
	if err != nil {
		return "", fmt.Errorf("アップロードに失敗しました: %w", err)
	}

	var out uploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("アップロード応答のデコードに失敗しました: %w", err)
	}
	if out.URI == "" {
		return "", ErrEmptyURI
	}
	return out.URI, nil
}
