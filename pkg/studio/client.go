package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-coin-kit/pkg/api"
)

const defaultRequestTimeout = 120 * time.Second

// ErrGenerateFailed は画像エンドポイントが成功以外のステータスを返した場合のエラーです。
var ErrGenerateFailed = errors.New("Failed to generate image")

// ImageRequester はプロンプトから画像の data URL を取得します。
type ImageRequester interface {
	RequestImage(ctx context.Context, prompt string) (string, error)
}

// HTTPImageClient は画像生成エンドポイントを呼び出す ImageRequester です。
type HTTPImageClient struct {
	endpoint string
	client   httpkit.ClientInterface
}

var _ ImageRequester = (*HTTPImageClient)(nil)

// NewHTTPImageClient は baseURL のサーバーに対する HTTPImageClient を生成します。
// client が nil の場合はリトライなしの httpkit クライアントを使います。
func NewHTTPImageClient(baseURL string, client httpkit.ClientInterface) *HTTPImageClient {
	if client == nil {
		// API サーバーはローカルで動くことが多いのでネットワーク検証は行わない
		client = httpkit.New(defaultRequestTimeout,
			httpkit.WithMaxRetries(0),
			httpkit.WithSkipNetworkValidation(true),
		)
	}
	return &HTTPImageClient{
		endpoint: strings.TrimRight(baseURL, "/") + api.ImageEndpoint,
		client:   client,
	}
}

func (c *HTTPImageClient) RequestImage(ctx context.Context, prompt string) (string, error) {
	body, err := c.client.PostJSONAndFetchBytes(ctx, c.endpoint, api.GenerateImageRequest{Prompt: prompt})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		// サーバー側の詳細はログにだけ残し、呼び出し元には固定のメッセージを返す
		slog.WarnContext(ctx, "画像生成リクエストが失敗しました", "error", err, "detail", errorDetail(err))
		return "", ErrGenerateFailed
	}

	var out api.GenerateImageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("画像レスポンスのデコードに失敗しました: %w", err)
	}
	return out.ImageURL, nil
}

// errorDetail は 4xx 応答のボディから {error} を取り出します。
func errorDetail(err error) string {
	var httpErr *httpkit.NonRetryableHTTPError
	if !errors.As(err, &httpErr) {
		return ""
	}
	var e api.ErrorResponse
	if json.Unmarshal(httpErr.Body, &e) != nil {
		return ""
	}
	return e.Error
}
