package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/generator"
	"github.com/shouni/gemini-coin-kit/pkg/imgutil"
)

const maxRequestBodyBytes = 64 << 10

// ImageHandler は POST /api/gemini-image を処理するハンドラーです。
// gen が nil の場合は API キー未設定として扱います。
type ImageHandler struct {
	gen     generator.ImageGenerator
	metrics *Metrics
}

// NewImageHandler は ImageHandler を生成します。metrics は nil でも構いません。
func NewImageHandler(gen generator.ImageGenerator, metrics *Metrics) *ImageHandler {
	return &ImageHandler{
		gen:     gen,
		metrics: metrics,
	}
}

// ServeHTTP はプロンプトを Gemini に転送し、画像を data URL として返します。
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.gen == nil {
		h.metrics.observe(outcomeNotConfigured)
		writeError(w, http.StatusInternalServerError, generator.ErrAPIKeyMissing.Error())
		return
	}

	// 失敗はすべて 500 と {error} で返す
	var req GenerateImageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		h.metrics.observe(outcomeInvalidInput)
		writeError(w, http.StatusInternalServerError, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.metrics.observe(outcomeInvalidInput)
		writeError(w, http.StatusInternalServerError, "prompt is required")
		return
	}

	start := time.Now()
	resp, err := h.gen.GenerateImage(ctx, domain.ImageGenerationRequest{Prompt: req.Prompt})
	h.metrics.observeDuration(time.Since(start).Seconds())
	if err != nil {
		outcome := outcomeUpstream
		if errors.Is(err, generator.ErrNoImage) {
			outcome = outcomeNoImage
		}
		h.metrics.observe(outcome)
		slog.ErrorContext(ctx, "Gemini SDK error", "error", err)
		writeError(w, http.StatusInternalServerError, errorMessage(err))
		return
	}

	h.metrics.observe(outcomeSuccess)
	slog.InfoContext(ctx, "画像を生成しました", "mime_type", resp.MimeType, "bytes", len(resp.Data))
	writeJSON(w, http.StatusOK, GenerateImageResponse{ImageURL: imgutil.EncodeDataURL(resp.Data)})
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
