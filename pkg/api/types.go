package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// GenerateImageRequest は POST /api/gemini-image のリクエストボディです。
type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImageResponse は生成成功時のレスポンスです。
type GenerateImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ErrorResponse は失敗時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
