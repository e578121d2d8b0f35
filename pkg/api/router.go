package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shouni/gemini-coin-kit/pkg/generator"
)

// ImageEndpoint は画像生成エンドポイントのパスです。
const ImageEndpoint = "/api/gemini-image"

// RouterOptions はルーターの構成です。
type RouterOptions struct {
	// Generator が nil の場合、画像生成エンドポイントは API キー未設定エラーを返します。
	Generator      generator.ImageGenerator
	AllowedOrigins []string
	Logger         *slog.Logger
	// Registry が nil の場合は /metrics を公開しません。
	Registry *prometheus.Registry
}

// NewRouter はすべてのルートとミドルウェアを組み立てた http.Handler を返します。
func NewRouter(opts RouterOptions) http.Handler {
	mux := chi.NewMux()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	if opts.Logger != nil {
		mux.Use(requestLogger(opts.Logger))
	}

	var metrics *Metrics
	if opts.Registry != nil {
		metrics = NewMetrics(opts.Registry)
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Method(http.MethodPost, ImageEndpoint, NewImageHandler(opts.Generator, metrics))

	return newCORSHandler(opts.AllowedOrigins, mux)
}

func newCORSHandler(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler(next)
}

// requestLogger は slog でアクセスログを出力するミドルウェアです。
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
