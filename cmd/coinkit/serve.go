package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-coin-kit/pkg/api"
	"github.com/shouni/gemini-coin-kit/pkg/config"
	"github.com/shouni/gemini-coin-kit/pkg/generator"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "画像生成 API サーバーを起動します",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root.cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	gen, err := newImageGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := api.NewRouter(api.RouterOptions{
		Generator:      gen,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         slog.Default(),
		Registry:       reg,
	})
	server := api.NewServer(cfg.ServerAddr, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("シャットダウンします")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// newImageGenerator は API キーがあれば Gemini のジェネレーターを返します。
// キーがない場合は nil を返し、エンドポイントはリクエストごとに 500 を返します。
func newImageGenerator(ctx context.Context, cfg *config.Config) (generator.ImageGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY が設定されていません。画像生成は失敗します")
		return nil, nil
	}
	client, err := generator.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewGeminiGenerator(client.Models, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
