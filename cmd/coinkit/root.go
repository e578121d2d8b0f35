package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-coin-kit/pkg/config"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "coinkit",
		Short:         "Gemini で画像を生成し、Base 上のコインとしてミントするツール",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			opts.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("COINKIT_CONFIG"), "TOML 設定ファイルのパス")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newMintCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// newLogger は設定に応じたテキストまたは JSON の slog.Logger を返します。
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("ログレベルが不正です: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: lv}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %q", format)
	}
}
