package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-coin-kit/pkg/imgutil"
	"github.com/shouni/gemini-coin-kit/pkg/studio"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var prompt, out, format string
	var quality int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "起動中のサーバーで画像を生成してファイルに保存します",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := studio.New(studio.Dependencies{
				Images: studio.NewHTTPImageClient(root.cfg.APIBaseURL, nil),
			}, studio.Options{})
			if err != nil {
				return err
			}

			s.SetPrompt(prompt)
			if err := s.Generate(cmd.Context()); err != nil {
				return err
			}

			name, data, ok := s.Download()
			if !ok {
				return errors.New("no image was generated")
			}
			f, err := imgutil.ParseFormat(format)
			if err != nil {
				return err
			}
			if data, err = imgutil.Convert(data, f, quality); err != nil {
				return err
			}
			if out == "" {
				out = imgutil.FileName(name, f)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("画像の保存に失敗しました: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Image saved to: %s\n", filepath.Clean(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "画像生成のプロンプト")
	cmd.Flags().StringVarP(&out, "out", "o", "", "保存先 (既定: zora-mini-image.png)")
	cmd.Flags().StringVar(&format, "format", "png", "保存形式 (png または jpeg)")
	cmd.Flags().IntVar(&quality, "quality", imgutil.DefaultJPEGQuality, "JPEG の品質 (1-100)")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
