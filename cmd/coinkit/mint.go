package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/studio"
	"github.com/shouni/gemini-coin-kit/pkg/wallet"
)

type mintFlags struct {
	prompt      string
	name        string
	symbol      string
	description string
}

func newMintCmd(root *rootOptions) *cobra.Command {
	f := &mintFlags{}

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "画像を生成し、そのままコインとしてミントします",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := root.cfg

			deps, cleanup, err := mintDependencies(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := studio.New(deps, studio.Options{
				RequiredChainID: cfg.ChainID,
				Currency:        cfg.DeployCurrency(),
				GasMultiplier:   cfg.GasMultiplier,
			})
			if err != nil {
				return err
			}

			s.SetPrompt(f.prompt)
			if err := s.Generate(ctx); err != nil {
				return err
			}
			if !s.OpenMintModal() {
				return errors.New("no image was generated")
			}
			s.SetCoinFields(f.name, f.symbol, f.description)

			if err := s.Connect(ctx, wallet.ConnectorLocalKey); err != nil {
				return err
			}
			if s.NeedsChainSwitch() {
				slog.InfoContext(ctx, "必要なチェーンに切り替えます", "chain_id", cfg.ChainID)
				if err := s.SwitchToRequiredChain(ctx); err != nil {
					return err
				}
			}

			mintErr := s.Mint(ctx)
			st := s.State()
			fmt.Fprintln(cmd.OutOrStdout(), st.Mint.Status())
			if addr, ok := domain.MintedAddress(st.Mint); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Minted Coin Address: %s\n", addr.Hex())
			}
			return mintErr
		},
	}
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "画像生成のプロンプト")
	cmd.Flags().StringVar(&f.name, "name", "", "コイン名")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "ティッカー")
	cmd.Flags().StringVar(&f.description, "description", "", "説明文")
	for _, name := range []string{"prompt", "name", "symbol"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
