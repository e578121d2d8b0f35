package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "読み込んだ設定を TOML で表示します (秘密情報は除く)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := root.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
