package main

import (
	"fmt"

	"coveralchemy/configs"
	"coveralchemy/internal/application"
	"coveralchemy/internal/infrastructure/local"

	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Proモデル用のAPIキーをキーチェーンで管理します",
	}

	cmd.AddCommand(newKeySetCmd())
	cmd.AddCommand(newKeyDeleteCmd())
	cmd.AddCommand(newKeyStatusCmd())

	return cmd
}

// newLocalKeyService は、キーチェーンを使うAPIキーサービスを作成します
func newLocalKeyService() (*application.APIKeyApplicationService, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	return application.NewAPIKeyApplicationService(local.NewKeyringAPIKeyStore(), config.Gemini.APIKey), nil
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [api-key]",
		Short: "APIキーを保存します（省略時は入力を求めます）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := newLocalKeyService()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				selector := local.NewTerminalKeySelector(keys, localScope, cmd.InOrStdin(), cmd.ErrOrStderr())
				return selector.OpenSelectKey(cmd.Context())
			}

			if err := keys.SelectAPIKey(cmd.Context(), localScope, args[0], "cli"); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✅ APIキーを保存しました。")
			return nil
		},
	}
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "保存したAPIキーを削除します",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := newLocalKeyService()
			if err != nil {
				return err
			}

			if err := keys.ClearAPIKey(cmd.Context(), localScope); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✅ APIキーを削除しました。")
			return nil
		},
	}
}

func newKeyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "APIキーの設定状況を表示します",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := newLocalKeyService()
			if err != nil {
				return err
			}

			selected, err := keys.HasSelectedAPIKey(cmd.Context(), localScope)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if selected {
				fmt.Fprintln(out, "✅ キーチェーン: 保存済み")
			} else {
				fmt.Fprintln(out, "❌ キーチェーン: 未保存")
			}

			if keys.HasDefaultAPIKey() {
				fmt.Fprintln(out, "✅ GEMINI_API_KEY: 設定済み")
			} else {
				fmt.Fprintln(out, "❌ GEMINI_API_KEY: 未設定")
			}
			return nil
		},
	}
}
