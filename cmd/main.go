package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// localScope は、CLIでAPIキーを保存する際のスコープIDです
const localScope = "default"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coveralchemy",
		Short: "Gemini画像生成で本の表紙を作成するツール",
		Long: `CoverAlchemy は、タイトル・ジャンル・スタイルから本の表紙画像を生成します。

Discord Botとして起動するか、CLIから直接生成できます。`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newBotCmd())
	cmd.AddCommand(newInviteCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newKeyCmd())

	return cmd
}

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
