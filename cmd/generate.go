package main

import (
	"errors"
	"fmt"

	"coveralchemy/configs"
	"coveralchemy/internal/application"
	"coveralchemy/internal/domain"
	"coveralchemy/internal/infrastructure/gemini"
	"coveralchemy/internal/infrastructure/local"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	title       string
	author      string
	description string
	genre       string
	style       string
	model       string
	size        string
	outputDir   string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "本の表紙を生成してPNGで保存します",
		Example: `  # Flashモデルで生成
  coveralchemy generate --title "Dune" --author "Frank Herbert" --genre Sci-Fi

  # Proモデルで4K生成
  coveralchemy generate --title "Dune" --model pro --size 4K --out ./covers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "本のタイトル")
	cmd.Flags().StringVar(&opts.author, "author", "", "著者名")
	cmd.Flags().StringVar(&opts.description, "description", "", "あらすじや表紙のイメージ")
	cmd.Flags().StringVar(&opts.genre, "genre", "", "ジャンル（未指定時はCOVER_DEFAULT_GENRE）")
	cmd.Flags().StringVar(&opts.style, "style", "", "ビジュアルスタイル（未指定時はCOVER_DEFAULT_STYLE）")
	cmd.Flags().StringVar(&opts.model, "model", "basic", "生成モデル（basic または pro）")
	cmd.Flags().StringVar(&opts.size, "size", "1K", "解像度（Proモデルのみ: 1K, 2K, 4K）")
	cmd.Flags().StringVar(&opts.outputDir, "out", "", "保存先ディレクトリ（未指定時はCOVER_OUTPUT_DIR）")

	return cmd
}

// params は、フラグと設定から生成パラメータを作成します
func (o generateOptions) params(defaults domain.GenerationParams) (domain.GenerationParams, error) {
	params := defaults
	params.Title = o.title
	params.Author = o.author
	params.Description = o.description

	if o.genre != "" {
		genre, err := domain.ParseGenre(o.genre)
		if err != nil {
			return params, err
		}
		params.Genre = genre
	}

	if o.style != "" {
		style, err := domain.ParseStyle(o.style)
		if err != nil {
			return params, err
		}
		params.Style = style
	}

	tier, err := domain.ParseModelTier(o.model)
	if err != nil {
		return params, err
	}
	params.Model = tier

	size, err := domain.ParseImageSize(o.size)
	if err != nil {
		return params, err
	}
	params.ImageSize = size

	return params, nil
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	params, err := opts.params(config.DefaultParams())
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()

	keys := application.NewAPIKeyApplicationService(local.NewKeyringAPIKeyStore(), config.Gemini.APIKey)
	selector := local.NewTerminalKeySelector(keys, localScope, cmd.InOrStdin(), stderr)
	generator := application.NewKeyedCoverGenerator(keys, gemini.NewCoverClientPool(&config.Gemini), localScope)
	session := application.NewCoverSession(
		generator,
		selector,
		params,
		application.WithLoadingInterval(config.Cover.LoadingMessageInterval),
	)

	cover, err := session.Generate(cmd.Context(), func(message string) {
		fmt.Fprintf(stderr, "⏳ %s\n", message)
	})
	if err != nil {
		snapshot := session.Snapshot()
		if errors.Is(err, domain.ErrTitleRequired) {
			return errors.New(snapshot.ValidationMessage)
		}
		return fmt.Errorf("%s: %w", snapshot.ErrorMessage, err)
	}

	download, err := application.NewCoverDownload(*cover)
	if err != nil {
		return err
	}

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = config.Cover.OutputDir
	}

	path, err := local.WriteCover(outputDir, download)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ 表紙を保存しました: %s\n", path)
	return nil
}
