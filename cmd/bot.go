package main

import (
	"fmt"
	"log"

	"coveralchemy/configs"
	"coveralchemy/internal/application"
	discordInfra "coveralchemy/internal/infrastructure/discord"
	"coveralchemy/internal/infrastructure/gemini"
	discordPres "coveralchemy/internal/presentation/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

// botPermissions は、Botに必要な権限の合計です
// View Channels (1024) + Send Messages (2048) + Embed Links (16384) + Attach Files (32768)
const botPermissions = 52224

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Discord Botとして起動します",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd)
		},
	}
}

func runBot(cmd *cobra.Command) error {
	log.Println("表紙生成Botを起動中...")

	// 設定を読み込み
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := config.ValidateForBot(); err != nil {
		return err
	}

	// Discordセッションを作成
	session, err := discordgo.New("Bot " + config.Discord.BotToken)
	if err != nil {
		return fmt.Errorf("Discordセッションの作成に失敗: %w", err)
	}

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		return fmt.Errorf("Bot情報の取得に失敗: %w", err)
	}

	log.Printf("Bot情報: %s#%s (ID: %s)", user.Username, user.Discriminator, user.ID)
	log.Printf("Bot招待URL: %s", inviteURL(user.ID))

	// リポジトリとクライアントを作成
	apiKeyRepo := discordInfra.NewGuildAPIKeyRepository()
	clientPool := gemini.NewCoverClientPool(&config.Gemini)

	// アプリケーションサービスを作成
	apiKeyService := application.NewAPIKeyApplicationService(apiKeyRepo, config.Gemini.APIKey)
	send := func(channelID, content string) error {
		_, err := session.ChannelMessageSend(channelID, content)
		return err
	}
	coverService := application.NewCoverApplicationService(func(scope application.SessionScope) *application.CoverSession {
		selector := discordInfra.NewChannelKeySelector(apiKeyRepo, scope.GuildID, scope.ChannelID, scope.UserID, send)
		generator := application.NewKeyedCoverGenerator(apiKeyService, clientPool, scope.GuildID)
		return application.NewCoverSession(
			generator,
			selector,
			config.DefaultParams(),
			application.WithLoadingInterval(config.Cover.LoadingMessageInterval),
		)
	})

	// Discordハンドラを作成
	coverHandler := discordPres.NewCoverHandler(coverService, discordPres.NewResponseHandler(), config.DefaultParams())
	slashCommandHandler := discordPres.NewSlashCommandHandler(session, apiKeyService, apiKeyRepo, &config.Gemini, coverHandler)
	handler := discordPres.NewDiscordHandler(session, slashCommandHandler)
	handler.SetupHandlers()

	// スラッシュコマンドを設定
	if err := slashCommandHandler.SetupSlashCommands(); err != nil {
		return fmt.Errorf("スラッシュコマンドの設定に失敗: %w", err)
	}

	// Discordに接続
	if err := session.Open(); err != nil {
		return fmt.Errorf("Discordへの接続に失敗: %w", err)
	}

	log.Println("Discordに接続しました。Botが準備完了しました！")
	log.Println("利用可能なスラッシュコマンド:")
	for _, command := range slashCommandHandler.Commands() {
		log.Printf("  /%s - %s", command.Name, command.Description)
	}

	// 終了シグナルを待機
	<-cmd.Context().Done()
	log.Println("終了シグナルを受信しました。Botを停止中...")

	if err := session.Close(); err != nil {
		log.Printf("Discordセッションのクローズに失敗: %v", err)
	}

	log.Println("Botが正常に停止しました。")
	return nil
}

// inviteURL は、Botの招待URLを作成します
func inviteURL(clientID string) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands", clientID, botPermissions)
}

func newInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite",
		Short: "Botの招待URLを表示します",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configs.LoadConfig()
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}
			if err := config.ValidateForBot(); err != nil {
				return err
			}

			session, err := discordgo.New("Bot " + config.Discord.BotToken)
			if err != nil {
				return fmt.Errorf("Discordセッションの作成に失敗: %w", err)
			}

			user, err := session.User("@me")
			if err != nil {
				return fmt.Errorf("Bot情報の取得に失敗: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🤖 Bot情報:\n")
			fmt.Fprintf(out, "   名前: %s#%s\n", user.Username, user.Discriminator)
			fmt.Fprintf(out, "   ID: %s\n\n", user.ID)
			fmt.Fprintf(out, "🔗 Bot招待URL:\n   %s\n\n", inviteURL(user.ID))
			fmt.Fprintf(out, "📋 必要な権限:\n")
			fmt.Fprintf(out, "   - View Channels (1024)\n")
			fmt.Fprintf(out, "   - Send Messages (2048)\n")
			fmt.Fprintf(out, "   - Embed Links (16384)\n")
			fmt.Fprintf(out, "   - Attach Files (32768)\n")
			fmt.Fprintf(out, "   - 合計: %d\n", botPermissions)
			return nil
		},
	}
}
