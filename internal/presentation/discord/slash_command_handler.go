package discord

import (
	"context"
	"fmt"
	"log"

	"coveralchemy/internal/application"
	"coveralchemy/internal/domain"
	"coveralchemy/internal/infrastructure/config"

	"github.com/bwmarrin/discordgo"
)

// APIKeyInfoProvider は、サーバーのAPIキー選択情報を提供するインターフェースです
type APIKeyInfoProvider interface {
	GetSelection(ctx context.Context, guildID string) (domain.APIKeySelection, error)
}

// SlashCommandHandler は、Discordのスラッシュコマンドを処理するハンドラーです
type SlashCommandHandler struct {
	session       *discordgo.Session
	apiKeyService *application.APIKeyApplicationService
	apiKeyInfo    APIKeyInfoProvider
	geminiConfig  *config.GeminiConfig
	coverHandler  *CoverHandler
}

// NewSlashCommandHandler は新しいSlashCommandHandlerインスタンスを作成します
func NewSlashCommandHandler(
	session *discordgo.Session,
	apiKeyService *application.APIKeyApplicationService,
	apiKeyInfo APIKeyInfoProvider,
	geminiConfig *config.GeminiConfig,
	coverHandler *CoverHandler,
) *SlashCommandHandler {
	return &SlashCommandHandler{
		session:       session,
		apiKeyService: apiKeyService,
		apiKeyInfo:    apiKeyInfo,
		geminiConfig:  geminiConfig,
		coverHandler:  coverHandler,
	}
}

// Commands は、登録するすべてのスラッシュコマンドの定義を返します
func (h *SlashCommandHandler) Commands() []*discordgo.ApplicationCommand {
	commands := h.coverHandler.Commands()

	return append(commands,
		&discordgo.ApplicationCommand{
			Name:        "set-api",
			Description: "このサーバー用のGemini APIキーを設定します（Proモデル用）",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "api-key",
					Description: "課金が有効なGemini APIキー",
					Required:    true,
				},
			},
		},
		&discordgo.ApplicationCommand{
			Name:        "del-api",
			Description: "このサーバー用のGemini APIキーを削除します",
		},
		&discordgo.ApplicationCommand{
			Name:        "status",
			Description: "このサーバーのAPIキー設定状況と使用モデルを表示します",
		},
	)
}

// SetupSlashCommands は、スラッシュコマンドを設定します
func (h *SlashCommandHandler) SetupSlashCommands() error {
	// BotのユーザーIDを取得
	user, err := h.session.User("@me")
	if err != nil {
		return fmt.Errorf("Botユーザー情報の取得に失敗: %w", err)
	}

	// グローバルコマンドとして登録
	for _, command := range h.Commands() {
		_, err := h.session.ApplicationCommandCreate(user.ID, "", command)
		if err != nil {
			log.Printf("スラッシュコマンド %s の登録に失敗: %v", command.Name, err)
			return err
		}
		log.Printf("スラッシュコマンド %s を登録しました", command.Name)
	}

	return nil
}

// SetupSlashCommandHandlers は、スラッシュコマンドのハンドラーを設定します
func (h *SlashCommandHandler) SetupSlashCommandHandlers() {
	h.session.AddHandler(h.handleInteractionCreate)
}

// handleInteractionCreate は、インタラクション作成イベントを処理します
func (h *SlashCommandHandler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.coverHandler.HandleComponent(s, i)
	}
}

// handleCommand は、スラッシュコマンドを振り分けます
func (h *SlashCommandHandler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "cover":
		h.coverHandler.HandleCoverCommand(s, i)
	case "cover-history":
		h.coverHandler.HandleHistoryCommand(s, i)
	case "set-api":
		h.handleSetAPICommand(s, i)
	case "del-api":
		h.handleDelAPICommand(s, i)
	case "status":
		h.handleStatusCommand(s, i)
	default:
		log.Printf("未知のスラッシュコマンド: %s", i.ApplicationCommandData().Name)
	}
}

// handleSetAPICommand は、/set-apiコマンドを処理します
func (h *SlashCommandHandler) handleSetAPICommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// 権限チェック（管理者権限が必要）
	if !hasAdminPermission(i.Member) {
		respondToInteraction(s, i, "❌ このコマンドを実行するには管理者権限が必要です。", true)
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		respondToInteraction(s, i, "❌ APIキーが指定されていません。", true)
		return
	}

	apiKey := options[0].StringValue()
	setBy := i.Member.User.Username

	err := h.apiKeyService.SelectAPIKey(context.Background(), i.GuildID, apiKey, setBy)
	if err != nil {
		log.Printf("APIキーの設定に失敗: %v", err)
		respondToInteraction(s, i, fmt.Sprintf("❌ APIキーの設定に失敗しました: %v", err), true)
		return
	}

	// APIキーを含むため本人のみに表示
	successMsg := fmt.Sprintf("✅ このサーバー用のGemini APIキーを設定しました。\n設定者: %s", setBy)
	respondToInteraction(s, i, successMsg, true)
}

// handleDelAPICommand は、/del-apiコマンドを処理します
func (h *SlashCommandHandler) handleDelAPICommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// 権限チェック（管理者権限が必要）
	if !hasAdminPermission(i.Member) {
		respondToInteraction(s, i, "❌ このコマンドを実行するには管理者権限が必要です。", true)
		return
	}

	err := h.apiKeyService.ClearAPIKey(context.Background(), i.GuildID)
	if err != nil {
		log.Printf("APIキーの削除に失敗: %v", err)
		respondToInteraction(s, i, fmt.Sprintf("❌ APIキーの削除に失敗しました: %v", err), true)
		return
	}

	successMsg := "✅ このサーバー用のGemini APIキーを削除しました。\n今後はデフォルトのAPIキーを使用します。"
	respondToInteraction(s, i, successMsg, false)
}

// handleStatusCommand は、/statusコマンドを処理します
func (h *SlashCommandHandler) handleStatusCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	hasAPIKey, err := h.apiKeyService.HasSelectedAPIKey(ctx, i.GuildID)
	if err != nil {
		log.Printf("APIキーの確認に失敗: %v", err)
		respondToInteraction(s, i, "❌ 設定状況の確認に失敗しました。", true)
		return
	}

	var selection *domain.APIKeySelection
	if hasAPIKey {
		info, err := h.apiKeyInfo.GetSelection(ctx, i.GuildID)
		if err != nil {
			log.Printf("APIキー情報の取得に失敗: %v", err)
			respondToInteraction(s, i, "❌ 設定情報の取得に失敗しました。", true)
			return
		}
		selection = &info
	}

	respondToInteraction(s, i, formatStatus(selection, h.apiKeyService.HasDefaultAPIKey(), h.geminiConfig), false)
}

// formatStatus は、/statusコマンドの表示内容を作成します
func formatStatus(selection *domain.APIKeySelection, hasDefault bool, geminiConfig *config.GeminiConfig) string {
	models := fmt.Sprintf("🤖 **FLASH**: %s\n🤖 **PRO**: %s", geminiConfig.BasicModelName, geminiConfig.ProModelName)

	if selection != nil {
		return fmt.Sprintf(`📊 **サーバー設定状況**

✅ **APIキー**: 設定済み
👤 **設定者**: %s
📅 **設定日**: %s
%s`,
			selection.SelectedBy,
			selection.SelectedAt.Format("2006年1月2日 15:04"),
			models)
	}

	fallback := "未設定（デフォルトを使用）"
	if !hasDefault {
		fallback = "未設定（`/set-api` で設定してください）"
	}

	return fmt.Sprintf(`📊 **サーバー設定状況**

❌ **APIキー**: %s
%s`, fallback, models)
}

// hasAdminPermission は、メンバーが管理者権限を持っているかをチェックします
func hasAdminPermission(member *discordgo.Member) bool {
	if member == nil {
		return false
	}

	// 管理者権限をチェック（Permissionsはint64のビットフラグ）
	return member.Permissions&discordgo.PermissionAdministrator != 0
}

// respondToInteraction は、インタラクションに応答します
func respondToInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}

	if !ephemeral {
		response.Data.Flags = 0
	}

	err := s.InteractionRespond(i.Interaction, response)
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
	}
}
