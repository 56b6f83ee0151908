package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// DiscordHandler は、Discordのイベントハンドラです
type DiscordHandler struct {
	session             *discordgo.Session
	slashCommandHandler *SlashCommandHandler
}

// NewDiscordHandler は新しいDiscordHandlerインスタンスを作成します
func NewDiscordHandler(session *discordgo.Session, slashCommandHandler *SlashCommandHandler) *DiscordHandler {
	return &DiscordHandler{
		session:             session,
		slashCommandHandler: slashCommandHandler,
	}
}

// SetupHandlers は、Discordのイベントハンドラを設定します
func (h *DiscordHandler) SetupHandlers() {
	h.session.AddHandler(h.handleReady)

	// スラッシュコマンドとボタン操作のハンドラーを設定
	if h.slashCommandHandler != nil {
		h.slashCommandHandler.SetupSlashCommandHandlers()
	}
}

// handleReady は、Bot起動完了時の処理を行います
func (h *DiscordHandler) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Botが起動しました: %s#%s（%dサーバー）", event.User.Username, event.User.Discriminator, len(event.Guilds))
}
