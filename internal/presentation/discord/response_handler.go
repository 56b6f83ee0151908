package discord

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"coveralchemy/internal/application"
	"coveralchemy/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// カスタムIDの接頭辞
const (
	customIDHistory    = "cover-history"
	customIDRegenerate = "cover-regenerate"
	customIDDownload   = "cover-download"
)

// buttonLabelLimit は、Discordのボタンラベルの文字数制限です
const buttonLabelLimit = 80

// coverEmbedColor は、表紙の埋め込みの色です
const coverEmbedColor = 0x8B5CF6

// ResponseHandler は、表紙生成セッションをDiscordのメッセージに変換するハンドラーです
type ResponseHandler struct{}

// NewResponseHandler は新しいResponseHandlerインスタンスを作成します
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// LoadingContent は、生成中に表示するメッセージを作成します
func (h *ResponseHandler) LoadingContent(message string, params domain.GenerationParams) string {
	return fmt.Sprintf("⏳ **%s**\n📖 %s（%s / %s）", message, params.Title, params.Genre.DisplayName(), params.Style.DisplayName())
}

// ErrorContent は、生成失敗時に表示するメッセージを作成します
func (h *ResponseHandler) ErrorContent(snapshot application.SessionSnapshot) string {
	message := snapshot.ErrorMessage
	if message == "" {
		message = domain.MessageGenerateRetry
	}
	return "❌ " + message
}

// CoverEdit は、現在の表紙と履歴ボタンを表示するための編集内容を作成します
func (h *ResponseHandler) CoverEdit(snapshot application.SessionSnapshot) (*discordgo.WebhookEdit, error) {
	if snapshot.Current == nil {
		content := h.ErrorContent(snapshot)
		embeds := []*discordgo.MessageEmbed{}
		components := []discordgo.MessageComponent{}
		return &discordgo.WebhookEdit{Content: &content, Embeds: &embeds, Components: &components}, nil
	}

	file, err := h.coverFile(*snapshot.Current)
	if err != nil {
		return nil, err
	}

	content := ""
	if snapshot.State == domain.SessionStateFailed {
		content = h.ErrorContent(snapshot)
	}

	embeds := []*discordgo.MessageEmbed{h.CoverEmbed(*snapshot.Current, file.Name)}
	components := h.CoverComponents(snapshot)

	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
		Files:      []*discordgo.File{file},
	}, nil
}

// coverFile は、埋め込みに添付する画像ファイルを作成します
// 添付名は表紙ごとに一意にします
func (h *ResponseHandler) coverFile(cover domain.GeneratedCover) (*discordgo.File, error) {
	download, err := application.NewCoverDownload(cover)
	if err != nil {
		return nil, err
	}

	return &discordgo.File{
		Name:        fmt.Sprintf("cover-%s.png", cover.ID),
		ContentType: download.MimeType,
		Reader:      bytes.NewReader(download.Data),
	}, nil
}

// DownloadFile は、ダウンロード用の画像ファイルを作成します
func (h *ResponseHandler) DownloadFile(cover domain.GeneratedCover) (*discordgo.File, error) {
	download, err := application.NewCoverDownload(cover)
	if err != nil {
		return nil, err
	}

	return &discordgo.File{
		Name:        download.Filename,
		ContentType: download.MimeType,
		Reader:      bytes.NewReader(download.Data),
	}, nil
}

// CoverEmbed は、表紙の埋め込みを作成します
func (h *ResponseHandler) CoverEmbed(cover domain.GeneratedCover, attachmentName string) *discordgo.MessageEmbed {
	params := cover.Params

	title := params.Title
	if params.Author != "" {
		title = fmt.Sprintf("%s / %s", params.Title, params.Author)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "ジャンル", Value: params.Genre.DisplayName(), Inline: true},
		{Name: "スタイル", Value: params.Style.DisplayName(), Inline: true},
		{Name: "モデル", Value: params.Model.DisplayName(), Inline: true},
	}
	if size := params.EffectiveImageSize(); size != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "解像度", Value: string(size), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       truncate(title, 256),
		Description: truncate(params.Description, 4096),
		Color:       coverEmbedColor,
		Fields:      fields,
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://" + attachmentName},
		Timestamp:   cover.Timestamp.Format(time.RFC3339),
	}
}

// CoverComponents は、履歴・再生成・ダウンロードのボタンを作成します
func (h *ResponseHandler) CoverComponents(snapshot application.SessionSnapshot) []discordgo.MessageComponent {
	var components []discordgo.MessageComponent

	currentID := ""
	if snapshot.Current != nil {
		currentID = snapshot.Current.ID
	}

	if len(snapshot.History) > 0 {
		buttons := make([]discordgo.MessageComponent, 0, len(snapshot.History))
		for i, cover := range snapshot.History {
			style := discordgo.SecondaryButton
			if cover.ID == currentID {
				style = discordgo.PrimaryButton
			}
			buttons = append(buttons, discordgo.Button{
				Label:    truncate(fmt.Sprintf("%d. %s", i+1, cover.Params.Title), buttonLabelLimit),
				Style:    style,
				CustomID: historyCustomID(cover.ID),
			})
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}

	actions := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "🔄 再生成",
			Style:    discordgo.SuccessButton,
			CustomID: customIDRegenerate,
		},
	}
	if currentID != "" {
		actions = append(actions, discordgo.Button{
			Label:    "⬇️ ダウンロード",
			Style:    discordgo.SecondaryButton,
			CustomID: downloadCustomID(currentID),
		})
	}
	components = append(components, discordgo.ActionsRow{Components: actions})

	return components
}

// historyCustomID は、履歴ボタンのカスタムIDを作成します
func historyCustomID(coverID string) string {
	return customIDHistory + ":" + coverID
}

// downloadCustomID は、ダウンロードボタンのカスタムIDを作成します
func downloadCustomID(coverID string) string {
	return customIDDownload + ":" + coverID
}

// parseCustomID は、カスタムIDを操作名と表紙IDに分解します
func parseCustomID(customID string) (action, coverID string) {
	action, coverID, _ = strings.Cut(customID, ":")
	return action, coverID
}

// truncate は、文字列を指定した文字数に切り詰めます
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
