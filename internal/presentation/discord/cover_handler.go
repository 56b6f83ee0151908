package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"coveralchemy/internal/application"
	"coveralchemy/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// coverOption は、/cover コマンドのオプション名です
const (
	optionTitle       = "title"
	optionAuthor      = "author"
	optionGenre       = "genre"
	optionStyle       = "style"
	optionDescription = "description"
	optionModel       = "model"
	optionSize        = "size"
)

// messageGenerating は、生成中に新しい操作を受け付けない場合の案内です
const messageGenerating = "現在表紙を生成中です。完了までお待ちください。"

// CoverHandler は、表紙生成のコマンドとボタン操作を処理するハンドラーです
type CoverHandler struct {
	coverService    *application.CoverApplicationService
	responseHandler *ResponseHandler
	defaultParams   domain.GenerationParams
}

// NewCoverHandler は新しいCoverHandlerインスタンスを作成します
func NewCoverHandler(
	coverService *application.CoverApplicationService,
	responseHandler *ResponseHandler,
	defaultParams domain.GenerationParams,
) *CoverHandler {
	return &CoverHandler{
		coverService:    coverService,
		responseHandler: responseHandler,
		defaultParams:   defaultParams,
	}
}

// Commands は、表紙生成に関するスラッシュコマンドの定義を返します
func (h *CoverHandler) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "cover",
			Description: "本の表紙を生成します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionTitle,
					Description: "本のタイトル",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionAuthor,
					Description: "著者名",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionGenre,
					Description: "ジャンル",
					Choices:     genreChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionStyle,
					Description: "ビジュアルスタイル",
					Choices:     styleChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionDescription,
					Description: "あらすじや表紙のイメージ",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionModel,
					Description: "生成モデル",
					Choices:     modelChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionSize,
					Description: "解像度（Proモデルのみ）",
					Choices:     sizeChoices(),
				},
			},
		},
		{
			Name:        "cover-history",
			Description: "現在の表紙と生成履歴を表示します",
		},
	}
}

func genreChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, genre := range domain.AllGenres() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: genre.DisplayName(), Value: string(genre)})
	}
	return choices
}

func styleChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, style := range domain.AllStyles() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: style.DisplayName(), Value: string(style)})
	}
	return choices
}

func modelChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, tier := range domain.AllModelTiers() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: tier.DisplayName(), Value: tier.String()})
	}
	return choices
}

func sizeChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, size := range domain.AllImageSizes() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(size), Value: string(size)})
	}
	return choices
}

// paramsFromOptions は、コマンドのオプションから生成パラメータを作成します
func paramsFromOptions(defaults domain.GenerationParams, options []*discordgo.ApplicationCommandInteractionDataOption) (domain.GenerationParams, error) {
	params := defaults

	for _, option := range options {
		value := option.StringValue()

		switch option.Name {
		case optionTitle:
			params.Title = value
		case optionAuthor:
			params.Author = value
		case optionDescription:
			params.Description = value
		case optionGenre:
			genre, err := domain.ParseGenre(value)
			if err != nil {
				return params, err
			}
			params.Genre = genre
		case optionStyle:
			style, err := domain.ParseStyle(value)
			if err != nil {
				return params, err
			}
			params.Style = style
		case optionModel:
			tier, err := domain.ParseModelTier(value)
			if err != nil {
				return params, err
			}
			params.Model = tier
		case optionSize:
			size, err := domain.ParseImageSize(value)
			if err != nil {
				return params, err
			}
			params.ImageSize = size
		}
	}

	return params, nil
}

// scopeOf は、インタラクションのセッションスコープを返します
func scopeOf(i *discordgo.InteractionCreate) application.SessionScope {
	return application.SessionScope{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
	}
}

// interactionUserID は、インタラクションを実行したユーザーのIDを返します
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// HandleCoverCommand は、/cover コマンドを処理します
func (h *CoverHandler) HandleCoverCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	params, err := paramsFromOptions(h.defaultParams, i.ApplicationCommandData().Options)
	if err != nil {
		respondToInteraction(s, i, "❌ " + err.Error(), true)
		return
	}

	// 入力エラーは生成を開始せずに本人のみに通知
	if err := params.Validate(); err != nil {
		respondToInteraction(s, i, "❌ " + domain.MessageTitleRequired, true)
		return
	}

	session := h.coverService.Session(scopeOf(i))
	if session.Snapshot().State == domain.SessionStateGenerating {
		respondToInteraction(s, i, "⏳ " + messageGenerating, true)
		return
	}

	session.UpdateParams(func(p *domain.GenerationParams) {
		*p = params
	})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	go h.generate(s, i.Interaction, session)
}

// HandleHistoryCommand は、/cover-history コマンドを処理します
func (h *CoverHandler) HandleHistoryCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, exists := h.coverService.ExistingSession(scopeOf(i))
	if !exists || session.Snapshot().Current == nil {
		respondToInteraction(s, i, "📭 まだ表紙が生成されていません。`/cover` で生成してください。", true)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	h.render(s, i.Interaction, session.Snapshot())
}

// HandleComponent は、表紙メッセージのボタン操作を処理します
func (h *CoverHandler) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, coverID := parseCustomID(i.MessageComponentData().CustomID)

	session, exists := h.coverService.ExistingSession(scopeOf(i))
	if !exists {
		respondToInteraction(s, i, "❌ この表紙は別のユーザーのセッションです。`/cover` で生成してください。", true)
		return
	}

	switch action {
	case customIDHistory:
		h.handleSelectHistory(s, i, session, coverID)
	case customIDRegenerate:
		h.handleRegenerate(s, i, session)
	case customIDDownload:
		h.handleDownload(s, i, session, coverID)
	default:
		log.Printf("未知のボタン操作: %s", i.MessageComponentData().CustomID)
	}
}

// handleSelectHistory は、履歴の表紙を現在の表紙に切り替えます
func (h *CoverHandler) handleSelectHistory(s *discordgo.Session, i *discordgo.InteractionCreate, session *application.CoverSession, coverID string) {
	if _, err := session.SelectHistory(coverID); err != nil {
		respondToInteraction(s, i, "❌ " + selectHistoryErrorMessage(err), true)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	h.render(s, i.Interaction, session.Snapshot())
}

// handleRegenerate は、直前のパラメータで表紙を再生成します
func (h *CoverHandler) handleRegenerate(s *discordgo.Session, i *discordgo.InteractionCreate, session *application.CoverSession) {
	if session.Snapshot().State == domain.SessionStateGenerating {
		respondToInteraction(s, i, "⏳ " + messageGenerating, true)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
		return
	}

	go h.generate(s, i.Interaction, session)
}

// handleDownload は、表紙画像をファイルとして投稿します
func (h *CoverHandler) handleDownload(s *discordgo.Session, i *discordgo.InteractionCreate, session *application.CoverSession, coverID string) {
	cover, ok := findCover(session.Snapshot(), coverID)
	if !ok {
		respondToInteraction(s, i, "❌ " + selectHistoryErrorMessage(domain.ErrCoverNotFound), true)
		return
	}

	file, err := h.responseHandler.DownloadFile(cover)
	if err != nil {
		log.Printf("ダウンロードファイルの作成に失敗: %v", err)
		respondToInteraction(s, i, "❌ ダウンロードの準備に失敗しました。", true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("📥 %s", file.Name),
			Files:   []*discordgo.File{file},
		},
	})
	if err != nil {
		log.Printf("ダウンロードファイルの送信に失敗: %v", err)
	}
}

// generate は、表紙を生成しながら遅延応答を更新します
func (h *CoverHandler) generate(s *discordgo.Session, interaction *discordgo.Interaction, session *application.CoverSession) {
	params := session.Snapshot().Params

	progress := func(message string) {
		content := h.responseHandler.LoadingContent(message, params)
		if _, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
			log.Printf("生成中メッセージの更新に失敗: %v", err)
		}
	}

	_, err := session.Generate(context.Background(), progress)
	if errors.Is(err, domain.ErrGenerationInProgress) {
		content := "⏳ " + messageGenerating
		if _, editErr := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{Content: &content}); editErr != nil {
			log.Printf("応答の更新に失敗: %v", editErr)
		}
		return
	}

	h.render(s, interaction, session.Snapshot())
}

// render は、セッションの状態で応答を更新します
func (h *CoverHandler) render(s *discordgo.Session, interaction *discordgo.Interaction, snapshot application.SessionSnapshot) {
	edit, err := h.responseHandler.CoverEdit(snapshot)
	if err != nil {
		log.Printf("表紙メッセージの作成に失敗: %v", err)
		content := h.responseHandler.ErrorContent(snapshot)
		edit = &discordgo.WebhookEdit{Content: &content}
	}

	if _, err := s.InteractionResponseEdit(interaction, edit); err != nil {
		log.Printf("表紙メッセージの更新に失敗: %v", err)
	}
}

// findCover は、スナップショットから表紙を探します
func findCover(snapshot application.SessionSnapshot, coverID string) (domain.GeneratedCover, bool) {
	if snapshot.Current != nil && snapshot.Current.ID == coverID {
		return *snapshot.Current, true
	}
	for _, cover := range snapshot.History {
		if cover.ID == coverID {
			return cover, true
		}
	}
	return domain.GeneratedCover{}, false
}

// selectHistoryErrorMessage は、履歴操作のエラーを表示用メッセージに変換します
func selectHistoryErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrGenerationInProgress):
		return messageGenerating
	case errors.Is(err, domain.ErrCoverNotFound):
		return "この表紙は履歴に残っていません。"
	default:
		return "操作に失敗しました。"
	}
}
