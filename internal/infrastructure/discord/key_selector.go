package discord

import (
	"context"
	"fmt"

	"coveralchemy/internal/domain"
)

// selectKeyPrompt は、APIキー未選択時にチャンネルへ送信する案内です
const selectKeyPrompt = "<@%s> Proモデルには課金が有効なAPIキーが必要です。`/set-api` でこのサーバーのAPIキーを設定してください。"

// MessageSender は、チャンネルにメッセージを送信する関数です
type MessageSender func(channelID, content string) error

// ChannelKeySelector は、DiscordサーバーのAPIキーを選択機能として提供します
// 選択フローはチャンネルへの案内メッセージの送信です
type ChannelKeySelector struct {
	store     domain.APIKeyStore
	guildID   string
	channelID string
	userID    string
	send      MessageSender
}

// NewChannelKeySelector は新しいChannelKeySelectorインスタンスを作成します
func NewChannelKeySelector(store domain.APIKeyStore, guildID, channelID, userID string, send MessageSender) *ChannelKeySelector {
	return &ChannelKeySelector{
		store:     store,
		guildID:   guildID,
		channelID: channelID,
		userID:    userID,
		send:      send,
	}
}

// HasSelectedAPIKey は、サーバーでAPIキーが設定済みかどうかを返します
func (s *ChannelKeySelector) HasSelectedAPIKey(ctx context.Context) (bool, error) {
	return s.store.HasSelectedAPIKey(ctx, s.guildID)
}

// OpenSelectKey は、APIキーの設定を促すメッセージをチャンネルに送信します
func (s *ChannelKeySelector) OpenSelectKey(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if s.send == nil {
		return fmt.Errorf("メッセージ送信機能が設定されていません")
	}

	if err := s.send(s.channelID, fmt.Sprintf(selectKeyPrompt, s.userID)); err != nil {
		return fmt.Errorf("APIキー設定の案内送信に失敗: %w", err)
	}

	return nil
}
