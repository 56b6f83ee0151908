package domain

import (
	"context"
	"time"
)

// APIKeySelection は、スコープ（Discordサーバーやローカルユーザー）ごとに選択されたAPIキーを表します
type APIKeySelection struct {
	ScopeID    string
	APIKey     string
	SelectedBy string
	SelectedAt time.Time
}

// NewAPIKeySelection は新しいAPIKeySelectionインスタンスを作成します
func NewAPIKeySelection(scopeID, apiKey, selectedBy string) APIKeySelection {
	return APIKeySelection{
		ScopeID:    scopeID,
		APIKey:     apiKey,
		SelectedBy: selectedBy,
		SelectedAt: time.Now(),
	}
}

// APIKeyStore は、選択されたAPIキーの保管を行うインターフェースです
type APIKeyStore interface {
	// SelectAPIKey は、指定されたスコープのAPIキーを設定します
	SelectAPIKey(ctx context.Context, scopeID string, apiKey string, selectedBy string) error

	// GetAPIKey は、指定されたスコープのAPIキーを取得します
	GetAPIKey(ctx context.Context, scopeID string) (string, error)

	// ClearAPIKey は、指定されたスコープのAPIキーを削除します
	ClearAPIKey(ctx context.Context, scopeID string) error

	// HasSelectedAPIKey は、指定されたスコープでAPIキーが選択されているかを確認します
	HasSelectedAPIKey(ctx context.Context, scopeID string) (bool, error)
}
