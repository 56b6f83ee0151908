package discord

import (
	"context"
	"fmt"
	"sync"

	"coveralchemy/internal/domain"
)

// GuildAPIKeyRepository は、Discordサーバーごとに選択されたAPIキーを保持するリポジトリです
// メモリベースのため、Botを再起動すると選択は失われます
type GuildAPIKeyRepository struct {
	selections map[string]domain.APIKeySelection
	mutex      sync.RWMutex
}

// NewGuildAPIKeyRepository は新しいGuildAPIKeyRepositoryインスタンスを作成します
func NewGuildAPIKeyRepository() *GuildAPIKeyRepository {
	return &GuildAPIKeyRepository{
		selections: make(map[string]domain.APIKeySelection),
	}
}

// SelectAPIKey は、指定されたギルドのAPIキーを設定します
func (r *GuildAPIKeyRepository) SelectAPIKey(ctx context.Context, guildID, apiKey, selectedBy string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.selections[guildID] = domain.NewAPIKeySelection(guildID, apiKey, selectedBy)
	return nil
}

// GetAPIKey は、指定されたギルドのAPIキーを取得します
func (r *GuildAPIKeyRepository) GetAPIKey(ctx context.Context, guildID string) (string, error) {
	selection, err := r.GetSelection(ctx, guildID)
	if err != nil {
		return "", err
	}
	return selection.APIKey, nil
}

// GetSelection は、指定されたギルドのAPIキー選択情報を取得します
func (r *GuildAPIKeyRepository) GetSelection(ctx context.Context, guildID string) (domain.APIKeySelection, error) {
	if ctx.Err() != nil {
		return domain.APIKeySelection{}, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	selection, exists := r.selections[guildID]
	if !exists {
		return domain.APIKeySelection{}, fmt.Errorf("ギルド %s のAPIキーが設定されていません", guildID)
	}

	return selection, nil
}

// ClearAPIKey は、指定されたギルドのAPIキーを削除します
func (r *GuildAPIKeyRepository) ClearAPIKey(ctx context.Context, guildID string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.selections[guildID]; !exists {
		return fmt.Errorf("ギルド %s のAPIキーが設定されていません", guildID)
	}

	delete(r.selections, guildID)
	return nil
}

// HasSelectedAPIKey は、指定されたギルドにAPIキーが設定されているかを確認します
func (r *GuildAPIKeyRepository) HasSelectedAPIKey(ctx context.Context, guildID string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.selections[guildID]
	return exists, nil
}
