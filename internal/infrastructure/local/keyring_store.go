package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService は、OSのキーチェーンに保存する際のサービス名です
const keyringService = "coveralchemy"

// KeyringAPIKeyStore は、OSのキーチェーンにAPIキーを保存するストアです
// スコープIDはキーチェーンのユーザー名として使われます
type KeyringAPIKeyStore struct {
	service string
}

// NewKeyringAPIKeyStore は新しいKeyringAPIKeyStoreインスタンスを作成します
func NewKeyringAPIKeyStore() *KeyringAPIKeyStore {
	return &KeyringAPIKeyStore{service: keyringService}
}

// SelectAPIKey は、APIキーをキーチェーンに保存します
func (s *KeyringAPIKeyStore) SelectAPIKey(ctx context.Context, scopeID, apiKey, selectedBy string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := keyring.Set(s.service, scopeID, apiKey); err != nil {
		return fmt.Errorf("キーチェーンへのAPIキー保存に失敗: %w", err)
	}
	return nil
}

// GetAPIKey は、キーチェーンからAPIキーを取得します
func (s *KeyringAPIKeyStore) GetAPIKey(ctx context.Context, scopeID string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	apiKey, err := keyring.Get(s.service, scopeID)
	if err != nil {
		return "", fmt.Errorf("キーチェーンからのAPIキー取得に失敗: %w", err)
	}
	return apiKey, nil
}

// ClearAPIKey は、キーチェーンからAPIキーを削除します
func (s *KeyringAPIKeyStore) ClearAPIKey(ctx context.Context, scopeID string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := keyring.Delete(s.service, scopeID); err != nil {
		return fmt.Errorf("キーチェーンからのAPIキー削除に失敗: %w", err)
	}
	return nil
}

// HasSelectedAPIKey は、キーチェーンにAPIキーが保存されているかを確認します
func (s *KeyringAPIKeyStore) HasSelectedAPIKey(ctx context.Context, scopeID string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	_, err := keyring.Get(s.service, scopeID)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("キーチェーンの確認に失敗: %w", err)
	}
	return true, nil
}
