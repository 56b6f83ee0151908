package application

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coveralchemy/internal/domain"
)

// minAPIKeyLength は、受け付けるAPIキーの最小長です
const minAPIKeyLength = 10

// APIKeyApplicationService は、APIキーの選択と解決を行うアプリケーションサービスです
type APIKeyApplicationService struct {
	store         domain.APIKeyStore
	defaultAPIKey string
}

// NewAPIKeyApplicationService は新しいAPIKeyApplicationServiceインスタンスを作成します
func NewAPIKeyApplicationService(store domain.APIKeyStore, defaultAPIKey string) *APIKeyApplicationService {
	return &APIKeyApplicationService{
		store:         store,
		defaultAPIKey: strings.TrimSpace(defaultAPIKey),
	}
}

// SelectAPIKey は、指定されたスコープのAPIキーを選択します
func (s *APIKeyApplicationService) SelectAPIKey(ctx context.Context, scopeID, apiKey, selectedBy string) error {
	apiKey = strings.TrimSpace(apiKey)

	// APIキーの形式を検証（基本的な検証）
	if apiKey == "" {
		return fmt.Errorf("APIキーが空です")
	}

	if len(apiKey) < minAPIKeyLength {
		return fmt.Errorf("APIキーが短すぎます")
	}

	return s.store.SelectAPIKey(ctx, scopeID, apiKey, selectedBy)
}

// ClearAPIKey は、指定されたスコープのAPIキー選択を解除します
func (s *APIKeyApplicationService) ClearAPIKey(ctx context.Context, scopeID string) error {
	return s.store.ClearAPIKey(ctx, scopeID)
}

// HasSelectedAPIKey は、指定されたスコープでAPIキーが選択されているかを確認します
func (s *APIKeyApplicationService) HasSelectedAPIKey(ctx context.Context, scopeID string) (bool, error) {
	return s.store.HasSelectedAPIKey(ctx, scopeID)
}

// HasDefaultAPIKey は、デフォルトのAPIキーが設定されているかを返します
func (s *APIKeyApplicationService) HasDefaultAPIKey() bool {
	return s.defaultAPIKey != ""
}

// ResolveAPIKey は、生成に使用するAPIキーを決定します
// 選択済みのキーを優先し、なければデフォルトのキーを使用します
func (s *APIKeyApplicationService) ResolveAPIKey(ctx context.Context, scopeID string) (string, error) {
	selected, err := s.store.HasSelectedAPIKey(ctx, scopeID)
	if err != nil {
		log.Printf("APIキー選択状況の確認に失敗、デフォルトのキーを使用します: %v", err)
	}

	if selected {
		apiKey, err := s.store.GetAPIKey(ctx, scopeID)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
		log.Printf("選択済みAPIキーの取得に失敗、デフォルトのキーを使用します: %v", err)
	}

	if s.defaultAPIKey != "" {
		return s.defaultAPIKey, nil
	}

	return "", domain.ErrKeyRequired
}
