package application

import (
	"context"
	"fmt"

	"coveralchemy/internal/domain"
)

// CoverGenerator は、生成パラメータから表紙画像を生成するクライアントのインターフェースです
// 成功時はデータURI形式の画像参照を返します
type CoverGenerator interface {
	// GenerateCover は、画像生成サービスを1回だけ呼び出します
	// 失敗時は domain.ErrKeyRequired か *domain.UpstreamError を返します
	GenerateCover(ctx context.Context, params domain.GenerationParams) (string, error)
}

// CoverClientProvider は、APIキーごとのCoverGeneratorを提供するインターフェースです
type CoverClientProvider interface {
	ForAPIKey(ctx context.Context, apiKey string) (CoverGenerator, error)
}

// KeySelector は、実行環境が提供するAPIキー選択機能のインターフェースです
type KeySelector interface {
	// HasSelectedAPIKey は、このセッションでAPIキーが選択済みかどうかを返します
	HasSelectedAPIKey(ctx context.Context) (bool, error)

	// OpenSelectKey は、APIキー選択フローを開きます。完了または中断されると戻ります
	OpenSelectKey(ctx context.Context) error
}

// KeyedCoverGenerator は、呼び出し時点で選択されているAPIキーを解決して生成を委譲します
// キーの解決はプリフライトの後に行われるため、直前に選択したキーが使われます
type KeyedCoverGenerator struct {
	keys    *APIKeyApplicationService
	clients CoverClientProvider
	scopeID string
}

// NewKeyedCoverGenerator は新しいKeyedCoverGeneratorインスタンスを作成します
func NewKeyedCoverGenerator(keys *APIKeyApplicationService, clients CoverClientProvider, scopeID string) *KeyedCoverGenerator {
	return &KeyedCoverGenerator{
		keys:    keys,
		clients: clients,
		scopeID: scopeID,
	}
}

// GenerateCover は、スコープのAPIキーでクライアントを取得して表紙を生成します
func (g *KeyedCoverGenerator) GenerateCover(ctx context.Context, params domain.GenerationParams) (string, error) {
	apiKey, err := g.keys.ResolveAPIKey(ctx, g.scopeID)
	if err != nil {
		return "", err
	}

	client, err := g.clients.ForAPIKey(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("画像生成クライアントの取得に失敗: %w", err)
	}

	return client.GenerateCover(ctx, params)
}
