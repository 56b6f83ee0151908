package gemini

import (
	"context"
	"fmt"
	"log"
	"sync"

	"coveralchemy/internal/application"
	"coveralchemy/internal/infrastructure/config"

	"google.golang.org/genai"
)

// CoverClientPool は、APIキーごとにCoverClientを作成して再利用します
type CoverClientPool struct {
	config  *config.GeminiConfig
	clients map[string]*CoverClient
	mutex   sync.Mutex
}

// NewCoverClientPool は新しいCoverClientPoolインスタンスを作成します
func NewCoverClientPool(geminiConfig *config.GeminiConfig) *CoverClientPool {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}

	return &CoverClientPool{
		config:  geminiConfig,
		clients: make(map[string]*CoverClient),
	}
}

// ForAPIKey は、APIキーに対応するクライアントを返します
func (p *CoverClientPool) ForAPIKey(ctx context.Context, apiKey string) (application.CoverGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("APIキーが指定されていません")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if client, exists := p.clients[apiKey]; exists {
		return client, nil
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	client := NewCoverClient(genaiClient, p.config)
	p.clients[apiKey] = client
	log.Printf("Gemini APIクライアントを作成しました（キャッシュ数: %d）", len(p.clients))

	return client, nil
}
