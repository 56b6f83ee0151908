package application

import (
	"context"
	"sync"
	"sync/atomic"

	"coveralchemy/internal/domain"
)

// fakeCoverGenerator は、テスト用の画像生成クライアントです
type fakeCoverGenerator struct {
	GenerateFunc func(ctx context.Context, params domain.GenerationParams) (string, error)
	calls        atomic.Int32

	mu         sync.Mutex
	lastParams domain.GenerationParams
}

func (f *fakeCoverGenerator) GenerateCover(ctx context.Context, params domain.GenerationParams) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastParams = params
	f.mu.Unlock()

	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, params)
	}
	return domain.NewImageReference([]byte(params.Title)), nil
}

func (f *fakeCoverGenerator) Calls() int {
	return int(f.calls.Load())
}

// fakeKeySelector は、テスト用のAPIキー選択機能です
type fakeKeySelector struct {
	hasKey  bool
	hasErr  error
	openErr error

	hasCalls  atomic.Int32
	openCalls atomic.Int32
}

func (f *fakeKeySelector) HasSelectedAPIKey(ctx context.Context) (bool, error) {
	f.hasCalls.Add(1)
	return f.hasKey, f.hasErr
}

func (f *fakeKeySelector) OpenSelectKey(ctx context.Context) error {
	f.openCalls.Add(1)
	return f.openErr
}

// fakeAPIKeyStore は、テスト用のAPIキーストアです
type fakeAPIKeyStore struct {
	keys   map[string]string
	hasErr error
}

func newFakeAPIKeyStore() *fakeAPIKeyStore {
	return &fakeAPIKeyStore{keys: make(map[string]string)}
}

func (f *fakeAPIKeyStore) SelectAPIKey(ctx context.Context, scopeID, apiKey, selectedBy string) error {
	f.keys[scopeID] = apiKey
	return nil
}

func (f *fakeAPIKeyStore) GetAPIKey(ctx context.Context, scopeID string) (string, error) {
	key, ok := f.keys[scopeID]
	if !ok {
		return "", domain.ErrKeyRequired
	}
	return key, nil
}

func (f *fakeAPIKeyStore) ClearAPIKey(ctx context.Context, scopeID string) error {
	delete(f.keys, scopeID)
	return nil
}

func (f *fakeAPIKeyStore) HasSelectedAPIKey(ctx context.Context, scopeID string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.keys[scopeID]
	return ok, nil
}

// fakeClientProvider は、APIキーごとに呼び出しを記録するプロバイダです
type fakeClientProvider struct {
	generator *fakeCoverGenerator
	err       error
	apiKeys   []string
}

func (f *fakeClientProvider) ForAPIKey(ctx context.Context, apiKey string) (CoverGenerator, error) {
	f.apiKeys = append(f.apiKeys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.generator, nil
}
