package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"coveralchemy/internal/domain"
)

// defaultLoadingInterval は、生成中メッセージを切り替えるデフォルト間隔です
const defaultLoadingInterval = 2500 * time.Millisecond

// ProgressFunc は、生成中メッセージが切り替わるたびに呼び出されます
type ProgressFunc func(message string)

// SessionSnapshot は、セッション状態の読み取り専用コピーです
type SessionSnapshot struct {
	State             domain.SessionState
	Params            domain.GenerationParams
	Current           *domain.GeneratedCover
	History           []domain.GeneratedCover
	ErrorMessage      string
	ValidationMessage string
	LoadingMessage    string
}

// SessionOption は、CoverSessionの生成時オプションです
type SessionOption func(*CoverSession)

// WithLoadingInterval は、生成中メッセージの切り替え間隔を設定します
func WithLoadingInterval(interval time.Duration) SessionOption {
	return func(s *CoverSession) {
		if interval > 0 {
			s.loadingInterval = interval
		}
	}
}

// WithClock は、表紙の作成時刻に使う時計を設定します
func WithClock(now func() time.Time) SessionOption {
	return func(s *CoverSession) {
		if now != nil {
			s.now = now
		}
	}
}

// CoverSession は、1人のユーザーの表紙生成状態を管理します
// 状態は Idle → Generating → Ready / Failed と遷移します
type CoverSession struct {
	generator       CoverGenerator
	keys            KeySelector
	loadingInterval time.Duration
	now             func() time.Time

	mu                sync.Mutex
	inFlight          bool
	state             domain.SessionState
	params            domain.GenerationParams
	current           *domain.GeneratedCover
	history           *domain.CoverHistory
	errorMessage      string
	validationMessage string
	loadingIndex      int
	ticker            *loadingTicker
}

// NewCoverSession は新しいCoverSessionインスタンスを作成します
func NewCoverSession(generator CoverGenerator, keys KeySelector, params domain.GenerationParams, opts ...SessionOption) *CoverSession {
	s := &CoverSession{
		generator:       generator,
		keys:            keys,
		loadingInterval: defaultLoadingInterval,
		now:             time.Now,
		state:           domain.SessionStateIdle,
		params:          params,
		history:         domain.NewCoverHistory(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// UpdateParams は、フォームの入力値を更新します
// 生成中でも更新でき、生成には開始時点のスナップショットが使われます
func (s *CoverSession) UpdateParams(update func(*domain.GenerationParams)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update(&s.params)
}

// Generate は、現在のパラメータで表紙を生成します
// 状態は結果に応じて更新され、分類済みのエラーがそのまま返されます
func (s *CoverSession) Generate(ctx context.Context, progress ProgressFunc) (*domain.GeneratedCover, error) {
	params, err := s.begin()
	if err != nil {
		return nil, err
	}

	if params.Model.IsPremium() {
		s.preflight(ctx)
	}

	ticker := s.enterGenerating(progress)
	url, err := s.runGenerator(ctx, ticker, params)

	cover, err := s.settle(url, params, err)
	if errors.Is(err, domain.ErrKeyRequired) {
		// キーが不足している場合は選択フローを再度開く
		if openErr := s.keys.OpenSelectKey(ctx); openErr != nil {
			log.Printf("APIキー選択フローの再表示に失敗: %v", openErr)
		}
	}

	return cover, err
}

// begin は、入力を検証して生成を予約し、パラメータのスナップショットを返します
func (s *CoverSession) begin() (domain.GenerationParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return domain.GenerationParams{}, domain.ErrGenerationInProgress
	}

	params := s.params
	if err := params.Validate(); err != nil {
		// 状態は変えずに入力エラーのみを設定
		s.validationMessage = domain.MessageTitleRequired
		return domain.GenerationParams{}, err
	}

	s.validationMessage = ""
	s.errorMessage = ""
	s.inFlight = true

	return params, nil
}

// preflight は、Proティアの生成前にAPIキーの選択状況を確認します
// 確認に失敗しても生成は続行します
func (s *CoverSession) preflight(ctx context.Context) {
	hasKey, err := s.keys.HasSelectedAPIKey(ctx)
	if err != nil {
		log.Printf("APIキー選択状況の確認に失敗、生成を続行します: %v", err)
		return
	}

	if hasKey {
		return
	}

	// 選択フローの結果に関わらず生成を続行
	if err := s.keys.OpenSelectKey(ctx); err != nil {
		log.Printf("APIキー選択フローの表示に失敗、生成を続行します: %v", err)
	}
}

// enterGenerating は、Generating状態に遷移して生成中メッセージのタイマーを開始します
func (s *CoverSession) enterGenerating(progress ProgressFunc) *loadingTicker {
	s.mu.Lock()
	s.state = domain.SessionStateGenerating
	s.loadingIndex = 0
	ticker := startLoadingTicker(s.loadingInterval, func() {
		s.advanceLoadingMessage(progress)
	})
	s.ticker = ticker
	s.mu.Unlock()

	log.Printf("表紙生成セッション: 状態=%s", domain.SessionStateGenerating)

	if progress != nil {
		progress(domain.LoadingMessage(0))
	}

	return ticker
}

// runGenerator は、画像生成を1回だけ実行し、終了時に必ずタイマーを停止します
func (s *CoverSession) runGenerator(ctx context.Context, ticker *loadingTicker, params domain.GenerationParams) (string, error) {
	defer s.stopTicker(ticker)

	return s.generator.GenerateCover(ctx, params)
}

// stopTicker は、生成中メッセージのタイマーを停止して解放します
func (s *CoverSession) stopTicker(ticker *loadingTicker) {
	ticker.Stop()

	s.mu.Lock()
	if s.ticker == ticker {
		s.ticker = nil
	}
	s.mu.Unlock()
}

// advanceLoadingMessage は、生成中メッセージを次に進めて通知します
func (s *CoverSession) advanceLoadingMessage(progress ProgressFunc) {
	s.mu.Lock()
	if s.state != domain.SessionStateGenerating {
		s.mu.Unlock()
		return
	}
	s.loadingIndex = domain.NextLoadingIndex(s.loadingIndex)
	message := domain.LoadingMessage(s.loadingIndex)
	s.mu.Unlock()

	if progress != nil {
		progress(message)
	}
}

// settle は、生成結果に応じてReadyまたはFailedに遷移します
func (s *CoverSession) settle(url string, params domain.GenerationParams, genErr error) (*domain.GeneratedCover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false

	if genErr == nil {
		cover, err := domain.NewGeneratedCover(url, params, s.now())
		if err != nil {
			genErr = domain.ErrNoImageData
		} else {
			s.current = &cover
			if evicted := s.history.Prepend(cover); evicted > 0 {
				log.Printf("表紙履歴の上限に達したため古い表紙を%d件破棄しました", evicted)
			}
			s.state = domain.SessionStateReady
			log.Printf("表紙生成セッション: 状態=%s, 履歴=%d件", s.state, s.history.Len())

			result := cover
			return &result, nil
		}
	}

	s.state = domain.SessionStateFailed
	if errors.Is(genErr, domain.ErrKeyRequired) {
		s.errorMessage = domain.MessageKeyRequired
	} else {
		s.errorMessage = domain.MessageGenerateRetry
	}
	log.Printf("表紙生成セッション: 状態=%s, エラー=%v", s.state, genErr)

	return nil, genErr
}

// SelectHistory は、履歴の表紙を現在の表紙として選択します
// 履歴の順序と件数は変わりません
func (s *CoverSession) SelectHistory(id string) (domain.GeneratedCover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return domain.GeneratedCover{}, domain.ErrGenerationInProgress
	}

	cover, ok := s.history.Find(id)
	if !ok {
		return domain.GeneratedCover{}, domain.ErrCoverNotFound
	}

	s.current = &cover
	s.state = domain.SessionStateReady
	s.errorMessage = ""

	return cover, nil
}

// Snapshot は、現在のセッション状態のコピーを返します
func (s *CoverSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := SessionSnapshot{
		State:             s.state,
		Params:            s.params,
		History:           s.history.Covers(),
		ErrorMessage:      s.errorMessage,
		ValidationMessage: s.validationMessage,
	}

	if s.current != nil {
		current := *s.current
		snapshot.Current = &current
	}

	if s.state == domain.SessionStateGenerating {
		snapshot.LoadingMessage = domain.LoadingMessage(s.loadingIndex)
	}

	return snapshot
}

// tickerActive は、生成中メッセージのタイマーが動作中かどうかを返します
func (s *CoverSession) tickerActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ticker != nil
}
