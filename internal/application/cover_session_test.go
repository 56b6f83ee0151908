package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"coveralchemy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(gen *fakeCoverGenerator, keys *fakeKeySelector, params domain.GenerationParams) *CoverSession {
	return NewCoverSession(gen, keys, params, WithLoadingInterval(5*time.Millisecond))
}

func duneParams() domain.GenerationParams {
	params := domain.DefaultGenerationParams()
	params.Title = "Dune"
	params.Genre = "Sci-Fi"
	params.Style = "Cinematic"
	return params
}

func TestCoverSession_InitialState(t *testing.T) {
	session := newTestSession(&fakeCoverGenerator{}, &fakeKeySelector{}, domain.DefaultGenerationParams())

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateIdle, snapshot.State)
	assert.Nil(t, snapshot.Current)
	assert.Empty(t, snapshot.History)
	assert.Empty(t, snapshot.LoadingMessage)
}

func TestCoverSession_Generate_Success(t *testing.T) {
	gen := &fakeCoverGenerator{}
	fixed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	session := NewCoverSession(gen, &fakeKeySelector{}, duneParams(), WithClock(func() time.Time { return fixed }))

	cover, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, cover)

	assert.Equal(t, domain.NewImageReference([]byte("Dune")), cover.URL)
	assert.Equal(t, fixed, cover.Timestamp)
	assert.Equal(t, "Dune", cover.Params.Title)
	assert.NotEmpty(t, cover.ID)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateReady, snapshot.State)
	require.NotNil(t, snapshot.Current)
	assert.Equal(t, cover.ID, snapshot.Current.ID)
	require.Len(t, snapshot.History, 1)
	assert.Equal(t, cover.ID, snapshot.History[0].ID)
	assert.Empty(t, snapshot.ErrorMessage)
	assert.Equal(t, 1, gen.Calls())
}

func TestCoverSession_Generate_EmptyTitleDoesNotCallService(t *testing.T) {
	gen := &fakeCoverGenerator{}
	keys := &fakeKeySelector{}
	params := domain.DefaultGenerationParams()
	params.Model = domain.ModelTierPro
	session := newTestSession(gen, keys, params)

	_, err := session.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateIdle, snapshot.State)
	assert.Equal(t, domain.MessageTitleRequired, snapshot.ValidationMessage)
	assert.Equal(t, 0, gen.Calls())
	assert.Equal(t, int32(0), keys.hasCalls.Load(), "入力エラー時はキーの確認も行わない")
}

func TestCoverSession_Generate_EmptyTitleKeepsReadyAndFailedStates(t *testing.T) {
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	_, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)
	before := session.Snapshot()

	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "" })
	_, err = session.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	after := session.Snapshot()
	assert.Equal(t, domain.SessionStateReady, after.State)
	assert.Equal(t, before.Current.ID, after.Current.ID)
	assert.Len(t, after.History, 1)

	gen.GenerateFunc = func(ctx context.Context, params domain.GenerationParams) (string, error) {
		return "", domain.NewUpstreamError(errors.New("boom"))
	}
	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "Dune" })
	_, err = session.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, domain.SessionStateFailed, session.Snapshot().State)

	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "" })
	_, err = session.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrTitleRequired)
	assert.Equal(t, domain.SessionStateFailed, session.Snapshot().State)
	assert.Equal(t, 2, gen.Calls())
}

func TestCoverSession_Generate_ValidationMessageClearedOnNextAttempt(t *testing.T) {
	session := newTestSession(&fakeCoverGenerator{}, &fakeKeySelector{}, domain.DefaultGenerationParams())

	_, _ = session.Generate(context.Background(), nil)
	assert.NotEmpty(t, session.Snapshot().ValidationMessage)

	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "Dune" })
	_, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, session.Snapshot().ValidationMessage)
}

func TestCoverSession_Generate_KeyRequired(t *testing.T) {
	gen := &fakeCoverGenerator{
		GenerateFunc: func(ctx context.Context, params domain.GenerationParams) (string, error) {
			return "", domain.ErrKeyRequired
		},
	}
	keys := &fakeKeySelector{hasKey: true}
	params := duneParams()
	params.Model = domain.ModelTierPro
	session := newTestSession(gen, keys, params)

	cover, err := session.Generate(context.Background(), nil)
	assert.Nil(t, cover)
	assert.ErrorIs(t, err, domain.ErrKeyRequired)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateFailed, snapshot.State)
	assert.Equal(t, domain.MessageKeyRequired, snapshot.ErrorMessage)
	assert.NotEqual(t, domain.MessageGenerateRetry, snapshot.ErrorMessage)
	assert.Equal(t, int32(1), keys.openCalls.Load(), "キー不足時は選択フローを再度開く")
}

func TestCoverSession_Generate_UpstreamFailure(t *testing.T) {
	gen := &fakeCoverGenerator{
		GenerateFunc: func(ctx context.Context, params domain.GenerationParams) (string, error) {
			return "", domain.ErrNoImageData
		},
	}
	keys := &fakeKeySelector{}
	session := newTestSession(gen, keys, duneParams())

	_, err := session.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoImageData)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateFailed, snapshot.State)
	assert.Equal(t, domain.MessageGenerateRetry, snapshot.ErrorMessage)
	assert.Nil(t, snapshot.Current)
	assert.Empty(t, snapshot.History)
	assert.Equal(t, int32(0), keys.openCalls.Load())
}

func TestCoverSession_Generate_EmptyURLNeverCreatesCover(t *testing.T) {
	gen := &fakeCoverGenerator{
		GenerateFunc: func(ctx context.Context, params domain.GenerationParams) (string, error) {
			return "", nil
		},
	}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	cover, err := session.Generate(context.Background(), nil)
	assert.Nil(t, cover)
	assert.ErrorIs(t, err, domain.ErrNoImageData)
	assert.Nil(t, session.Snapshot().Current)
	assert.Empty(t, session.Snapshot().History)
}

func TestCoverSession_Generate_FailureKeepsPreviousCoverAndHistory(t *testing.T) {
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	first, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)

	gen.GenerateFunc = func(ctx context.Context, params domain.GenerationParams) (string, error) {
		return "", domain.NewUpstreamError(errors.New("unavailable"))
	}
	_, err = session.Generate(context.Background(), nil)
	require.Error(t, err)

	snapshot := session.Snapshot()
	require.NotNil(t, snapshot.Current)
	assert.Equal(t, first.ID, snapshot.Current.ID)
	assert.Len(t, snapshot.History, 1)
}

func TestCoverSession_Preflight(t *testing.T) {
	tests := []struct {
		name          string
		model         domain.ModelTier
		keys          *fakeKeySelector
		wantHasCalls  int32
		wantOpenCalls int32
	}{
		{
			name:          "標準ティアは確認しない",
			model:         domain.ModelTierBasic,
			keys:          &fakeKeySelector{hasKey: false},
			wantHasCalls:  0,
			wantOpenCalls: 0,
		},
		{
			name:          "Proティアでキー選択済み",
			model:         domain.ModelTierPro,
			keys:          &fakeKeySelector{hasKey: true},
			wantHasCalls:  1,
			wantOpenCalls: 0,
		},
		{
			name:          "Proティアでキー未選択なら選択フローを開く",
			model:         domain.ModelTierPro,
			keys:          &fakeKeySelector{hasKey: false},
			wantHasCalls:  1,
			wantOpenCalls: 1,
		},
		{
			name:          "選択フローが失敗しても続行",
			model:         domain.ModelTierPro,
			keys:          &fakeKeySelector{hasKey: false, openErr: errors.New("dismissed")},
			wantHasCalls:  1,
			wantOpenCalls: 1,
		},
		{
			name:          "確認自体が失敗しても続行",
			model:         domain.ModelTierPro,
			keys:          &fakeKeySelector{hasErr: errors.New("capability unavailable")},
			wantHasCalls:  1,
			wantOpenCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeCoverGenerator{}
			params := duneParams()
			params.Model = tt.model
			session := newTestSession(gen, tt.keys, params)

			_, err := session.Generate(context.Background(), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHasCalls, tt.keys.hasCalls.Load())
			assert.Equal(t, tt.wantOpenCalls, tt.keys.openCalls.Load())
			assert.Equal(t, 1, gen.Calls(), "生成は常に1回だけ実行される")
			assert.Equal(t, domain.SessionStateReady, session.Snapshot().State)
		})
	}
}

func TestCoverSession_HistoryKeepsFiveMostRecent(t *testing.T) {
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	var ids []string
	for i := 0; i < 7; i++ {
		title := fmt.Sprintf("Book %d", i)
		session.UpdateParams(func(p *domain.GenerationParams) { p.Title = title })
		cover, err := session.Generate(context.Background(), nil)
		require.NoError(t, err)
		ids = append(ids, cover.ID)
		assert.LessOrEqual(t, len(session.Snapshot().History), domain.MaxCoverHistory)
	}

	history := session.Snapshot().History
	require.Len(t, history, domain.MaxCoverHistory)
	for i, cover := range history {
		assert.Equal(t, ids[len(ids)-1-i], cover.ID)
	}
}

func TestCoverSession_SelectHistory(t *testing.T) {
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	first, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)
	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "Dune Messiah" })
	second, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)

	before := session.Snapshot().History

	selected, err := session.SelectHistory(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, selected.ID)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateReady, snapshot.State)
	assert.Equal(t, first.ID, snapshot.Current.ID)
	assert.Equal(t, before, snapshot.History, "履歴の順序と件数は変わらない")
	assert.Equal(t, second.ID, snapshot.History[0].ID)
	assert.Equal(t, 2, gen.Calls(), "選択では生成を行わない")

	_, err = session.SelectHistory("missing")
	assert.ErrorIs(t, err, domain.ErrCoverNotFound)
	assert.Equal(t, first.ID, session.Snapshot().Current.ID)
}

func TestCoverSession_SelectHistoryAfterFailure(t *testing.T) {
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	first, err := session.Generate(context.Background(), nil)
	require.NoError(t, err)

	gen.GenerateFunc = func(ctx context.Context, params domain.GenerationParams) (string, error) {
		return "", domain.NewUpstreamError(errors.New("unavailable"))
	}
	_, _ = session.Generate(context.Background(), nil)
	require.Equal(t, domain.SessionStateFailed, session.Snapshot().State)

	_, err = session.SelectHistory(first.ID)
	require.NoError(t, err)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateReady, snapshot.State)
	assert.Empty(t, snapshot.ErrorMessage)
}

func TestCoverSession_GenerateWhileGenerating(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gen := &fakeCoverGenerator{
		GenerateFunc: func(ctx context.Context, params domain.GenerationParams) (string, error) {
			close(started)
			<-release
			return domain.NewImageReference([]byte("done")), nil
		},
	}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := session.Generate(context.Background(), nil)
		assert.NoError(t, err)
	}()

	<-started
	assert.Equal(t, domain.SessionStateGenerating, session.Snapshot().State)
	assert.NotEmpty(t, session.Snapshot().LoadingMessage)

	_, err := session.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)

	_, err = session.SelectHistory("any")
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)

	// 生成中でも入力は更新できるが、実行中の生成には影響しない
	session.UpdateParams(func(p *domain.GenerationParams) { p.Title = "Changed" })

	close(release)
	wg.Wait()

	snapshot := session.Snapshot()
	assert.Equal(t, domain.SessionStateReady, snapshot.State)
	assert.Equal(t, "Dune", snapshot.Current.Params.Title)
	assert.Equal(t, "Changed", snapshot.Params.Title)
	assert.Equal(t, 1, gen.Calls())
}

func TestCoverSession_LoadingTickerLifecycle(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("fail=%v", fail), func(t *testing.T) {
			var mu sync.Mutex
			var messages []string
			progress := func(message string) {
				mu.Lock()
				defer mu.Unlock()
				messages = append(messages, message)
			}
			count := func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(messages)
			}

			var session *CoverSession
			gen := &fakeCoverGenerator{
				GenerateFunc: func(ctx context.Context, params domain.GenerationParams) (string, error) {
					assert.True(t, session.tickerActive(), "生成中はタイマーが動作している")
					require.Eventually(t, func() bool { return count() >= 3 }, time.Second, time.Millisecond)
					if fail {
						return "", domain.NewUpstreamError(errors.New("boom"))
					}
					return domain.NewImageReference([]byte("ok")), nil
				},
			}
			session = newTestSession(gen, &fakeKeySelector{}, duneParams())

			_, _ = session.Generate(context.Background(), progress)
			assert.False(t, session.tickerActive(), "生成終了後はタイマーが解放される")

			settled := count()
			time.Sleep(30 * time.Millisecond)
			assert.Equal(t, settled, count(), "生成終了後にメッセージが進んではいけない")

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, domain.LoadingMessage(0), messages[0])
			assert.Equal(t, domain.LoadingMessage(1), messages[1])
			assert.Equal(t, domain.LoadingMessage(2), messages[2])
		})
	}
}

func TestCoverSession_LoadingIndexResetsPerGeneration(t *testing.T) {
	var first []string
	gen := &fakeCoverGenerator{}
	session := newTestSession(gen, &fakeKeySelector{}, duneParams())

	_, err := session.Generate(context.Background(), func(message string) {
		first = append(first, message)
	})
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, domain.LoadingMessage(0), first[0])

	var second []string
	_, err = session.Generate(context.Background(), func(message string) {
		second = append(second, message)
	})
	require.NoError(t, err)
	require.NotEmpty(t, second)
	assert.Equal(t, domain.LoadingMessage(0), second[0])
}
