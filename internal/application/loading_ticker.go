package application

import (
	"sync"
	"time"
)

// loadingTicker は、生成中メッセージを一定間隔で進めるキャンセル可能なタイマーです
type loadingTicker struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startLoadingTicker は、intervalごとにonTickを呼び出すタイマーを開始します
func startLoadingTicker(interval time.Duration, onTick func()) *loadingTicker {
	t := &loadingTicker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()

	return t
}

// Stop は、タイマーを停止し、実行中のonTickの完了を待ちます
// 複数回呼び出しても安全です
func (t *loadingTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
}
