package domain

import (
	"errors"
	"testing"
)

func TestLoadingMessage_Wraps(t *testing.T) {
	n := LoadingMessageCount()
	if n != 5 {
		t.Fatalf("期待されるメッセージ数: 5, 実際: %d", n)
	}

	if LoadingMessage(0) != LoadingMessage(n) {
		t.Error("インデックスがメッセージ数で折り返されていません")
	}
	if LoadingMessage(-1) != LoadingMessage(n-1) {
		t.Error("負のインデックスが正しく折り返されていません")
	}

	idx := 0
	for i := 0; i < n; i++ {
		idx = NextLoadingIndex(idx)
	}
	if idx != 0 {
		t.Errorf("一周後のインデックスは0であるべきです: %d", idx)
	}
}

func TestSessionState_String(t *testing.T) {
	tests := map[SessionState]string{
		SessionStateIdle:       "idle",
		SessionStateGenerating: "generating",
		SessionStateReady:      "ready",
		SessionStateFailed:     "failed",
		SessionState(42):       "unknown",
	}
	for state, want := range tests {
		if state.String() != want {
			t.Errorf("期待される値: %s, 実際: %s", want, state.String())
		}
	}
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewUpstreamError(cause)

	if err.Error() != "quota exceeded" {
		t.Errorf("元のメッセージが保持されていません: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrapで元のエラーを取得できません")
	}

	var upstream *UpstreamError
	if !errors.As(ErrNoImageData, &upstream) || upstream.Message != "No image data found in response" {
		t.Errorf("ErrNoImageDataのメッセージが正しくありません: %v", ErrNoImageData)
	}
}
