package local

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"coveralchemy/internal/application"
)

// TerminalKeySelector は、端末でAPIキーを入力させる選択機能です
type TerminalKeySelector struct {
	keys    *application.APIKeyApplicationService
	scopeID string
	in      *bufio.Reader
	out     io.Writer
}

// NewTerminalKeySelector は新しいTerminalKeySelectorインスタンスを作成します
func NewTerminalKeySelector(keys *application.APIKeyApplicationService, scopeID string, in io.Reader, out io.Writer) *TerminalKeySelector {
	return &TerminalKeySelector{
		keys:    keys,
		scopeID: scopeID,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// HasSelectedAPIKey は、キーチェーンにAPIキーが保存済みかどうかを返します
func (s *TerminalKeySelector) HasSelectedAPIKey(ctx context.Context) (bool, error) {
	return s.keys.HasSelectedAPIKey(ctx, s.scopeID)
}

// OpenSelectKey は、APIキーの入力を求めて保存します
// 空の入力は中断として扱い、何も保存しません
func (s *TerminalKeySelector) OpenSelectKey(ctx context.Context) error {
	fmt.Fprintln(s.out, "Proモデルには課金が有効なAPIキーが必要です。")
	fmt.Fprint(s.out, "APIキーを入力してください（空欄でスキップ）: ")

	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("APIキーの読み込みに失敗: %w", err)
	}

	apiKey := strings.TrimSpace(line)
	if apiKey == "" {
		fmt.Fprintln(s.out)
		return nil
	}

	if err := s.keys.SelectAPIKey(ctx, s.scopeID, apiKey, "terminal"); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "APIキーを保存しました。")
	return nil
}
