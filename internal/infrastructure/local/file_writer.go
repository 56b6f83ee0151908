package local

import (
	"fmt"
	"os"
	"path/filepath"

	"coveralchemy/internal/application"
)

// WriteCover は、表紙画像をディレクトリに保存し、保存先のパスを返します
func WriteCover(dir string, download application.CoverDownload) (string, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗: %w", err)
	}

	path := filepath.Join(dir, download.Filename)
	if err := os.WriteFile(path, download.Data, 0644); err != nil {
		return "", fmt.Errorf("表紙画像の保存に失敗: %w", err)
	}

	return path, nil
}
