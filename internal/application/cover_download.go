package application

import (
	"fmt"

	"coveralchemy/internal/domain"
)

// CoverDownload は、保存または添付する表紙画像です
type CoverDownload struct {
	Filename string
	MimeType string
	Data     []byte
}

// NewCoverDownload は、表紙からダウンロード用のファイルを作成します
func NewCoverDownload(cover domain.GeneratedCover) (CoverDownload, error) {
	data, err := domain.DecodeImageReference(cover.URL)
	if err != nil {
		return CoverDownload{}, fmt.Errorf("表紙 %s のダウンロード準備に失敗: %w", cover.ID, err)
	}

	return CoverDownload{
		Filename: domain.CoverFilename(cover.Params.Title),
		MimeType: "image/png",
		Data:     data,
	}, nil
}
