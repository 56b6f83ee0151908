package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// imageReferencePrefix は、生成画像を参照するデータURIの接頭辞です
const imageReferencePrefix = "data:image/png;base64,"

// GenerationParams は、表紙生成時のパラメータのスナップショットです
type GenerationParams struct {
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description"`
	Genre       Genre     `json:"genre"`
	Style       Style     `json:"style"`
	Model       ModelTier `json:"model"`
	ImageSize   ImageSize `json:"image_size,omitempty"` // Proティアのみ有効
}

// DefaultGenerationParams は、フォームの初期値を返します
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Genre:     Genre(genres[0].Value),
		Style:     Style(styles[0].Value),
		Model:     ModelTierBasic,
		ImageSize: ImageSize1K,
	}
}

// Validate は、生成前に必須項目を検証します
func (p GenerationParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// EffectiveImageSize は、送信する解像度を返します
// Proティア以外では常に空文字です
func (p GenerationParams) EffectiveImageSize() ImageSize {
	if !p.Model.IsPremium() {
		return ""
	}
	if p.ImageSize == "" {
		return ImageSize1K
	}
	return p.ImageSize
}

// GeneratedCover は、生成に成功した表紙を表すドメインオブジェクトです
type GeneratedCover struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Timestamp time.Time        `json:"timestamp"`
	Params    GenerationParams `json:"params"`
}

// NewGeneratedCover は、画像参照とパラメータから新しいGeneratedCoverを作成します
func NewGeneratedCover(url string, params GenerationParams, at time.Time) (GeneratedCover, error) {
	if url == "" {
		return GeneratedCover{}, fmt.Errorf("画像参照が空のため表紙を作成できません")
	}
	return GeneratedCover{
		ID:        uuid.NewString(),
		URL:       url,
		Timestamp: at,
		Params:    params,
	}, nil
}

// NewImageReference は、画像データをデータURIに変換します
func NewImageReference(data []byte) string {
	return imageReferencePrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeImageReference は、データURIから画像データを取り出します
func DecodeImageReference(url string) ([]byte, error) {
	if !strings.HasPrefix(url, imageReferencePrefix) {
		return nil, fmt.Errorf("サポートされていない画像参照です")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, imageReferencePrefix))
	if err != nil {
		return nil, fmt.Errorf("画像参照のデコードに失敗: %w", err)
	}
	return data, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CoverFilename は、タイトルからダウンロード用のファイル名を作成します
func CoverFilename(title string) string {
	seed := whitespaceRun.ReplaceAllString(title, "_")
	if strings.Trim(seed, "_") == "" {
		seed = "book"
	}
	return seed + "_cover.png"
}
