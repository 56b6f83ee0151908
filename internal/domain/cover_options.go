package domain

import (
	"fmt"
	"strings"
)

// ModelTier は生成モデルのティアを表す定数です
type ModelTier int

const (
	ModelTierBasic ModelTier = iota
	ModelTierPro
)

// ImageSize はProティアの出力解像度を表します（空文字は未指定）
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// Genre は本のジャンルを表します
type Genre string

// Style は表紙のビジュアルスタイルを表します
type Style string

// optionData は各選択肢の値と表示名を保持します
type optionData struct {
	Value       string
	DisplayName string
}

// modelTiers は各ModelTierのデータを定義します
var modelTiers = []optionData{
	{"basic", "FLASH"},
	{"pro", "PRO (2K/4K)"},
}

// imageSizes は各ImageSizeのデータを定義します
var imageSizes = []optionData{
	{"1K", "1K"},
	{"2K", "2K"},
	{"4K", "4K"},
}

// genres は選択可能なジャンルを定義します。先頭がデフォルトです
var genres = []optionData{
	{"Fiction", "フィクション"},
	{"Fantasy", "ファンタジー"},
	{"Sci-Fi", "SF"},
	{"Mystery", "ミステリー"},
	{"Romance", "ロマンス"},
	{"Thriller", "スリラー"},
	{"Historical", "歴史"},
	{"Non-Fiction", "ノンフィクション"},
}

// styles は選択可能なスタイルを定義します。先頭がデフォルトです
var styles = []optionData{
	{"Cinematic", "シネマティック"},
	{"Minimalist", "ミニマル"},
	{"Oil Painting", "油絵風"},
	{"Digital Art", "デジタルアート"},
	{"Gothic", "ゴシック"},
	{"Pastel", "パステル"},
}

// String はModelTierの値を返します
func (t ModelTier) String() string {
	if int(t) >= 0 && int(t) < len(modelTiers) {
		return modelTiers[t].Value
	}
	return "basic"
}

// DisplayName はModelTierの表示名を返します
func (t ModelTier) DisplayName() string {
	if int(t) >= 0 && int(t) < len(modelTiers) {
		return modelTiers[t].DisplayName
	}
	return "FLASH"
}

// IsPremium は、解像度指定とキー選択が必要なティアかどうかを返します
func (t ModelTier) IsPremium() bool {
	return t == ModelTierPro
}

// DisplayName はGenreの表示名を返します
func (g Genre) DisplayName() string {
	return displayNameOf(genres, string(g))
}

// DisplayName はStyleの表示名を返します
func (s Style) DisplayName() string {
	return displayNameOf(styles, string(s))
}

// AllModelTiers はすべてのModelTierを返します
func AllModelTiers() []ModelTier {
	return []ModelTier{ModelTierBasic, ModelTierPro}
}

// AllImageSizes はすべてのImageSizeを返します
func AllImageSizes() []ImageSize {
	return []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K}
}

// AllGenres はすべてのGenreを返します
func AllGenres() []Genre {
	result := make([]Genre, len(genres))
	for i, g := range genres {
		result[i] = Genre(g.Value)
	}
	return result
}

// AllStyles はすべてのStyleを返します
func AllStyles() []Style {
	result := make([]Style, len(styles))
	for i, s := range styles {
		result[i] = Style(s.Value)
	}
	return result
}

// ParseModelTier は、文字列からModelTierを解析します
func ParseModelTier(value string) (ModelTier, error) {
	idx := indexOf(modelTiers, value)
	if idx < 0 {
		return ModelTierBasic, fmt.Errorf("不明なモデルティアです: %s", value)
	}
	return ModelTier(idx), nil
}

// ParseImageSize は、文字列からImageSizeを解析します
func ParseImageSize(value string) (ImageSize, error) {
	idx := indexOf(imageSizes, value)
	if idx < 0 {
		return "", fmt.Errorf("不明な画像サイズです: %s", value)
	}
	return ImageSize(imageSizes[idx].Value), nil
}

// ParseGenre は、文字列からGenreを解析します
func ParseGenre(value string) (Genre, error) {
	idx := indexOf(genres, value)
	if idx < 0 {
		return "", fmt.Errorf("不明なジャンルです: %s", value)
	}
	return Genre(genres[idx].Value), nil
}

// ParseStyle は、文字列からStyleを解析します
func ParseStyle(value string) (Style, error) {
	idx := indexOf(styles, value)
	if idx < 0 {
		return "", fmt.Errorf("不明なスタイルです: %s", value)
	}
	return Style(styles[idx].Value), nil
}

func indexOf(options []optionData, value string) int {
	value = strings.TrimSpace(value)
	for i, o := range options {
		if strings.EqualFold(o.Value, value) {
			return i
		}
	}
	return -1
}

func displayNameOf(options []optionData, value string) string {
	if idx := indexOf(options, value); idx >= 0 {
		return options[idx].DisplayName
	}
	return value
}
