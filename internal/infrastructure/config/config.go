package config

import "time"

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey         string        // デフォルトのAPIキー（未選択時に使用）
	BasicModelName string        // 標準ティアの画像生成モデル
	ProModelName   string        // Proティアの画像生成モデル
	RequestTimeout time.Duration // 1回の生成リクエストのタイムアウト
}

// CoverConfig は、表紙生成セッション関連の設定を定義します
type CoverConfig struct {
	LoadingMessageInterval time.Duration // 生成中メッセージの切り替え間隔
	DefaultGenre           string
	DefaultStyle           string
	OutputDir              string // CLIで画像を保存するディレクトリ
}

// DiscordConfig は、Discord関連の設定を定義します
type DiscordConfig struct {
	BotToken string
}

// DefaultGeminiConfig は、デフォルトのGemini設定を返します
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		BasicModelName: "gemini-2.5-flash-image",
		ProModelName:   "gemini-3-pro-image-preview",
		RequestTimeout: 2 * time.Minute,
	}
}

// DefaultCoverConfig は、デフォルトの表紙生成設定を返します
func DefaultCoverConfig() *CoverConfig {
	return &CoverConfig{
		LoadingMessageInterval: 2500 * time.Millisecond,
		DefaultGenre:           "Fiction",
		DefaultStyle:           "Cinematic",
		OutputDir:              ".",
	}
}
