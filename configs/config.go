package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"coveralchemy/internal/domain"
	"coveralchemy/internal/infrastructure/config"

	"github.com/joho/godotenv"
)

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Discord config.DiscordConfig
	Gemini  config.GeminiConfig
	Cover   config.CoverConfig
}

// LoadConfig は、環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "警告: .envファイルの読み込みに失敗しました: %v\n", err)
	}

	gemini := config.DefaultGeminiConfig()
	cover := config.DefaultCoverConfig()

	cfg := &Config{
		Discord: config.DiscordConfig{
			BotToken: getEnvOrDefault("DISCORD_BOT_TOKEN", ""),
		},
		Gemini: config.GeminiConfig{
			APIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
			BasicModelName: getEnvOrDefault("GEMINI_BASIC_MODEL", gemini.BasicModelName),
			ProModelName:   getEnvOrDefault("GEMINI_PRO_MODEL", gemini.ProModelName),
			RequestTimeout: getEnvAsDurationOrDefault("GEMINI_REQUEST_TIMEOUT", gemini.RequestTimeout),
		},
		Cover: config.CoverConfig{
			LoadingMessageInterval: getEnvAsDurationOrDefault("COVER_LOADING_INTERVAL", cover.LoadingMessageInterval),
			DefaultGenre:           getEnvOrDefault("COVER_DEFAULT_GENRE", cover.DefaultGenre),
			DefaultStyle:           getEnvOrDefault("COVER_DEFAULT_STYLE", cover.DefaultStyle),
			OutputDir:              getEnvOrDefault("COVER_OUTPUT_DIR", cover.OutputDir),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate は、設定の妥当性を検証します
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.BasicModelName) == "" {
		return fmt.Errorf("GEMINI_BASIC_MODEL が設定されていません")
	}

	if strings.TrimSpace(c.Gemini.ProModelName) == "" {
		return fmt.Errorf("GEMINI_PRO_MODEL が設定されていません")
	}

	if c.Gemini.RequestTimeout <= 0 {
		return fmt.Errorf("GEMINI_REQUEST_TIMEOUT は正の値である必要があります")
	}

	if c.Cover.LoadingMessageInterval <= 0 {
		return fmt.Errorf("COVER_LOADING_INTERVAL は正の値である必要があります")
	}

	if _, err := domain.ParseGenre(c.Cover.DefaultGenre); err != nil {
		return fmt.Errorf("COVER_DEFAULT_GENRE が不正です: %w", err)
	}

	if _, err := domain.ParseStyle(c.Cover.DefaultStyle); err != nil {
		return fmt.Errorf("COVER_DEFAULT_STYLE が不正です: %w", err)
	}

	return nil
}

// ValidateForBot は、Bot起動に必要な設定を追加で検証します
func (c *Config) ValidateForBot() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Discord.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN が設定されていません")
	}

	return nil
}

// DefaultParams は、設定に基づく初期の生成パラメータを返します
func (c *Config) DefaultParams() domain.GenerationParams {
	params := domain.DefaultGenerationParams()
	if genre, err := domain.ParseGenre(c.Cover.DefaultGenre); err == nil {
		params.Genre = genre
	}
	if style, err := domain.ParseStyle(c.Cover.DefaultStyle); err == nil {
		params.Style = style
	}
	return params
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
