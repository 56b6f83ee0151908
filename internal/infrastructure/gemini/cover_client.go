package gemini

import (
	"context"
	"log"
	"strings"

	"coveralchemy/internal/domain"
	"coveralchemy/internal/infrastructure/config"

	"google.golang.org/genai"
)

// coverAspectRatio は、表紙画像の縦横比です
const coverAspectRatio = "3:4"

// notFoundMarker は、キーに権限がない場合にAPIが返すエラーメッセージです
const notFoundMarker = "Requested entity was not found"

// contentGenerator は、genai.Client.Models の生成メソッドです
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// CoverClient は、Gemini APIで表紙画像を生成するクライアントです
type CoverClient struct {
	models contentGenerator
	config *config.GeminiConfig
}

// NewCoverClient は新しいCoverClientインスタンスを作成します
func NewCoverClient(client *genai.Client, geminiConfig *config.GeminiConfig) *CoverClient {
	return newCoverClient(client.Models, geminiConfig)
}

func newCoverClient(models contentGenerator, geminiConfig *config.GeminiConfig) *CoverClient {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}

	return &CoverClient{
		models: models,
		config: geminiConfig,
	}
}

// modelName は、ティアに対応するモデル名を返します
func (c *CoverClient) modelName(tier domain.ModelTier) string {
	if tier.IsPremium() {
		return c.config.ProModelName
	}
	return c.config.BasicModelName
}

// GenerateCover は、パラメータから表紙画像を1回だけ生成します
func (c *CoverClient) GenerateCover(ctx context.Context, params domain.GenerationParams) (string, error) {
	modelName := c.modelName(params.Model)
	prompt := domain.BuildCoverPrompt(params)
	contents, genConfig := buildCoverRequest(prompt, params)

	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	log.Printf("Gemini APIに表紙生成をリクエスト中: モデル=%s, 解像度=%q, タイトル=%s", modelName, params.EffectiveImageSize(), params.Title)

	resp, err := c.models.GenerateContent(ctx, modelName, contents, genConfig)
	if err != nil {
		log.Printf("Gemini APIからの応答取得に失敗: %v", err)
		return "", classifyError(err)
	}

	data, err := extractImageData(resp)
	if err != nil {
		return "", err
	}

	log.Printf("表紙画像を取得しました: %dバイト", len(data))
	return domain.NewImageReference(data), nil
}

// buildCoverRequest は、プロンプトと画像設定からリクエストを組み立てます
// 解像度はProティアの場合のみ設定します
func buildCoverRequest(prompt string, params domain.GenerationParams) ([]*genai.Content, *genai.GenerateContentConfig) {
	imageConfig := &genai.ImageConfig{
		AspectRatio: coverAspectRatio,
	}
	if size := params.EffectiveImageSize(); size != "" {
		imageConfig.ImageSize = string(size)
	}

	return genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig:    imageConfig,
		SafetySettings: createSafetySettings(),
	}
}

// createSafetySettings は、安全フィルターの設定を作成します（中程度の制限）
func createSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, len(categories))
	for i, category := range categories {
		settings[i] = &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		}
	}
	return settings
}

// extractImageData は、最初の候補から最初の画像データを取り出します
func extractImageData(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		log.Printf("Gemini APIの応答に候補が含まれていません")
		return nil, domain.ErrNoImageData
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		log.Printf("Gemini APIの応答にコンテンツが含まれていません")
		return nil, domain.ErrNoImageData
	}

	log.Printf("画像生成レスポンス: FinishReason=%s, Parts数=%d", candidate.FinishReason, len(candidate.Content.Parts))

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}

	return nil, domain.ErrNoImageData
}

// classifyError は、APIのエラーをドメインのエラーに分類します
func classifyError(err error) error {
	if strings.Contains(err.Error(), notFoundMarker) {
		return domain.ErrKeyRequired
	}
	return domain.NewUpstreamError(err)
}
