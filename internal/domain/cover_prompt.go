package domain

import (
	"fmt"
	"strings"
)

// BuildCoverPrompt は、生成パラメータから画像生成用のプロンプトを組み立てます
// 任意項目が空でもプロンプトは常に組み立てられます
func BuildCoverPrompt(params GenerationParams) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Create a professional, stunning book cover design for a book titled \"%s\"", params.Title))
	if author := strings.TrimSpace(params.Author); author != "" {
		builder.WriteString(fmt.Sprintf(" by %s", author))
	}
	builder.WriteString(".\n")

	builder.WriteString(fmt.Sprintf("Genre: %s.\n", params.Genre))
	builder.WriteString(fmt.Sprintf("Visual Style/Vibe: %s.\n", params.Style))
	builder.WriteString(fmt.Sprintf("Details: %s.\n\n", strings.TrimSpace(params.Description)))

	builder.WriteString("The layout should be a standard portrait book cover. ")
	builder.WriteString("The title should be prominently featured in a high-quality, elegant font that matches the genre. ")
	builder.WriteString("Ensure the composition is balanced and cinematic.")

	return builder.String()
}
