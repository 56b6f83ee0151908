package domain

import "errors"

// ドメイン固有のエラー型を定義
var (
	// ErrTitleRequired は、本のタイトルが未入力の場合のエラーです
	ErrTitleRequired = errors.New("本のタイトルが入力されていません")

	// ErrKeyRequired は、Proモデルの利用権限を持つAPIキーが必要な場合のエラーです
	ErrKeyRequired = errors.New("課金が有効なAPIキーの選択が必要です")

	// ErrGenerationInProgress は、生成中に再度生成を要求した場合のエラーです
	ErrGenerationInProgress = errors.New("表紙を生成中です")

	// ErrCoverNotFound は、履歴に存在しない表紙を選択した場合のエラーです
	ErrCoverNotFound = errors.New("指定された表紙は履歴に存在しません")

	// ErrNoImageData は、応答に画像データが含まれていない場合のエラーです
	ErrNoImageData = &UpstreamError{Message: "No image data found in response"}
)

// UpstreamError は、画像生成サービス側で発生した失敗を表します
type UpstreamError struct {
	Message string
	Err     error
}

// NewUpstreamError は、元のエラーメッセージを保持したUpstreamErrorを作成します
func NewUpstreamError(err error) *UpstreamError {
	return &UpstreamError{Message: err.Error(), Err: err}
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
