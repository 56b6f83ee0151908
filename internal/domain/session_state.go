package domain

// SessionState は、表紙生成セッションの状態を表す定数です
type SessionState int

const (
	SessionStateIdle SessionState = iota
	SessionStateGenerating
	SessionStateReady
	SessionStateFailed
)

var sessionStates = []string{"idle", "generating", "ready", "failed"}

// String はSessionStateの名前を返します
func (s SessionState) String() string {
	if int(s) >= 0 && int(s) < len(sessionStates) {
		return sessionStates[s]
	}
	return "unknown"
}

// ユーザーに表示するメッセージ
const (
	MessageTitleRequired = "本のタイトルを入力してください。"
	MessageKeyRequired   = "Proモデルを使用するには、課金が有効なAPIキーを選択してください。"
	MessageGenerateRetry = "表紙の生成に失敗しました。もう一度お試しください。"
)

// loadingMessages は、生成中に順番に表示するメッセージです
var loadingMessages = []string{
	"最適な配色を調合中...",
	"レイアウトをスケッチ中...",
	"タイポグラフィを適用中...",
	"最終デザインを仕上げ中...",
	"まもなく印刷準備完了...",
}

// LoadingMessage は、インデックスに対応する生成中メッセージを返します
// インデックスはメッセージ数で折り返されます
func LoadingMessage(index int) string {
	n := len(loadingMessages)
	return loadingMessages[((index%n)+n)%n]
}

// NextLoadingIndex は、次の生成中メッセージのインデックスを返します
func NextLoadingIndex(index int) int {
	return (index + 1) % len(loadingMessages)
}

// LoadingMessageCount は、生成中メッセージの件数を返します
func LoadingMessageCount() int {
	return len(loadingMessages)
}
