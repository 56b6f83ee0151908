package domain

// MaxCoverHistory は、保持する表紙履歴の最大件数です
const MaxCoverHistory = 5

// CoverHistory は、新しい順に並んだ表紙の履歴です
// 上限を超えた古い表紙は黙って破棄されます
type CoverHistory struct {
	covers []GeneratedCover
	limit  int
}

// NewCoverHistory は新しいCoverHistoryインスタンスを作成します
func NewCoverHistory() *CoverHistory {
	return &CoverHistory{limit: MaxCoverHistory}
}

// Prepend は、表紙を先頭に追加し、上限を超えた分を末尾から取り除きます
// 取り除かれた表紙の件数を返します
func (h *CoverHistory) Prepend(cover GeneratedCover) int {
	covers := make([]GeneratedCover, 0, len(h.covers)+1)
	covers = append(covers, cover)
	covers = append(covers, h.covers...)

	evicted := 0
	if len(covers) > h.limit {
		evicted = len(covers) - h.limit
		covers = covers[:h.limit]
	}

	h.covers = covers
	return evicted
}

// Find は、IDに一致する表紙を返します
func (h *CoverHistory) Find(id string) (GeneratedCover, bool) {
	for _, cover := range h.covers {
		if cover.ID == id {
			return cover, true
		}
	}
	return GeneratedCover{}, false
}

// Covers は、履歴のコピーを新しい順で返します
func (h *CoverHistory) Covers() []GeneratedCover {
	result := make([]GeneratedCover, len(h.covers))
	copy(result, h.covers)
	return result
}

// Len は、履歴の件数を返します
func (h *CoverHistory) Len() int {
	return len(h.covers)
}

// IsEmpty は、履歴が空かどうかを判定します
func (h *CoverHistory) IsEmpty() bool {
	return len(h.covers) == 0
}
