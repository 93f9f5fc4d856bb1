package canvas

// HistoryLimit 히스토리 최대 보관 개수. 초과 시 가장 오래된 항목부터 버린다.
const HistoryLimit = 30

// History 보드 스냅샷의 선형 undo/redo 로그.
// 새 커밋은 현재 인덱스 이후의 미래 항목을 버린다 (선형 분기 폐기).
type History struct {
	entries []BoardState
	index   int
}

// NewHistory 초기 상태 한 개를 담은 히스토리 생성
func NewHistory(initial BoardState) *History {
	return &History{
		entries: []BoardState{initial.Clone()},
		index:   0,
	}
}

// RestoreHistory 영속 매체에서 복원한 로그로 히스토리 생성.
// 인덱스가 범위를 벗어나면 마지막 항목으로 보정한다.
func RestoreHistory(log HistoryLog) *History {
	if len(log.Entries) == 0 {
		return NewHistory(NewBoardState())
	}
	entries := make([]BoardState, len(log.Entries))
	for i, e := range log.Entries {
		entries[i] = e.Clone()
	}
	idx := log.Index
	if idx < 0 || idx >= len(entries) {
		idx = len(entries) - 1
	}
	return &History{entries: entries, index: idx}
}

// Commit 현재 인덱스 이후를 잘라내고 깊은 복사본을 추가한다.
// 한도를 넘으면 앞에서부터 잘라내되 인덱스는 방금 커밋한 항목을 가리킨다.
func (h *History) Commit(state BoardState) {
	h.entries = append(h.entries[:h.index+1], state.Clone())
	h.index = len(h.entries) - 1

	if over := len(h.entries) - HistoryLimit; over > 0 {
		h.entries = h.entries[over:]
		h.index -= over
	}
}

// Undo 한 단계 되돌린 상태를 반환. 처음이면 no-op (false).
func (h *History) Undo() (BoardState, bool) {
	if h.index <= 0 {
		return BoardState{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo 한 단계 다시 실행한 상태를 반환. 끝이면 no-op (false).
func (h *History) Redo() (BoardState, bool) {
	if h.index >= len(h.entries)-1 {
		return BoardState{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// CanUndo 되돌리기 가능 여부
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo 다시 실행 가능 여부
func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

// Len 보관 중인 항목 수
func (h *History) Len() int {
	return len(h.entries)
}

// Log 영속화용 직렬화 형태
func (h *History) Log() HistoryLog {
	entries := make([]BoardState, len(h.entries))
	for i, e := range h.entries {
		entries[i] = e.Clone()
	}
	return HistoryLog{Entries: entries, Index: h.index}
}
