package canvas

import (
	"slices"

	"canvas-backend/internal/geometry"
)

// BoardState 보드 전체 상태. 실행 취소와 영속화의 단위.
type BoardState struct {
	Items      []Item         `json:"items"`
	NextZIndex int64          `json:"nextZIndex"`
	Offset     geometry.Point `json:"offset"`
	Zoom       float64        `json:"zoomLevel"`
}

// NewBoardState 빈 보드 상태 생성
func NewBoardState() BoardState {
	return BoardState{
		Items:      []Item{},
		NextZIndex: 1,
		Zoom:       1.0,
	}
}

// Clone 깊은 복사. Item은 값 타입 필드만 가지므로 슬라이스 복사로 충분하다.
func (b BoardState) Clone() BoardState {
	b.Items = slices.Clone(b.Items)
	return b
}

// View 뷰 상태 (팬 오프셋 + 줌)
type View struct {
	Offset geometry.Point `json:"offset"`
	Zoom   float64        `json:"zoomLevel"`
}

// HistoryLog 영속화용 히스토리 직렬화 형태
type HistoryLog struct {
	Entries []BoardState `json:"entries"`
	Index   int          `json:"index"`
}

// BoardDocument 영속 매체에 저장되는 보드 문서 전체
type BoardDocument struct {
	Items     []Item      `json:"items"`
	View      View        `json:"view"`
	History   *HistoryLog `json:"history,omitempty"`
	Snapshots []Snapshot  `json:"snapshots,omitempty"`
}
