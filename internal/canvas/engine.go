package canvas

import (
	"math/rand"

	"canvas-backend/internal/geometry"
)

// PersistFunc 커밋마다 호출되는 영속화 훅. fire-and-forget이며
// 실패는 호출자가 로그로 남기고 무시한다 — 인메모리 상태가 기준이다.
type PersistFunc func(doc BoardDocument)

// Engine 한 보드의 라이브 상태, 히스토리, 스냅샷을 소유한다.
// 단일 이벤트 루프(세션)에서만 호출되는 것을 전제로 하며 자체 잠금은 없다.
type Engine struct {
	store     *Store
	history   *History
	snapshots *SnapshotManager
	persist   PersistFunc
}

// NewEngine 빈 보드 또는 주어진 상태로 엔진 생성
func NewEngine(state BoardState) *Engine {
	state = NormalizeState(state)
	return &Engine{
		store:     NewStore(state),
		history:   NewHistory(state),
		snapshots: NewSnapshotManager(nil),
	}
}

// LoadEngine 영속 문서에서 엔진을 복원한다.
// 히스토리가 있으면 entries[index]가 라이브 보드가 되고,
// 없으면 items/view로 단일 항목 히스토리를 시드한다.
func LoadEngine(doc *BoardDocument) *Engine {
	var state BoardState
	var history *History

	if doc.History != nil && len(doc.History.Entries) > 0 {
		history = RestoreHistory(*doc.History)
		state = NormalizeState(history.entries[history.index])
	} else {
		state = NormalizeState(BoardState{
			Items:  doc.Items,
			Offset: doc.View.Offset,
			Zoom:   doc.View.Zoom,
		})
		history = NewHistory(state)
	}

	return &Engine{
		store:     NewStore(state),
		history:   history,
		snapshots: NewSnapshotManager(doc.Snapshots),
	}
}

// SetPersist 영속화 훅 등록
func (e *Engine) SetPersist(fn PersistFunc) {
	e.persist = fn
}

// State 현재 보드 상태 복사본
func (e *Engine) State() BoardState {
	return e.store.State()
}

// Selected 현재 선택 아이템 ID (없으면 빈 문자열)
func (e *Engine) Selected() string {
	return e.store.Selected()
}

// CanUndo 되돌리기 가능 여부
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo 다시 실행 가능 여부
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Document 영속화용 문서 생성
func (e *Engine) Document() BoardDocument {
	state := e.store.State()
	log := e.history.Log()
	return BoardDocument{
		Items:     state.Items,
		View:      View{Offset: state.Offset, Zoom: state.Zoom},
		History:   &log,
		Snapshots: e.snapshots.List(),
	}
}

// commit 현재 상태를 히스토리에 기록하고 영속화한다.
func (e *Engine) commit() {
	e.history.Commit(e.store.State())
	e.persistNow()
}

func (e *Engine) persistNow() {
	if e.persist != nil {
		e.persist(e.Document())
	}
}

// AddItem 아이템 추가 + 커밋
func (e *Engine) AddItem(it Item) Item {
	added := e.store.Add(NormalizeItem(it))
	e.commit()
	return added
}

// RemoveItem 아이템 제거 + 커밋. 없는 ID는 no-op.
func (e *Engine) RemoveItem(id string) bool {
	if !e.store.Remove(id) {
		return false
	}
	e.commit()
	return true
}

// UpdateItem 스타일/텍스트/지오메트리 패치 + 커밋. 없는 ID는 no-op.
func (e *Engine) UpdateItem(id string, patch ItemPatch) bool {
	if !e.store.Update(id, patch) {
		return false
	}
	e.commit()
	return true
}

// BringToFront 아이템을 최상단으로 + 커밋. 없는 ID는 no-op.
func (e *Engine) BringToFront(id string) bool {
	if !e.store.BringToFront(id) {
		return false
	}
	e.commit()
	return true
}

// Select 아이템 선택 (커밋 없음 — 선택은 undo 단위에 포함되지 않는다)
func (e *Engine) Select(id string) {
	e.store.Select(id)
}

// ClearSelection 선택 해제
func (e *Engine) ClearSelection() {
	e.store.ClearSelection()
}

// ButtonZoom 버튼 줌 (배율 1.2). anchor는 뷰포트 중앙의 화면 좌표.
// 줌이 한계에 막혀 변화가 없으면 커밋하지 않는다.
func (e *Engine) ButtonZoom(zoomIn bool, anchor geometry.Point) bool {
	state := e.store.State()
	step := geometry.ButtonZoomStep
	if !zoomIn {
		step = 1 / step
	}
	newZoom := geometry.ClampZoom(state.Zoom * step)
	if newZoom == state.Zoom {
		return false
	}
	state.Offset = geometry.ZoomAround(anchor, state.Zoom, newZoom, state.Offset)
	state.Zoom = newZoom
	e.store.SetState(state)
	e.commit()
	return true
}

// Undo 한 단계 되돌리기. 히스토리 범위를 벗어나면 no-op.
func (e *Engine) Undo() bool {
	state, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.store.SetState(state)
	e.persistNow()
	return true
}

// Redo 한 단계 다시 실행. 범위를 벗어나면 no-op.
func (e *Engine) Redo() bool {
	state, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.store.SetState(state)
	e.persistNow()
	return true
}

// Clear 모든 아이템 제거 + 커밋. 이미 비어 있으면 no-op.
func (e *Engine) Clear() bool {
	state := e.store.State()
	if len(state.Items) == 0 {
		return false
	}
	state.Items = []Item{}
	e.store.SetState(state)
	e.commit()
	return true
}

// PinContent 외부 콘텐츠를 핀 카드로 추가한다.
// anchor(화면 좌표) 주변의 캔버스 지점에 무작위로 배치하고 선택 + 커밋.
func (e *Engine) PinContent(referenceID string, anchor geometry.Point) Item {
	state := e.store.State()
	base := geometry.ScreenToCanvas(anchor, state.Offset, state.Zoom)
	x := base.X + (rand.Float64()-0.5)*80
	y := base.Y + (rand.Float64()-0.5)*80

	added := e.store.Add(NormalizeItem(NewPinnedContent(x, y, referenceID)))
	e.store.Select(added.ID)
	e.commit()
	return added
}

// PlaceImage 생성된 이미지를 기본 크기로 배치 + 커밋.
// anchor(화면 좌표)가 이미지 중앙이 되도록 위치를 계산한다.
func (e *Engine) PlaceImage(data, mimeType string, anchor geometry.Point) Item {
	state := e.store.State()
	center := geometry.ScreenToCanvas(anchor, state.Offset, state.Zoom)
	x := center.X - DefaultImageSize/2
	y := center.Y - DefaultImageSize/2

	added := e.store.Add(NormalizeItem(NewImage(x, y, data, mimeType)))
	e.commit()
	return added
}

// RemoveByReference 콘텐츠 삭제 연쇄: referenceID가 일치하는 핀 카드를
// 모두 제거하고 한 번만 커밋한다. 제거된 개수를 반환.
func (e *Engine) RemoveByReference(referenceID string) int {
	state := e.store.State()
	removed := 0
	for _, it := range state.Items {
		if it.Kind == KindPinnedContent && it.ReferenceID == referenceID {
			if e.store.Remove(it.ID) {
				removed++
			}
		}
	}
	if removed > 0 {
		e.commit()
	}
	return removed
}

// SaveSnapshot 현재 보드를 이름 붙여 저장. 빈 이름은 no-op (false).
func (e *Engine) SaveSnapshot(name string) (Snapshot, bool) {
	snap, ok := e.snapshots.Save(name, e.store.State())
	if ok {
		e.persistNow()
	}
	return snap, ok
}

// Snapshots 저장된 스냅샷 목록
func (e *Engine) Snapshots() []Snapshot {
	return e.snapshots.List()
}

// LoadSnapshot 스냅샷으로 라이브 보드를 교체하고 새 히스토리 항목으로 커밋한다.
// 로드 자체가 undo 가능한 한 단계가 된다. 없는 ID는 ErrSnapshotNotFound.
func (e *Engine) LoadSnapshot(id string) error {
	snap, err := e.snapshots.Get(id)
	if err != nil {
		return err
	}
	e.store.SetState(snap.State)
	e.commit()
	return nil
}

// DeleteSnapshot 스냅샷 삭제. 히스토리와 라이브 보드는 그대로 둔다.
func (e *Engine) DeleteSnapshot(id string) bool {
	ok := e.snapshots.Delete(id)
	if ok {
		e.persistNow()
	}
	return ok
}
