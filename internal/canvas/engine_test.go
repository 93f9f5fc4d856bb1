package canvas

import (
	"math"
	"testing"

	"canvas-backend/internal/geometry"
)

func TestEngineAddUndoRedo(t *testing.T) {
	e := NewEngine(NewBoardState())

	added := e.AddItem(NewStickyNote(10, 20, "hello"))
	if len(e.State().Items) != 1 {
		t.Fatal("item not added")
	}
	if !e.CanUndo() {
		t.Fatal("add should create an undo step")
	}

	if !e.Undo() {
		t.Fatal("Undo returned false")
	}
	if len(e.State().Items) != 0 {
		t.Error("undo should remove the added item")
	}

	if !e.Redo() {
		t.Fatal("Redo returned false")
	}
	items := e.State().Items
	if len(items) != 1 || items[0].ID != added.ID || items[0].Text != "hello" {
		t.Error("redo should restore the added item")
	}
}

func TestEngineUpdateUndoRestoresText(t *testing.T) {
	e := NewEngine(NewBoardState())
	it := e.AddItem(NewStickyNote(0, 0, "before"))

	text := "after"
	if !e.UpdateItem(it.ID, ItemPatch{Text: &text}) {
		t.Fatal("UpdateItem returned false")
	}

	e.Undo()
	if got := findItem(t, e, it.ID).Text; got != "before" {
		t.Errorf("text after undo = %q, want %q", got, "before")
	}

	e.Redo()
	if got := findItem(t, e, it.ID).Text; got != "after" {
		t.Errorf("text after redo = %q, want %q", got, "after")
	}
}

func findItem(t *testing.T, e *Engine, id string) Item {
	t.Helper()
	for _, it := range e.State().Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found", id)
	return Item{}
}

func TestEngineRemoveUnknownIsNoop(t *testing.T) {
	e := NewEngine(NewBoardState())
	if e.RemoveItem("ghost") {
		t.Error("removing a missing item should return false")
	}
	if e.CanUndo() {
		t.Error("a failed remove must not create a history entry")
	}
}

func TestEngineSelectionNotCommitted(t *testing.T) {
	e := NewEngine(NewBoardState())
	it := e.AddItem(NewStickyNote(0, 0, "x"))
	undoable := e.CanUndo()

	e.Select(it.ID)
	e.ClearSelection()
	e.Select(it.ID)

	if e.CanUndo() != undoable || e.CanRedo() {
		t.Error("selection changes must not touch history")
	}

	// undo로 아이템이 사라지면 선택도 사라진다
	e.Undo()
	if e.Selected() != "" {
		t.Errorf("selection should be dropped with its item, got %q", e.Selected())
	}
}

func TestEngineClear(t *testing.T) {
	e := NewEngine(NewBoardState())

	if e.Clear() {
		t.Error("clearing an empty board should be a no-op")
	}

	e.AddItem(NewStickyNote(0, 0, "a"))
	e.AddItem(NewShape(10, 10, ShapeCircle))

	if !e.Clear() {
		t.Fatal("Clear returned false on a populated board")
	}
	if len(e.State().Items) != 0 {
		t.Error("board not empty after Clear")
	}

	// clear도 한 단계로 되돌릴 수 있다
	e.Undo()
	if len(e.State().Items) != 2 {
		t.Errorf("undo after clear restored %d items, want 2", len(e.State().Items))
	}
}

func TestEngineButtonZoom(t *testing.T) {
	e := NewEngine(NewBoardState())
	anchor := geometry.Point{X: 640, Y: 360}

	if !e.ButtonZoom(true, anchor) {
		t.Fatal("ButtonZoom returned false")
	}
	if got := e.State().Zoom; math.Abs(got-1.2) > 1e-9 {
		t.Errorf("zoom = %v, want 1.2", got)
	}

	// 최대 줌에 도달하면 더 이상 커밋하지 않는다
	for i := 0; i < 20; i++ {
		e.ButtonZoom(true, anchor)
	}
	if got := e.State().Zoom; got != geometry.MaxZoom {
		t.Fatalf("zoom = %v, want clamp at %v", got, geometry.MaxZoom)
	}
	if e.ButtonZoom(true, anchor) {
		t.Error("zoom at the cap should be a no-op")
	}
}

func TestEnginePinContent(t *testing.T) {
	state := NewBoardState()
	state.Offset = geometry.Point{X: 100, Y: 50}
	state.Zoom = 2.0
	e := NewEngine(state)

	anchor := geometry.Point{X: 500, Y: 400}
	it := e.PinContent("42", anchor)

	if it.Kind != KindPinnedContent || it.ReferenceID != "42" {
		t.Fatalf("pinned item = %+v", it)
	}
	if e.Selected() != it.ID {
		t.Error("pinned item should be selected")
	}
	if !e.CanUndo() {
		t.Error("pin should commit")
	}

	// 앵커가 가리키는 캔버스 지점 주변(±40)에 배치된다
	base := geometry.ScreenToCanvas(anchor, state.Offset, state.Zoom)
	if math.Abs(it.X-base.X) > 40 || math.Abs(it.Y-base.Y) > 40 {
		t.Errorf("pin placed too far from anchor: item=(%v, %v) base=(%v, %v)", it.X, it.Y, base.X, base.Y)
	}
}

func TestEnginePlaceImageCentered(t *testing.T) {
	e := NewEngine(NewBoardState())
	anchor := geometry.Point{X: 400, Y: 300}

	it := e.PlaceImage("payload", "image/png", anchor)

	if it.Kind != KindImage || it.Width != DefaultImageSize || it.Height != DefaultImageSize {
		t.Fatalf("image item = %+v", it)
	}
	center := geometry.ScreenToCanvas(anchor, geometry.Point{}, 1.0)
	if it.X != center.X-DefaultImageSize/2 || it.Y != center.Y-DefaultImageSize/2 {
		t.Errorf("image not centered on anchor: (%v, %v)", it.X, it.Y)
	}
}

func TestEngineRemoveByReference(t *testing.T) {
	e := NewEngine(NewBoardState())
	anchor := geometry.Point{X: 0, Y: 0}
	e.PinContent("7", anchor)
	e.PinContent("7", anchor)
	keep := e.PinContent("8", anchor)
	e.AddItem(NewStickyNote(0, 0, "note"))

	removed := e.RemoveByReference("7")
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	items := e.State().Items
	if len(items) != 2 {
		t.Fatalf("remaining items = %d, want 2", len(items))
	}
	if findItem(t, e, keep.ID).ReferenceID != "8" {
		t.Error("pin with a different reference must survive")
	}

	// 연쇄 제거 전체가 undo 한 단계
	e.Undo()
	if len(e.State().Items) != 4 {
		t.Errorf("undo should restore both pins, got %d items", len(e.State().Items))
	}

	if e.RemoveByReference("missing") != 0 {
		t.Error("unknown reference should remove nothing")
	}
}

func TestEngineSnapshots(t *testing.T) {
	e := NewEngine(NewBoardState())
	e.AddItem(NewStickyNote(0, 0, "v1"))

	snap, ok := e.SaveSnapshot("milestone")
	if !ok {
		t.Fatal("SaveSnapshot returned false")
	}
	if _, ok := e.SaveSnapshot("   "); ok {
		t.Error("blank snapshot name should be rejected")
	}

	// 스냅샷 이후의 편집
	e.AddItem(NewStickyNote(10, 10, "v2"))
	e.Clear()
	if len(e.State().Items) != 0 {
		t.Fatal("board should be empty before load")
	}

	if err := e.LoadSnapshot(snap.ID); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	items := e.State().Items
	if len(items) != 1 || items[0].Text != "v1" {
		t.Errorf("loaded state = %d items, want the snapshotted board", len(items))
	}

	// 로드 자체가 undo 가능한 커밋이다
	e.Undo()
	if len(e.State().Items) != 0 {
		t.Error("undo after load should return to the pre-load board")
	}

	// 삭제는 히스토리와 라이브 보드에 영향 없음
	e.Redo()
	if !e.DeleteSnapshot(snap.ID) {
		t.Fatal("DeleteSnapshot returned false")
	}
	if len(e.Snapshots()) != 0 {
		t.Error("snapshot still listed after delete")
	}
	if len(e.State().Items) != 1 {
		t.Error("deleting a snapshot must not touch the live board")
	}
	if err := e.LoadSnapshot(snap.ID); err != ErrSnapshotNotFound {
		t.Errorf("LoadSnapshot after delete = %v, want ErrSnapshotNotFound", err)
	}
}

func TestEngineSnapshotIsDeepCopy(t *testing.T) {
	e := NewEngine(NewBoardState())
	it := e.AddItem(NewStickyNote(0, 0, "original"))

	snap, _ := e.SaveSnapshot("before edit")

	text := "edited"
	e.UpdateItem(it.ID, ItemPatch{Text: &text})

	got, _ := e.snapshots.Get(snap.ID)
	if got.State.Items[0].Text != "original" {
		t.Errorf("snapshot mutated by later edit: %q", got.State.Items[0].Text)
	}
}

func TestEnginePersistHook(t *testing.T) {
	e := NewEngine(NewBoardState())

	var calls int
	var last BoardDocument
	e.SetPersist(func(doc BoardDocument) {
		calls++
		last = doc
	})

	e.AddItem(NewStickyNote(0, 0, "x"))
	if calls != 1 {
		t.Fatalf("persist calls = %d, want 1", calls)
	}
	if len(last.Items) != 1 || last.History == nil {
		t.Error("persisted document missing items or history")
	}

	e.Undo()
	if calls != 2 {
		t.Errorf("undo should persist, calls = %d", calls)
	}

	// 실패한 연산은 영속화하지 않는다
	e.RemoveItem("ghost")
	if calls != 2 {
		t.Errorf("no-op must not persist, calls = %d", calls)
	}
}

func TestLoadEngineWithHistory(t *testing.T) {
	// 히스토리 중간 지점에 커서가 있는 문서
	doc := &BoardDocument{
		History: &HistoryLog{
			Entries: []BoardState{
				{Items: []Item{}, NextZIndex: 1, Zoom: 1.0},
				{Items: []Item{{ID: "a", Kind: KindStickyNote, ZIndex: 1}}, NextZIndex: 2, Zoom: 1.0},
				{Items: []Item{}, NextZIndex: 2, Zoom: 1.0},
			},
			Index: 1,
		},
	}
	e := LoadEngine(doc)

	if len(e.State().Items) != 1 {
		t.Errorf("live board should be entries[index], got %d items", len(e.State().Items))
	}
	if !e.CanUndo() || !e.CanRedo() {
		t.Error("restored cursor should allow undo and redo")
	}
}

func TestLoadEngineLegacyDocument(t *testing.T) {
	// 히스토리 없는 구버전 문서: type 태그도 없다
	doc := &BoardDocument{
		Items: []Item{
			{ID: "p", ReferenceID: "12", ZIndex: 3},
			{ID: "s", Shape: ShapeCircle, ZIndex: 1},
		},
		View: View{Offset: geometry.Point{X: 5, Y: 5}},
	}
	e := LoadEngine(doc)

	state := e.State()
	if state.Items[0].Kind != KindPinnedContent || state.Items[1].Kind != KindShape {
		t.Errorf("legacy kinds not inferred: %v, %v", state.Items[0].Kind, state.Items[1].Kind)
	}
	if state.Zoom != 1.0 {
		t.Errorf("zero zoom should normalize to 1.0, got %v", state.Zoom)
	}
	if state.NextZIndex != 4 {
		t.Errorf("NextZIndex = %d, want max z + 1", state.NextZIndex)
	}
	if e.CanUndo() {
		t.Error("legacy document seeds a single-entry history")
	}
}
