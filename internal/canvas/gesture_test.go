package canvas

import (
	"math"
	"testing"

	"canvas-backend/internal/geometry"
)

// 커밋 없이 아이템이 깔린 보드 (히스토리는 초기 상태 하나뿐)
func seededEngine(items ...Item) *Engine {
	state := NewBoardState()
	for i := range items {
		items[i].ZIndex = state.NextZIndex
		state.NextZIndex++
		state.Items = append(state.Items, items[i])
	}
	return NewEngine(state)
}

func down(id string, target PointerTarget, x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y, Button: ButtonLeft, Target: target, ItemID: id}
}

func TestGestureDrag(t *testing.T) {
	it := NewStickyNote(100, 100, "drag me")
	e := seededEngine(it)
	c := NewController(e)

	// 줌 1, 오프셋 0이므로 화면 좌표 == 캔버스 좌표
	c.PointerDown(down(it.ID, TargetItem, 110, 120))
	if c.State() != GestureDragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}

	c.PointerMove(PointerEvent{X: 210, Y: 170})
	c.PointerMove(PointerEvent{X: 260, Y: 220})
	if !c.PointerUp(PointerEvent{X: 260, Y: 220}) {
		t.Fatal("drag with movement should commit")
	}

	got := findItem(t, e, it.ID)
	if got.X != 250 || got.Y != 200 {
		t.Errorf("dragged to (%v, %v), want (250, 200)", got.X, got.Y)
	}
	if e.Selected() != it.ID {
		t.Error("dragged item should be selected")
	}

	// 제스처 전체가 정확히 한 커밋: undo 한 번에 시작 위치로
	e.Undo()
	got = findItem(t, e, it.ID)
	if got.X != 100 || got.Y != 100 {
		t.Errorf("undo = (%v, %v), want (100, 100)", got.X, got.Y)
	}
	if e.CanUndo() {
		t.Error("a full gesture must be a single history entry")
	}
}

func TestGestureDragRespectsZoom(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	state := NewBoardState()
	state.Zoom = 2.0
	it.ZIndex = 1
	state.Items = []Item{it}
	state.NextZIndex = 2
	e := NewEngine(state)
	c := NewController(e)

	// 화면에서 100px 이동은 줌 2.0에서 캔버스 50 이동
	c.PointerDown(down(it.ID, TargetItem, 0, 0))
	c.PointerMove(PointerEvent{X: 100, Y: 0})
	c.PointerUp(PointerEvent{X: 100, Y: 0})

	got := findItem(t, e, it.ID)
	if got.X != 50 || got.Y != 0 {
		t.Errorf("dragged to (%v, %v), want (50, 0)", got.X, got.Y)
	}
}

func TestGestureNoopSkipsCommit(t *testing.T) {
	a := NewStickyNote(0, 0, "a")
	b := NewStickyNote(200, 200, "b")
	e := seededEngine(a, b)
	c := NewController(e)

	// 최상단 아이템을 누르고 움직이지 않으면 커밋 없음
	c.PointerDown(down(b.ID, TargetItem, 210, 210))
	if c.PointerUp(PointerEvent{X: 210, Y: 210}) {
		t.Error("no-op gesture on the topmost item must not commit")
	}
	if e.CanUndo() {
		t.Error("history grew on a no-op gesture")
	}
	if e.Selected() != b.ID {
		t.Error("selection should still happen")
	}

	// 최상단이 아닌 아이템은 누르기만 해도 z가 올라가므로 커밋된다
	c.PointerDown(down(a.ID, TargetItem, 10, 10))
	if !c.PointerUp(PointerEvent{X: 10, Y: 10}) {
		t.Error("raising a buried item is a real change and must commit")
	}
	if !e.CanUndo() {
		t.Error("raise should be undoable")
	}
}

func TestGestureResize(t *testing.T) {
	it := NewShape(0, 0, ShapeRectangle) // 기본 120x120
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(down(it.ID, TargetHandle, 120, 120))
	if c.State() != GestureResizing {
		t.Fatalf("state = %v, want resizing", c.State())
	}

	c.PointerMove(PointerEvent{X: 180, Y: 150})
	c.PointerUp(PointerEvent{X: 180, Y: 150})

	got := findItem(t, e, it.ID)
	if got.Width != 180 || got.Height != 150 {
		t.Errorf("resized to (%v, %v), want (180, 150)", got.Width, got.Height)
	}
}

func TestGestureResizeClamps(t *testing.T) {
	it := NewStickyNote(0, 0, "") // 기본 180x180
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(down(it.ID, TargetHandle, 180, 180))
	// 크게 음수 방향으로 끌어도 최소 크기 아래로 내려가지 않는다
	c.PointerMove(PointerEvent{X: -500, Y: -500})
	c.PointerUp(PointerEvent{X: -500, Y: -500})

	got := findItem(t, e, it.ID)
	if got.Width != MinItemWidth || got.Height != MinItemHeight {
		t.Errorf("clamped size = (%v, %v), want (%v, %v)", got.Width, got.Height, MinItemWidth, MinItemHeight)
	}
}

func TestGestureResizeShapeToLine(t *testing.T) {
	it := NewShape(0, 0, ShapeRectangle)
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(down(it.ID, TargetHandle, 120, 120))
	// 높이를 10 이하로 줄이면 선 모드: 최소 높이 2
	c.PointerMove(PointerEvent{X: 200, Y: -115}) // h = 120 - 235 < 0
	c.PointerUp(PointerEvent{X: 200, Y: -115})

	got := findItem(t, e, it.ID)
	if got.Height != MinLineHeight {
		t.Errorf("line-mode height = %v, want %v", got.Height, MinLineHeight)
	}
}

func TestGestureRightClickIgnoredOnItems(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(PointerEvent{X: 10, Y: 10, Button: ButtonRight, Target: TargetItem, ItemID: it.ID})
	if c.State() != GestureIdle {
		t.Error("right click on an item must not start a gesture")
	}
	c.PointerDown(PointerEvent{X: 10, Y: 10, Button: ButtonRight, Target: TargetHandle, ItemID: it.ID})
	if c.State() != GestureIdle {
		t.Error("right click on a handle must not start a resize")
	}
}

func TestGesturePan(t *testing.T) {
	e := seededEngine()
	c := NewController(e)

	c.PointerDown(PointerEvent{X: 100, Y: 100, Button: ButtonRight, Target: TargetBackground})
	if c.State() != GesturePanning {
		t.Fatalf("state = %v, want panning", c.State())
	}

	c.PointerMove(PointerEvent{X: 130, Y: 90})
	c.PointerMove(PointerEvent{X: 160, Y: 80})
	if !c.PointerUp(PointerEvent{X: 160, Y: 80}) {
		t.Fatal("pan with movement should commit")
	}

	// 팬은 줌과 무관하게 화면 델타를 그대로 누적한다
	got := e.State().Offset
	if got.X != 60 || got.Y != -20 {
		t.Errorf("offset = %+v, want (60, -20)", got)
	}
}

func TestGestureBackgroundLeftClickDeselects(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	e := seededEngine(it)
	e.Select(it.ID)
	c := NewController(e)

	c.PointerDown(PointerEvent{X: 500, Y: 500, Button: ButtonLeft, Target: TargetBackground})
	if c.State() != GestureIdle {
		t.Error("left click on background must not start a gesture")
	}
	if e.Selected() != "" {
		t.Error("background click should clear the selection")
	}
	if e.CanUndo() {
		t.Error("deselection must not commit")
	}
}

func TestGesturePointerLeaveEndsGesture(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(down(it.ID, TargetItem, 10, 10))
	c.PointerMove(PointerEvent{X: 60, Y: 60})
	if !c.PointerLeave() {
		t.Error("leave after movement should commit like pointer up")
	}
	if c.State() != GestureIdle {
		t.Error("leave should return to idle")
	}
}

func TestGestureDownFallsBackToHitTest(t *testing.T) {
	it := NewStickyNote(100, 100, "") // 기본 180x180
	e := seededEngine(it)
	c := NewController(e)

	// ItemID 없이 좌표만으로 아이템 위를 누른 경우
	c.PointerDown(PointerEvent{X: 150, Y: 150, Button: ButtonLeft, Target: TargetItem})
	if c.State() != GestureDragging {
		t.Fatalf("state = %v, want dragging via hit test", c.State())
	}
	if e.Selected() != it.ID {
		t.Error("hit-tested item should be selected")
	}
}

func TestGestureWheelZoom(t *testing.T) {
	e := seededEngine()
	c := NewController(e)
	anchor := PointerEvent{X: 300, Y: 200}

	if !c.Wheel(anchor, true) {
		t.Fatal("wheel zoom should commit")
	}
	state := e.State()
	if math.Abs(state.Zoom-geometry.WheelZoomStep) > 1e-9 {
		t.Errorf("zoom = %v, want %v", state.Zoom, geometry.WheelZoomStep)
	}
	if !e.CanUndo() {
		t.Error("each wheel tick is its own commit")
	}

	// 앵커 아래 캔버스 지점은 고정
	before := geometry.ScreenToCanvas(geometry.Point{X: 300, Y: 200}, geometry.Point{}, 1.0)
	after := geometry.ScreenToCanvas(geometry.Point{X: 300, Y: 200}, state.Offset, state.Zoom)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("anchor drifted: %+v -> %+v", before, after)
	}
}

func TestGestureWheelIgnoredDuringGesture(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	e := seededEngine(it)
	c := NewController(e)

	c.PointerDown(down(it.ID, TargetItem, 10, 10))
	if c.Wheel(PointerEvent{X: 50, Y: 50}, true) {
		t.Error("wheel during an active gesture must be ignored")
	}
	if e.State().Zoom != 1.0 {
		t.Errorf("zoom changed during a gesture: %v", e.State().Zoom)
	}
}

func TestGestureWheelAtClampIsNoop(t *testing.T) {
	state := NewBoardState()
	state.Zoom = geometry.MaxZoom
	e := NewEngine(state)
	c := NewController(e)

	if c.Wheel(PointerEvent{X: 0, Y: 0}, true) {
		t.Error("wheel at max zoom should not commit")
	}
	if e.CanUndo() {
		t.Error("history grew on a clamped wheel tick")
	}
}

func TestGestureMoveWithoutDown(t *testing.T) {
	it := NewStickyNote(0, 0, "")
	e := seededEngine(it)
	c := NewController(e)

	c.PointerMove(PointerEvent{X: 500, Y: 500})
	if got := findItem(t, e, it.ID); got.X != 0 || got.Y != 0 {
		t.Error("move without an active gesture must do nothing")
	}
}

func TestGestureSecondDownIgnored(t *testing.T) {
	a := NewStickyNote(0, 0, "a")
	b := NewStickyNote(300, 300, "b")
	e := seededEngine(a, b)
	c := NewController(e)

	c.PointerDown(down(a.ID, TargetItem, 10, 10))
	c.PointerDown(down(b.ID, TargetItem, 310, 310)) // 무시되어야 한다

	c.PointerMove(PointerEvent{X: 60, Y: 60})
	c.PointerUp(PointerEvent{X: 60, Y: 60})

	if got := findItem(t, e, b.ID); got.X != 300 {
		t.Error("second pointer down during a gesture must be ignored")
	}
}
