package canvas

import (
	"canvas-backend/internal/geometry"
)

// GestureState 포인터 제스처 상태. 동시에 하나만 활성화된다.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureResizing
	GesturePanning
)

// String 상태를 문자열로 반환
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureResizing:
		return "resizing"
	case GesturePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// PointerButton DOM 버튼 코드와 동일 (0=좌, 1=중, 2=우)
type PointerButton int

const (
	ButtonLeft   PointerButton = 0
	ButtonMiddle PointerButton = 1
	ButtonRight  PointerButton = 2
)

// PointerTarget 포인터 다운이 어디에 떨어졌는지
type PointerTarget string

const (
	TargetItem       PointerTarget = "item"       // 아이템 본체
	TargetHandle     PointerTarget = "handle"     // 우하단 리사이즈 핸들
	TargetBackground PointerTarget = "background" // 빈 캔버스
)

// PointerEvent 클라이언트가 보내는 포인터 이벤트. 좌표는 화면 기준.
type PointerEvent struct {
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Button PointerButton `json:"button"`
	Target PointerTarget `json:"target"`
	ItemID string        `json:"itemId,omitempty"`
}

func (ev PointerEvent) screen() geometry.Point {
	return geometry.Point{X: ev.X, Y: ev.Y}
}

// Controller 포인터 이벤트 상태 기계.
// 드래그/리사이즈/팬 제스처를 엔진에 적용하고, 제스처가 끝날 때
// 실제 변경이 있었을 경우에만 히스토리 커밋 한 번을 만든다.
// (0,0) 드래그처럼 아무 것도 바뀌지 않은 제스처는 커밋을 건너뛴다.
type Controller struct {
	engine *Engine
	state  GestureState

	itemID     string
	grabOffset geometry.Point // 드래그: 포인터(캔버스 좌표) - 아이템 위치
	startMouse geometry.Point // 리사이즈: 시작 포인터 (화면 좌표)
	startW     float64        // 리사이즈: 시작 크기
	startH     float64
	lastPtr    geometry.Point // 팬: 직전 포인터 (화면 좌표)

	changed bool // 제스처 중 실제 변경 발생 여부
}

// NewController 엔진에 연결된 컨트롤러 생성
func NewController(engine *Engine) *Controller {
	return &Controller{engine: engine}
}

// State 현재 제스처 상태
func (c *Controller) State() GestureState {
	return c.state
}

// PointerDown 포인터 다운 처리. Idle에서만 제스처가 시작된다.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.state != GestureIdle {
		return
	}

	switch ev.Target {
	case TargetHandle:
		// 우클릭 리사이즈는 무시
		if ev.Button == ButtonRight {
			return
		}
		it, ok := c.engine.store.ItemByID(ev.ItemID)
		if !ok {
			return
		}
		c.beginGesture()
		c.raiseAndSelect(it.ID)
		c.state = GestureResizing
		c.itemID = it.ID
		c.startMouse = ev.screen()
		c.startW, c.startH = it.EffectiveSize()

	case TargetItem:
		// 좌/중 버튼만 드래그 시작 (중 버튼은 기본 동작 억제용으로만 허용)
		if ev.Button == ButtonRight {
			return
		}
		it, ok := c.engine.store.ItemByID(ev.ItemID)
		if !ok {
			// ID가 없으면 좌표로 최상단 아이템을 찾는다
			state := c.engine.store.State()
			canvasPt := geometry.ScreenToCanvas(ev.screen(), state.Offset, state.Zoom)
			it, ok = c.engine.store.ItemAt(canvasPt)
			if !ok {
				return
			}
		}
		state := c.engine.store.State()
		canvasPt := geometry.ScreenToCanvas(ev.screen(), state.Offset, state.Zoom)
		c.beginGesture()
		c.raiseAndSelect(it.ID)
		c.state = GestureDragging
		c.itemID = it.ID
		c.grabOffset = canvasPt.Sub(geometry.Point{X: it.X, Y: it.Y})

	case TargetBackground:
		if ev.Button == ButtonRight {
			// 우클릭 팬: 컨텍스트 메뉴 억제는 클라이언트 몫
			c.beginGesture()
			c.state = GesturePanning
			c.lastPtr = ev.screen()
			return
		}
		// 빈 캔버스 좌클릭은 선택 해제 (커밋 없음)
		c.engine.ClearSelection()
	}
}

// PointerMove 포인터 이동 처리. 활성 제스처에만 반응한다.
func (c *Controller) PointerMove(ev PointerEvent) {
	switch c.state {
	case GestureDragging:
		state := c.engine.store.State()
		canvasPt := geometry.ScreenToCanvas(ev.screen(), state.Offset, state.Zoom)
		x := canvasPt.X - c.grabOffset.X
		y := canvasPt.Y - c.grabOffset.Y
		it, ok := c.engine.store.ItemByID(c.itemID)
		if !ok {
			return
		}
		if it.X == x && it.Y == y {
			return
		}
		// 경계 제한 없음 — 화면 밖이나 음수 좌표도 허용
		c.engine.store.Update(c.itemID, ItemPatch{X: &x, Y: &y})
		c.changed = true

	case GestureResizing:
		state := c.engine.store.State()
		dx := ev.X - c.startMouse.X
		dy := ev.Y - c.startMouse.Y
		it, ok := c.engine.store.ItemByID(c.itemID)
		if !ok {
			return
		}
		w, h := it.ClampSize(c.startW+dx/state.Zoom, c.startH+dy/state.Zoom)
		if it.Width == w && it.Height == h {
			return
		}
		c.engine.store.Update(c.itemID, ItemPatch{Width: &w, Height: &h})
		c.changed = true

	case GesturePanning:
		// 팬은 화면 좌표 델타를 오프셋에 그대로 더한다 (줌 스케일 없음)
		delta := ev.screen().Sub(c.lastPtr)
		if delta.X == 0 && delta.Y == 0 {
			return
		}
		state := c.engine.store.State()
		state.Offset = state.Offset.Add(delta)
		c.engine.store.SetState(state)
		c.lastPtr = ev.screen()
		c.changed = true
	}
}

// PointerUp 제스처 종료. 변경이 있었으면 커밋 한 번 (커밋 여부 반환).
func (c *Controller) PointerUp(ev PointerEvent) bool {
	return c.endGesture()
}

// PointerLeave 포인터가 캔버스를 벗어남 — 업과 동일하게 종료한다
func (c *Controller) PointerLeave() bool {
	return c.endGesture()
}

// Wheel 휠 줌. 명시적 종료 이벤트가 없으므로 틱마다 즉시 커밋한다.
// 진행 중인 제스처가 있으면 무시한다.
func (c *Controller) Wheel(ev PointerEvent, zoomIn bool) bool {
	if c.state != GestureIdle {
		return false
	}
	state := c.engine.store.State()
	step := geometry.WheelZoomStep
	if !zoomIn {
		step = 1 / step
	}
	newZoom := geometry.ClampZoom(state.Zoom * step)
	if newZoom == state.Zoom {
		return false
	}
	state.Offset = geometry.ZoomAround(ev.screen(), state.Zoom, newZoom, state.Offset)
	state.Zoom = newZoom
	c.engine.store.SetState(state)
	c.engine.commit()
	return true
}

func (c *Controller) beginGesture() {
	c.changed = false
}

// raiseAndSelect 제스처 진입 시 선택 + 최상단으로 올린다.
// 이미 최상단이면 z-index 변경 없이 선택만 하여 불필요한 커밋을 막는다.
func (c *Controller) raiseAndSelect(id string) {
	if !c.engine.store.IsTopmost(id) {
		c.engine.store.BringToFront(id)
		c.changed = true
	}
	c.engine.store.Select(id)
}

func (c *Controller) endGesture() bool {
	if c.state == GestureIdle {
		return false
	}
	committed := c.changed
	if c.changed {
		c.engine.commit()
	}
	c.state = GestureIdle
	c.itemID = ""
	c.changed = false
	return committed
}
