package handler

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"

	"canvas-backend/internal/canvas"
	"canvas-backend/internal/metrics"
	"canvas-backend/internal/session"
)

// CanvasWSHandler WebSocket 포인터 이벤트 핸들러.
// 드래그/리사이즈/팬처럼 이벤트가 잦은 제스처는 REST 대신 이 채널로 들어온다.
type CanvasWSHandler struct {
	sessions *session.Manager
}

// NewCanvasWSHandler CanvasWSHandler 생성
func NewCanvasWSHandler(sessions *session.Manager) *CanvasWSHandler {
	return &CanvasWSHandler{sessions: sessions}
}

// CanvasWSMessage WebSocket 캔버스 메시지
type CanvasWSMessage struct {
	Type    string          `json:"type"` // pointerdown, pointermove, pointerup, pointerleave, wheel, sync
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PointerPayload 포인터 이벤트 페이로드 (화면 좌표)
type PointerPayload struct {
	X      float64              `json:"x"`
	Y      float64              `json:"y"`
	Button canvas.PointerButton `json:"button"`
	Target canvas.PointerTarget `json:"target"`
	ItemID string               `json:"itemId,omitempty"`
	ZoomIn bool                 `json:"zoomIn,omitempty"` // wheel 전용
}

// StatePayload 클라이언트에 내려주는 보드 상태
type StatePayload struct {
	Items    []canvas.Item `json:"items"`
	View     canvas.View   `json:"view"`
	Selected string        `json:"selected"`
	Gesture  string        `json:"gesture"`
	CanUndo  bool          `json:"canUndo"`
	CanRedo  bool          `json:"canRedo"`
}

// HandleWebSocket WebSocket 연결 처리
func (h *CanvasWSHandler) HandleWebSocket(c *websocket.Conn) {
	boardIDInterface := c.Locals("boardId")
	userIDInterface := c.Locals("userId")

	boardID, ok1 := boardIDInterface.(int64)
	userID, ok2 := userIDInterface.(int64)
	if !ok1 || !ok2 {
		c.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"invalid session"}`))
		c.Close()
		return
	}

	s, err := h.sessions.Get(context.Background(), boardID)
	if err != nil {
		c.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"board not found"}`))
		c.Close()
		return
	}

	metrics.WSConnected()
	log.Printf("캔버스 클라이언트 연결: board=%d, user=%d", boardID, userID)

	defer func() {
		// 연결이 끊기면 진행 중이던 제스처를 닫는다 (pointerleave와 동일)
		s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
			ctrl.PointerLeave()
		})
		metrics.WSDisconnected()
		c.Close()
		log.Printf("캔버스 클라이언트 연결 해제: board=%d, user=%d", boardID, userID)
	}()

	// 접속 직후 현재 상태 전송
	h.sendState(c, s)

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		var msg CanvasWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			continue
		}

		var payload PointerPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
		}

		ev := canvas.PointerEvent{
			X:      payload.X,
			Y:      payload.Y,
			Button: payload.Button,
			Target: payload.Target,
			ItemID: payload.ItemID,
		}

		switch msg.Type {
		case "pointerdown":
			s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
				ctrl.PointerDown(ev)
			})
		case "pointermove":
			s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
				ctrl.PointerMove(ev)
			})
		case "pointerup":
			var committed bool
			s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
				committed = ctrl.PointerUp(ev)
			})
			if committed {
				metrics.CountCommit("gesture")
			}
		case "pointerleave":
			var committed bool
			s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
				committed = ctrl.PointerLeave()
			})
			if committed {
				metrics.CountCommit("gesture")
			}
		case "wheel":
			var committed bool
			s.Do(func(_ *canvas.Engine, ctrl *canvas.Controller) {
				committed = ctrl.Wheel(ev, payload.ZoomIn)
			})
			if committed {
				metrics.CountCommit("wheel_zoom")
			}
		case "sync":
			// 상태만 다시 내려달라는 요청, 아래 공통 전송으로 처리
		default:
			continue
		}

		h.sendState(c, s)
	}
}

// sendState 현재 보드 상태 전송
func (h *CanvasWSHandler) sendState(c *websocket.Conn, s *session.BoardSession) {
	var payload StatePayload
	s.Do(func(e *canvas.Engine, ctrl *canvas.Controller) {
		state := e.State()
		payload = StatePayload{
			Items:    state.Items,
			View:     canvas.View{Offset: state.Offset, Zoom: state.Zoom},
			Selected: e.Selected(),
			Gesture:  ctrl.State().String(),
			CanUndo:  e.CanUndo(),
			CanRedo:  e.CanRedo(),
		}
	})
	if payload.Items == nil {
		payload.Items = []canvas.Item{}
	}

	data, err := json.Marshal(CanvasWSMessage{Type: "state", Payload: mustRaw(payload)})
	if err != nil {
		return
	}
	c.WriteMessage(websocket.TextMessage, data)
}

func mustRaw(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
