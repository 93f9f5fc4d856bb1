package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"canvas-backend/internal/canvas"
	"canvas-backend/internal/geometry"
	"canvas-backend/internal/metrics"
	"canvas-backend/internal/model"
	"canvas-backend/internal/persistence"
	"canvas-backend/internal/session"
)

// BoardHandler 보드/캔버스 REST 핸들러
type BoardHandler struct {
	db       *gorm.DB
	store    *persistence.BoardStore
	sessions *session.Manager
}

// NewBoardHandler BoardHandler 생성
func NewBoardHandler(db *gorm.DB, store *persistence.BoardStore, sessions *session.Manager) *BoardHandler {
	return &BoardHandler{db: db, store: store, sessions: sessions}
}

// boardView 클라이언트에 내려주는 보드 상태
func boardView(e *canvas.Engine) fiber.Map {
	state := e.State()
	return fiber.Map{
		"items":      state.Items,
		"nextZIndex": state.NextZIndex,
		"view": canvas.View{
			Offset: state.Offset,
			Zoom:   state.Zoom,
		},
		"selected": e.Selected(),
		"canUndo":  e.CanUndo(),
		"canRedo":  e.CanRedo(),
	}
}

// getSession 세션 조회, 미존재 보드는 404
func (h *BoardHandler) getSession(c *fiber.Ctx) (*session.BoardSession, error) {
	boardID, ok := c.Locals("boardID").(int64)
	if !ok {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "board ID is required")
		}
		boardID = int64(id)
	}

	s, err := h.sessions.Get(c.UserContext(), boardID)
	if err != nil {
		if errors.Is(err, persistence.ErrBoardNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "board not found")
		}
		log.Printf("[Board] Failed to open session for board %d: %v", boardID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to open board")
	}
	return s, nil
}

// CreateBoardRequest 보드 생성 요청
type CreateBoardRequest struct {
	Title string `json:"title"`
}

// CreateBoard 새 보드 생성
func (h *BoardHandler) CreateBoard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var req CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		req.Title = "Untitled"
	}

	board := model.Board{OwnerID: userID, Title: req.Title}
	if err := h.db.Create(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create board"})
	}

	return c.Status(fiber.StatusCreated).JSON(board)
}

// ListBoards 내 보드 목록
func (h *BoardHandler) ListBoards(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var boards []model.Board
	if err := h.db.Select("id", "owner_id", "title", "created_at", "updated_at").
		Where("owner_id = ?", userID).
		Order("updated_at DESC").
		Find(&boards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list boards"})
	}

	return c.JSON(fiber.Map{"boards": boards})
}

// GetBoard 보드 상태 조회 (라이브 세션 기준)
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		resp = boardView(e)
	})
	return c.JSON(resp)
}

// DeleteBoard 보드 삭제
func (h *BoardHandler) DeleteBoard(c *fiber.Ctx) error {
	boardID := c.Locals("boardID").(int64)

	if err := h.store.Delete(c.UserContext(), boardID); err != nil {
		if errors.Is(err, persistence.ErrBoardNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete board"})
	}
	h.sessions.Release(boardID)

	return c.JSON(fiber.Map{"success": true})
}

// AddItemRequest 아이템 추가 요청
type AddItemRequest struct {
	Type        canvas.ItemKind     `json:"type"`
	X           float64             `json:"x"`
	Y           float64             `json:"y"`
	Text        string              `json:"text,omitempty"`
	Shape       canvas.ShapeVariant `json:"shapeVariant,omitempty"`
	ImageData   string              `json:"imageData,omitempty"`
	MimeType    string              `json:"mimeType,omitempty"`
	ReferenceID string              `json:"referenceId,omitempty"`
}

// AddItem 아이템 추가 + 커밋
func (h *BoardHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var item canvas.Item
	switch req.Type {
	case canvas.KindStickyNote:
		item = canvas.NewStickyNote(req.X, req.Y, req.Text)
	case canvas.KindFreeText:
		item = canvas.NewFreeText(req.X, req.Y, req.Text)
	case canvas.KindComment:
		item = canvas.NewComment(req.X, req.Y, req.Text)
	case canvas.KindShape:
		if req.Shape == "" {
			req.Shape = canvas.ShapeRectangle
		}
		item = canvas.NewShape(req.X, req.Y, req.Shape)
	case canvas.KindFrame:
		item = canvas.NewFrame(req.X, req.Y)
	case canvas.KindImage:
		item = canvas.NewImage(req.X, req.Y, req.ImageData, req.MimeType)
	case canvas.KindPinnedContent:
		item = canvas.NewPinnedContent(req.X, req.Y, req.ReferenceID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown item type"})
	}

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var added canvas.Item
	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		added = e.AddItem(item)
		resp = boardView(e)
	})
	metrics.CountCommit("add")

	resp["item"] = added
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateItem 아이템 패치 (텍스트/스타일/위치/크기) + 커밋
func (h *BoardHandler) UpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	var patch canvas.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var ok bool
	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		ok = e.UpdateItem(itemID, patch)
		resp = boardView(e)
	})

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	metrics.CountCommit("update")
	return c.JSON(resp)
}

// DeleteItem 아이템 제거 + 커밋
func (h *BoardHandler) DeleteItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var ok bool
	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		ok = e.RemoveItem(itemID)
		resp = boardView(e)
	})

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	metrics.CountCommit("remove")
	return c.JSON(resp)
}

// BringToFront 아이템을 최상단으로 + 커밋
func (h *BoardHandler) BringToFront(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var ok bool
	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		ok = e.BringToFront(itemID)
		resp = boardView(e)
	})

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	metrics.CountCommit("front")
	return c.JSON(resp)
}

// SelectItem 아이템 선택 (커밋 없음)
func (h *BoardHandler) SelectItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.Select(itemID)
		resp = boardView(e)
	})
	return c.JSON(resp)
}

// Deselect 선택 해제 (커밋 없음)
func (h *BoardHandler) Deselect(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.ClearSelection()
		resp = boardView(e)
	})
	return c.JSON(resp)
}

// Undo 한 단계 되돌리기. 범위 밖이면 보드 변화 없이 성공 응답.
func (h *BoardHandler) Undo(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.Undo()
		resp = boardView(e)
	})
	metrics.CountCommit("undo")
	return c.JSON(resp)
}

// Redo 한 단계 다시 실행
func (h *BoardHandler) Redo(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.Redo()
		resp = boardView(e)
	})
	metrics.CountCommit("redo")
	return c.JSON(resp)
}

// ZoomRequest 버튼 줌 요청. anchor는 뷰포트 중앙의 화면 좌표.
type ZoomRequest struct {
	Direction string         `json:"direction"` // in | out
	Anchor    geometry.Point `json:"anchor"`
}

// Zoom 버튼 줌 (배율 1.2) + 커밋
func (h *BoardHandler) Zoom(c *fiber.Ctx) error {
	var req ZoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Direction != "in" && req.Direction != "out" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "direction must be 'in' or 'out'"})
	}

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.ButtonZoom(req.Direction == "in", req.Anchor)
		resp = boardView(e)
	})
	metrics.CountCommit("zoom")
	return c.JSON(resp)
}

// Clear 모든 아이템 제거 + 커밋
func (h *BoardHandler) Clear(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		e.Clear()
		resp = boardView(e)
	})
	metrics.CountCommit("clear")
	return c.JSON(resp)
}
