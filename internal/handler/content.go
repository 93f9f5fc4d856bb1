package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"canvas-backend/internal/canvas"
	"canvas-backend/internal/geometry"
	"canvas-backend/internal/metrics"
	"canvas-backend/internal/model"
	"canvas-backend/internal/persistence"
	"canvas-backend/internal/session"
)

// ContentHandler 콘텐츠 기록 핸들러.
// 콘텐츠는 생성기 측이 소유하고, 캔버스에는 referenceId로만 핀 된다.
type ContentHandler struct {
	db       *gorm.DB
	sessions *session.Manager
}

// NewContentHandler ContentHandler 생성
func NewContentHandler(db *gorm.DB, sessions *session.Manager) *ContentHandler {
	return &ContentHandler{db: db, sessions: sessions}
}

// CreateContentRequest 콘텐츠 생성 요청
type CreateContentRequest struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// CreateContent 콘텐츠 기록 생성
func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var req CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Kind == "" {
		req.Kind = model.ContentKindText
	}
	if req.Kind != model.ContentKindText && req.Kind != model.ContentKindImage {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid content kind"})
	}

	content := model.ContentRecord{
		OwnerID: userID,
		Kind:    req.Kind,
		Title:   req.Title,
		Summary: req.Summary,
		Body:    req.Body,
	}
	if err := h.db.Create(&content).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create content"})
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

// ListContents 내 콘텐츠 목록
func (h *ContentHandler) ListContents(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var contents []model.ContentRecord
	if err := h.db.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&contents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list contents"})
	}

	return c.JSON(fiber.Map{"contents": contents})
}

// GetContent 콘텐츠 단건 조회
func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)
	contentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid content ID"})
	}

	var content model.ContentRecord
	if err := h.db.Where("id = ? AND owner_id = ?", contentID, userID).
		First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "content not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get content"})
	}

	return c.JSON(content)
}

// PinContentRequest 콘텐츠를 보드에 핀 하는 요청
type PinContentRequest struct {
	BoardID int64          `json:"boardId"`
	Anchor  geometry.Point `json:"anchor"` // 화면 좌표 (보통 뷰포트 중앙)
}

// PinContent 콘텐츠를 보드에 핀. 엔진이 앵커 주변에 살짝 흩뿌려 배치한다.
func (h *ContentHandler) PinContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)
	contentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid content ID"})
	}

	var req PinContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var content model.ContentRecord
	if err := h.db.Where("id = ? AND owner_id = ?", contentID, userID).
		First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "content not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get content"})
	}

	var board model.Board
	if err := h.db.Select("id", "owner_id").First(&board, req.BoardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get board"})
	}
	if board.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no access to this board"})
	}

	s, err := h.sessions.Get(c.UserContext(), req.BoardID)
	if err != nil {
		if errors.Is(err, persistence.ErrBoardNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open board"})
	}

	refID := strconv.FormatInt(content.ID, 10)
	var pinned canvas.Item
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		pinned = e.PinContent(refID, req.Anchor)
	})
	metrics.CountCommit("pin")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": pinned})
}

// DeleteContent 콘텐츠 삭제. 내 보드들에 핀 된 카드도 함께 제거한다.
func (h *ContentHandler) DeleteContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int64)
	contentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid content ID"})
	}

	result := h.db.Where("id = ? AND owner_id = ?", contentID, userID).
		Delete(&model.ContentRecord{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete content"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "content not found"})
	}

	// 캐스케이드: 모든 보드를 순회하며 이 콘텐츠를 참조하는 핀을 제거.
	// 보드별로 커밋 한 번씩이므로 각 보드에서 undo로 되돌릴 수 있다.
	refID := strconv.FormatInt(int64(contentID), 10)
	removed := 0

	var boardIDs []int64
	if err := h.db.Model(&model.Board{}).
		Where("owner_id = ?", userID).
		Pluck("id", &boardIDs).Error; err != nil {
		log.Printf("[Content] Failed to list boards for pin cascade: %v", err)
	}
	for _, boardID := range boardIDs {
		s, err := h.sessions.Get(c.UserContext(), boardID)
		if err != nil {
			log.Printf("[Content] Failed to open board %d for pin cascade: %v", boardID, err)
			continue
		}
		s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
			removed += e.RemoveByReference(refID)
		})
	}
	if removed > 0 {
		metrics.CountCommit("pin_cascade")
	}

	return c.JSON(fiber.Map{"success": true, "removed_pins": removed})
}
