package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"canvas-backend/internal/ai"
	"canvas-backend/internal/canvas"
	"canvas-backend/internal/geometry"
	"canvas-backend/internal/metrics"
	"canvas-backend/internal/session"
)

// ImageHandler 이미지 생성 핸들러.
// 생성된 이미지는 뷰포트 중앙 기준으로 캔버스에 바로 배치된다.
type ImageHandler struct {
	client   *ai.ImageClient
	sessions *session.Manager
}

// NewImageHandler ImageHandler 생성
func NewImageHandler(client *ai.ImageClient, sessions *session.Manager) *ImageHandler {
	return &ImageHandler{client: client, sessions: sessions}
}

// GenerateImageRequest 이미지 생성 요청
type GenerateImageRequest struct {
	Prompt string         `json:"prompt"`
	Style  string         `json:"style,omitempty"`
	Anchor geometry.Point `json:"anchor"` // 화면 좌표
}

// GenerateImage 프롬프트로 이미지를 생성해 보드에 배치 + 커밋
func (h *ImageHandler) GenerateImage(c *fiber.Ctx) error {
	if !h.client.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image generation is not configured"})
	}

	var req GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "prompt is required"})
	}

	boardID, ok := c.Locals("boardID").(int64)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "board ID is required"})
	}

	img, err := h.client.Generate(c.UserContext(), req.Prompt, req.Style)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image generation is not configured"})
		}
		log.Printf("[Image] Generation failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "image generation failed"})
	}

	s, err := h.sessions.Get(c.UserContext(), boardID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open board"})
	}

	var placed canvas.Item
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		placed = e.PlaceImage(img.Data, img.MimeType, req.Anchor)
	})
	metrics.CountCommit("image")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": placed})
}
