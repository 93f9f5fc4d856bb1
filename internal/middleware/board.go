package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"canvas-backend/internal/auth"
)

// BoardMiddleware 보드 접근 권한 미들웨어
type BoardMiddleware struct {
	db *gorm.DB
}

// NewBoardMiddleware BoardMiddleware 생성
func NewBoardMiddleware(db *gorm.DB) *BoardMiddleware {
	return &BoardMiddleware{db: db}
}

// BoardIDFromContext URL에서 보드 ID 추출
func BoardIDFromContext(c *fiber.Ctx) (int64, error) {
	idStr := c.Params("boardId")
	if idStr == "" {
		idStr = c.Params("id")
	}
	if idStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "board ID is required")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// RequireOwnership 보드 소유자만 통과시킨다
func (m *BoardMiddleware) RequireOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.GetClaimsFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		boardID, err := BoardIDFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid board ID"})
		}

		ok, err := auth.CanAccessBoard(m.db, boardID, claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check board access"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not the board owner"})
		}

		c.Locals("boardID", boardID)
		return c.Next()
	}
}
