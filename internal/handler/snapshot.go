package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"canvas-backend/internal/canvas"
	"canvas-backend/internal/metrics"
)

// SaveSnapshotRequest 스냅샷 저장 요청
type SaveSnapshotRequest struct {
	Name string `json:"name"`
}

// SaveSnapshot 현재 보드 상태를 이름 붙여 저장
func (h *BoardHandler) SaveSnapshot(c *fiber.Ctx) error {
	var req SaveSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var snap canvas.Snapshot
	var ok bool
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		snap, ok = e.SaveSnapshot(req.Name)
	})

	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "snapshot name is required"})
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// ListSnapshots 스냅샷 목록 (최신순 아님, 저장 순서대로)
func (h *BoardHandler) ListSnapshots(c *fiber.Ctx) error {
	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var snaps []canvas.Snapshot
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		snaps = e.Snapshots()
	})

	// 상태 전체는 목록에서 제외 (payload가 크다)
	type snapshotMeta struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Timestamp time.Time `json:"timestamp"`
		ItemCount int       `json:"itemCount"`
	}
	metas := make([]snapshotMeta, 0, len(snaps))
	for _, sn := range snaps {
		metas = append(metas, snapshotMeta{
			ID:        sn.ID,
			Name:      sn.Name,
			Timestamp: sn.CreatedAt,
			ItemCount: len(sn.State.Items),
		})
	}
	return c.JSON(fiber.Map{"snapshots": metas})
}

// LoadSnapshot 스냅샷 복원. 복원 자체가 하나의 커밋이므로 undo로 되돌릴 수 있다.
func (h *BoardHandler) LoadSnapshot(c *fiber.Ctx) error {
	snapID := c.Params("snapshotId")

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var loadErr error
	var resp fiber.Map
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		loadErr = e.LoadSnapshot(snapID)
		resp = boardView(e)
	})

	if loadErr != nil {
		if errors.Is(loadErr, canvas.ErrSnapshotNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load snapshot"})
	}
	metrics.CountCommit("snapshot_load")
	return c.JSON(resp)
}

// DeleteSnapshot 스냅샷 삭제. ?confirm=true 없이는 거부한다.
func (h *BoardHandler) DeleteSnapshot(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "snapshot deletion requires confirmation",
			"code":  "CONFIRM_REQUIRED",
		})
	}
	snapID := c.Params("snapshotId")

	s, err := h.getSession(c)
	if err != nil {
		return err
	}

	var ok bool
	s.Do(func(e *canvas.Engine, _ *canvas.Controller) {
		ok = e.DeleteSnapshot(snapID)
	})

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}
