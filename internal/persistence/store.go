package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"canvas-backend/internal/cache"
	"canvas-backend/internal/canvas"
	"canvas-backend/internal/model"
)

// ErrBoardNotFound 보드 미존재
var ErrBoardNotFound = errors.New("board not found")

// BoardStore 보드 문서의 영속화 어댑터.
// Postgres(jsonb)가 원본이고 Redis는 write-through 캐시다.
// redis가 nil이면 캐시 없이 동작한다.
type BoardStore struct {
	db    *gorm.DB
	redis *cache.RedisClient
}

// NewBoardStore BoardStore 생성
func NewBoardStore(db *gorm.DB, redis *cache.RedisClient) *BoardStore {
	return &BoardStore{db: db, redis: redis}
}

// Load 보드 문서 로드. 캐시를 먼저 보고 미스면 DB에서 읽어 캐시를 채운다.
// 문서가 비어 있으면(새 보드) nil 문서를 반환한다.
func (s *BoardStore) Load(ctx context.Context, boardID int64) (*canvas.BoardDocument, error) {
	if s.redis != nil {
		if data, err := s.redis.GetBoard(ctx, boardID); err == nil {
			var doc canvas.BoardDocument
			if err := json.Unmarshal(data, &doc); err == nil {
				return &doc, nil
			}
			log.Printf("[Persist] Corrupt cache entry for board %d, falling back to DB", boardID)
		} else if !cache.IsMiss(err) {
			log.Printf("[Persist] Cache read failed for board %d: %v", boardID, err)
		}
	}

	var board model.Board
	if err := s.db.WithContext(ctx).Select("id", "document").First(&board, boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to load board %d: %w", boardID, err)
	}

	if len(board.Document) == 0 {
		return nil, nil
	}

	var doc canvas.BoardDocument
	if err := json.Unmarshal(board.Document, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode board %d document: %w", boardID, err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(&doc); err == nil {
			_ = s.redis.SetBoard(ctx, boardID, data)
		}
	}
	return &doc, nil
}

// Save 보드 문서 저장 (DB + 캐시 write-through).
// 호출자는 실패를 로그로 남기고 무시한다 — 인메모리 상태가 세션의 기준이다.
func (s *BoardStore) Save(ctx context.Context, boardID int64, doc *canvas.BoardDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode board %d document: %w", boardID, err)
	}

	result := s.db.WithContext(ctx).
		Model(&model.Board{}).
		Where("id = ?", boardID).
		Update("document", data)
	if result.Error != nil {
		return fmt.Errorf("failed to save board %d: %w", boardID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}

	if s.redis != nil {
		_ = s.redis.SetBoard(ctx, boardID, data)
	}
	return nil
}

// Delete 보드 행 삭제 + 캐시 무효화
func (s *BoardStore) Delete(ctx context.Context, boardID int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Board{}, boardID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete board %d: %w", boardID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}

	if s.redis != nil {
		_ = s.redis.DeleteBoard(ctx, boardID)
	}
	return nil
}

// Exists 보드 행 존재 여부
func (s *BoardStore) Exists(ctx context.Context, boardID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
