package canvas

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound 스냅샷 ID 미존재
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot 사용자가 이름 붙여 저장한 보드 상태.
// 선형 undo 히스토리와 독립적이며 30개 한도의 영향을 받지 않는다.
type Snapshot struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"timestamp"`
	State     BoardState `json:"boardState"`
}

// SnapshotManager 이름 붙은 스냅샷 목록 관리.
// 개수 제한 없음 — 원본 동작 유지 (자동 정리하지 않는다).
type SnapshotManager struct {
	snaps []Snapshot
}

// NewSnapshotManager 스냅샷 매니저 생성
func NewSnapshotManager(snaps []Snapshot) *SnapshotManager {
	m := &SnapshotManager{}
	for _, s := range snaps {
		s.State = s.State.Clone()
		m.snaps = append(m.snaps, s)
	}
	return m
}

// Save 깊은 복사본을 새 스냅샷으로 저장. 빈 이름은 no-op (false).
func (m *SnapshotManager) Save(name string, state BoardState) (Snapshot, bool) {
	if strings.TrimSpace(name) == "" {
		return Snapshot{}, false
	}
	snap := Snapshot{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		State:     state.Clone(),
	}
	m.snaps = append(m.snaps, snap)
	return snap, true
}

// List 저장된 스냅샷 전체 (상태 복사본 포함)
func (m *SnapshotManager) List() []Snapshot {
	out := make([]Snapshot, len(m.snaps))
	for i, s := range m.snaps {
		s.State = s.State.Clone()
		out[i] = s
	}
	return out
}

// Get ID로 스냅샷 조회
func (m *SnapshotManager) Get(id string) (Snapshot, error) {
	for _, s := range m.snaps {
		if s.ID == id {
			s.State = s.State.Clone()
			return s, nil
		}
	}
	return Snapshot{}, ErrSnapshotNotFound
}

// Delete 스냅샷 제거. 히스토리와 라이브 보드에는 영향 없음.
func (m *SnapshotManager) Delete(id string) bool {
	for i, s := range m.snaps {
		if s.ID == id {
			m.snaps = append(m.snaps[:i], m.snaps[i+1:]...)
			return true
		}
	}
	return false
}

// Len 저장된 스냅샷 수
func (m *SnapshotManager) Len() int {
	return len(m.snaps)
}
