package session

import (
	"context"
	"log"
	"sync"
	"time"

	"canvas-backend/internal/canvas"
	"canvas-backend/internal/persistence"
)

// BoardSession 한 보드의 라이브 엔진과 제스처 컨트롤러를 소유한다.
// 뮤텍스가 이벤트 루프 역할을 한다 — 캔버스 변경은 전부 Do 안에서
// 직렬화되므로 엔진 내부에는 잠금이 필요 없다.
type BoardSession struct {
	BoardID     int64
	ConnectedAt time.Time

	engine     *canvas.Engine
	controller *canvas.Controller
	mu         sync.Mutex

	// 영속화 쓰기 순서 보장용 (최신 커밋만 기록)
	persistSeq  uint64
	lastWritten uint64
	persistMu   sync.Mutex
}

// Do 세션 잠금 하에서 엔진/컨트롤러 접근을 실행한다.
func (s *BoardSession) Do(fn func(e *canvas.Engine, c *canvas.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine, s.controller)
}

// Manager 보드별 라이브 세션 관리자.
// store가 nil이면 영속화 없이 인메모리로만 동작한다 (테스트용).
type Manager struct {
	store    *persistence.BoardStore
	sessions map[int64]*BoardSession
	mu       sync.Mutex
}

// NewManager Manager 생성
func NewManager(store *persistence.BoardStore) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[int64]*BoardSession),
	}
}

// Get 보드 세션 조회 또는 생성. 첫 접근이면 영속 매체에서 보드를 복원한다.
func (m *Manager) Get(ctx context.Context, boardID int64) (*BoardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[boardID]; ok {
		return s, nil
	}

	var engine *canvas.Engine
	if m.store != nil {
		doc, err := m.store.Load(ctx, boardID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			engine = canvas.NewEngine(canvas.NewBoardState())
		} else {
			engine = canvas.LoadEngine(doc)
		}
	} else {
		engine = canvas.NewEngine(canvas.NewBoardState())
	}

	s := &BoardSession{
		BoardID:     boardID,
		ConnectedAt: time.Now(),
		engine:      engine,
		controller:  canvas.NewController(engine),
	}

	if m.store != nil {
		engine.SetPersist(m.persistFunc(s))
	}

	m.sessions[boardID] = s
	return s, nil
}

// Release 세션 해제. 이후 접근은 영속 매체에서 다시 복원된다.
func (m *Manager) Release(boardID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, boardID)
}

// persistFunc fire-and-forget 저장 훅. 실패는 로그만 남기고 무시한다 —
// 인메모리 보드가 세션의 기준이고 다음 성공한 저장이 복구한다.
// 순번 가드로 오래된 커밋이 최신 커밋을 덮어쓰지 않게 한다.
func (m *Manager) persistFunc(s *BoardSession) canvas.PersistFunc {
	return func(doc canvas.BoardDocument) {
		s.persistSeq++
		seq := s.persistSeq

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			s.persistMu.Lock()
			defer s.persistMu.Unlock()
			if seq <= s.lastWritten {
				return // 더 최신 커밋이 이미 기록됨
			}
			if err := m.store.Save(ctx, s.BoardID, &doc); err != nil {
				log.Printf("[Persist] Failed to save board %d: %v", s.BoardID, err)
				return
			}
			s.lastWritten = seq
		}()
	}
}
