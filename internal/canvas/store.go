package canvas

import (
	"slices"

	"canvas-backend/internal/geometry"
)

// Store 아이템 컬렉션과 z-순서 카운터, 단일 선택 상태를 관리한다.
// 모든 변경은 새 슬라이스를 만들어 적용하므로 히스토리에 보관된
// 과거 상태가 이후 변경의 영향을 받지 않는다.
type Store struct {
	state    BoardState
	selected string // 선택된 아이템 ID, 빈 문자열이면 선택 없음
}

// NewStore 보드 상태로 스토어 생성
func NewStore(state BoardState) *Store {
	return &Store{state: state.Clone()}
}

// State 현재 보드 상태의 복사본
func (s *Store) State() BoardState {
	return s.state.Clone()
}

// SetState 보드 상태 교체 (undo/redo, 스냅샷 로드)
func (s *Store) SetState(state BoardState) {
	s.state = state.Clone()
	if s.selected != "" {
		if _, ok := s.ItemByID(s.selected); !ok {
			s.selected = ""
		}
	}
}

// Add 아이템을 추가하고 다음 z-index를 부여한다.
func (s *Store) Add(it Item) Item {
	it.ZIndex = s.state.NextZIndex
	s.state.NextZIndex++
	s.state.Items = append(slices.Clone(s.state.Items), it)
	return it
}

// Remove 아이템 제거. 선택된 아이템이면 선택도 해제된다.
// 존재하지 않는 ID는 무시하고 false를 반환한다.
func (s *Store) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.state.Items = slices.Delete(slices.Clone(s.state.Items), idx, idx+1)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Update 패치를 아이템에 얕게 병합한다. 존재하지 않는 ID는 무시.
func (s *Store) Update(id string, patch ItemPatch) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	items := slices.Clone(s.state.Items)
	items[idx] = patch.applyTo(items[idx])
	s.state.Items = items
	return true
}

// BringToFront 아이템의 z-index를 현재 카운터 값으로 올리고 카운터를 증가시킨다.
// 변경이 실제로 일어났는지 여부를 반환한다 (이미 없는 ID는 false).
func (s *Store) BringToFront(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	items := slices.Clone(s.state.Items)
	items[idx].ZIndex = s.state.NextZIndex
	s.state.NextZIndex++
	s.state.Items = items
	return true
}

// IsTopmost 아이템이 이미 최상단인지 (z-index 동률은 삽입 순서가 뒤일 때 상단)
func (s *Store) IsTopmost(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	z := s.state.Items[idx].ZIndex
	for i, it := range s.state.Items {
		if it.ZIndex > z || (it.ZIndex == z && i > idx) {
			return false
		}
	}
	return true
}

// Select 단일 선택 설정. 존재하지 않는 ID면 무시.
func (s *Store) Select(id string) {
	if _, ok := s.ItemByID(id); ok {
		s.selected = id
	}
}

// ClearSelection 선택 해제 (빈 캔버스 클릭)
func (s *Store) ClearSelection() {
	s.selected = ""
}

// Selected 현재 선택된 아이템 ID
func (s *Store) Selected() string {
	return s.selected
}

// ItemByID ID로 아이템 조회
func (s *Store) ItemByID(id string) (Item, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.state.Items[idx], true
	}
	return Item{}, false
}

// ItemAt 캔버스 좌표에 위치한 최상단 아이템. z-index 동률은 삽입 순서로 결정.
func (s *Store) ItemAt(p geometry.Point) (Item, bool) {
	best := -1
	for i, it := range s.state.Items {
		w, h := it.EffectiveSize()
		if p.X < it.X || p.X > it.X+w || p.Y < it.Y || p.Y > it.Y+h {
			continue
		}
		if best < 0 || it.ZIndex >= s.state.Items[best].ZIndex {
			best = i
		}
	}
	if best < 0 {
		return Item{}, false
	}
	return s.state.Items[best], true
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.state.Items, func(it Item) bool { return it.ID == id })
}

// ItemPatch 아이템 부분 수정. nil 필드는 건드리지 않는다.
type ItemPatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Text   *string  `json:"text,omitempty"`

	TextColor       *string  `json:"textColor,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
	BorderStyle     *string  `json:"borderStyle,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontWeight      *string  `json:"fontWeight,omitempty"`
	FontStyle       *string  `json:"fontStyle,omitempty"`
	TextDecoration  *string  `json:"textDecoration,omitempty"`
}

func (p ItemPatch) applyTo(it Item) Item {
	if p.X != nil {
		it.X = *p.X
	}
	if p.Y != nil {
		it.Y = *p.Y
	}
	// 크기는 종류별 최소값으로 제한해 저장한다
	if p.Width != nil || p.Height != nil {
		w, h := it.EffectiveSize()
		if p.Width != nil {
			w = *p.Width
		}
		if p.Height != nil {
			h = *p.Height
		}
		it.Width, it.Height = it.ClampSize(w, h)
	}
	if p.Text != nil {
		it.Text = *p.Text
	}
	if p.TextColor != nil {
		it.Style.TextColor = *p.TextColor
	}
	if p.BackgroundColor != nil {
		it.Style.BackgroundColor = *p.BackgroundColor
	}
	if p.BorderColor != nil {
		it.Style.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		it.Style.BorderWidth = *p.BorderWidth
	}
	if p.BorderStyle != nil {
		it.Style.BorderStyle = *p.BorderStyle
	}
	if p.FontFamily != nil {
		it.Style.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		it.Style.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		it.Style.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil {
		it.Style.FontStyle = *p.FontStyle
	}
	if p.TextDecoration != nil {
		it.Style.TextDecoration = *p.TextDecoration
	}
	return it
}
