package canvas

import (
	"testing"

	"canvas-backend/internal/geometry"
)

func newTestStore() *Store {
	return NewStore(NewBoardState())
}

func TestStoreAddAssignsZIndex(t *testing.T) {
	s := newTestStore()

	a := s.Add(NewStickyNote(0, 0, "a"))
	b := s.Add(NewStickyNote(10, 10, "b"))

	if a.ZIndex != 1 || b.ZIndex != 2 {
		t.Errorf("z-indices = %d, %d, want 1, 2", a.ZIndex, b.ZIndex)
	}
	if got := s.State().NextZIndex; got != 3 {
		t.Errorf("NextZIndex = %d, want 3", got)
	}
}

func TestStoreRemove(t *testing.T) {
	s := newTestStore()
	a := s.Add(NewStickyNote(0, 0, "a"))

	if !s.Remove(a.ID) {
		t.Fatal("Remove returned false for existing item")
	}
	if len(s.State().Items) != 0 {
		t.Error("item still present after Remove")
	}
	if s.Remove("no-such-id") {
		t.Error("Remove of unknown ID should return false")
	}
}

func TestStoreRemoveClearsSelection(t *testing.T) {
	s := newTestStore()
	a := s.Add(NewStickyNote(0, 0, "a"))
	s.Select(a.ID)

	s.Remove(a.ID)
	if s.Selected() != "" {
		t.Errorf("selection should be cleared, got %q", s.Selected())
	}
}

func TestStoreUpdatePatch(t *testing.T) {
	s := newTestStore()
	a := s.Add(NewStickyNote(5, 5, "before"))

	x := 42.0
	text := "after"
	if !s.Update(a.ID, ItemPatch{X: &x, Text: &text}) {
		t.Fatal("Update returned false")
	}

	got, _ := s.ItemByID(a.ID)
	if got.X != 42 || got.Y != 5 || got.Text != "after" {
		t.Errorf("patched item = x=%v y=%v text=%q", got.X, got.Y, got.Text)
	}
}

func TestStoreUpdateClampsSize(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		w, h    float64
		wantW   float64
		wantH   float64
	}{
		{"generic minimum", NewStickyNote(0, 0, ""), 10, 10, MinItemWidth, MinItemHeight},
		{"image keeps square minimum", NewImage(0, 0, "data", "image/png"), 5, 5, MinImageSize, MinImageSize},
		{"shape line mode", NewShape(0, 0, ShapeRectangle), 200, 5, 200, 5},
		{"shape line mode floor", NewShape(0, 0, ShapeRectangle), 200, 0.5, 200, MinLineHeight},
		{"shape normal height", NewShape(0, 0, ShapeRectangle), 200, 20, 200, MinItemHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			it := s.Add(tt.item)
			s.Update(it.ID, ItemPatch{Width: &tt.w, Height: &tt.h})

			got, _ := s.ItemByID(it.ID)
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("size = (%v, %v), want (%v, %v)", got.Width, got.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestStoreBringToFront(t *testing.T) {
	s := newTestStore()
	a := s.Add(NewStickyNote(0, 0, "a"))
	b := s.Add(NewStickyNote(0, 0, "b"))

	if s.IsTopmost(a.ID) {
		t.Error("a should not be topmost before raise")
	}
	if !s.BringToFront(a.ID) {
		t.Fatal("BringToFront returned false")
	}
	if !s.IsTopmost(a.ID) {
		t.Error("a should be topmost after raise")
	}

	got, _ := s.ItemByID(a.ID)
	bGot, _ := s.ItemByID(b.ID)
	if got.ZIndex <= bGot.ZIndex {
		t.Errorf("raised z=%d should exceed %d", got.ZIndex, bGot.ZIndex)
	}
}

func TestStoreIsTopmostTieBreak(t *testing.T) {
	// z-index 동률이면 나중에 삽입된 아이템이 위
	s := NewStore(BoardState{
		Items: []Item{
			{ID: "first", Kind: KindStickyNote, ZIndex: 1},
			{ID: "second", Kind: KindStickyNote, ZIndex: 1},
		},
		NextZIndex: 2,
		Zoom:       1.0,
	})

	if s.IsTopmost("first") {
		t.Error("earlier insertion should lose the tie")
	}
	if !s.IsTopmost("second") {
		t.Error("later insertion should win the tie")
	}
}

func TestStoreItemAt(t *testing.T) {
	s := newTestStore()
	bottom := s.Add(NewStickyNote(0, 0, "bottom")) // 기본 180x180
	top := s.Add(NewStickyNote(50, 50, "top"))

	t.Run("topmost wins in overlap", func(t *testing.T) {
		got, ok := s.ItemAt(geometry.Point{X: 100, Y: 100})
		if !ok || got.ID != top.ID {
			t.Errorf("ItemAt = %v, want top item", got.ID)
		}
	})

	t.Run("only bottom covers the corner", func(t *testing.T) {
		got, ok := s.ItemAt(geometry.Point{X: 10, Y: 10})
		if !ok || got.ID != bottom.ID {
			t.Errorf("ItemAt = %v, want bottom item", got.ID)
		}
	})

	t.Run("empty space", func(t *testing.T) {
		if _, ok := s.ItemAt(geometry.Point{X: 9999, Y: 9999}); ok {
			t.Error("ItemAt over empty space should report no hit")
		}
	})
}

func TestStoreCopyOnWrite(t *testing.T) {
	s := newTestStore()
	s.Add(NewStickyNote(0, 0, "a"))

	before := s.State()
	s.Add(NewStickyNote(0, 0, "b"))

	if len(before.Items) != 1 {
		t.Errorf("earlier state snapshot changed: %d items", len(before.Items))
	}
}

func TestStoreSetStateClearsStaleSelection(t *testing.T) {
	s := newTestStore()
	a := s.Add(NewStickyNote(0, 0, "a"))
	s.Select(a.ID)

	s.SetState(NewBoardState())
	if s.Selected() != "" {
		t.Errorf("selection should be cleared when item vanishes, got %q", s.Selected())
	}
}

func TestStoreSelectUnknownID(t *testing.T) {
	s := newTestStore()
	s.Select("ghost")
	if s.Selected() != "" {
		t.Error("selecting a missing item should be ignored")
	}
}
