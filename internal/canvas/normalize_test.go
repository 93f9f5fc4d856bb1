package canvas

import (
	"testing"

	"canvas-backend/internal/geometry"
)

func TestNormalizeItemInfersKind(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want ItemKind
	}{
		{"reference id wins", Item{ReferenceID: "7", ImageData: "x"}, KindPinnedContent},
		{"image payload", Item{ImageData: "base64"}, KindImage},
		{"shape variant", Item{Shape: ShapeStar}, KindShape},
		{"bare text falls back", Item{Text: "hello"}, KindFreeText},
		{"empty item falls back", Item{}, KindFreeText},
		{"existing kind untouched", Item{Kind: KindFrame, Text: "x"}, KindFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeItem(tt.item).Kind; got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeItemFillsStyle(t *testing.T) {
	got := NormalizeItem(Item{Kind: KindStickyNote})

	if got.Style.BackgroundColor != "#fef08a" {
		t.Errorf("sticky background = %q", got.Style.BackgroundColor)
	}
	if got.Style.FontSize == 0 || got.Style.FontFamily == "" {
		t.Error("font defaults not filled")
	}

	// 이미 설정된 값은 유지한다
	got = NormalizeItem(Item{Kind: KindStickyNote, Style: Style{BackgroundColor: "#000000"}})
	if got.Style.BackgroundColor != "#000000" {
		t.Errorf("explicit style overwritten: %q", got.Style.BackgroundColor)
	}
	if got.Style.TextColor == "" {
		t.Error("unset fields should still be filled")
	}
}

func TestNormalizeState(t *testing.T) {
	state := NormalizeState(BoardState{
		Items: []Item{
			{ID: "a", Kind: KindStickyNote, ZIndex: 7},
			{ID: "b", ReferenceID: "3", ZIndex: 2},
		},
	})

	if state.Zoom != 1.0 {
		t.Errorf("zoom = %v, want 1.0", state.Zoom)
	}
	if state.NextZIndex != 8 {
		t.Errorf("NextZIndex = %d, want 8", state.NextZIndex)
	}
	if state.Items[1].Kind != KindPinnedContent {
		t.Errorf("item kind = %v, want pinnedContent", state.Items[1].Kind)
	}
}

func TestNormalizeStateClampsZoom(t *testing.T) {
	state := NormalizeState(BoardState{Zoom: 99})
	if state.Zoom != geometry.MaxZoom {
		t.Errorf("zoom = %v, want %v", state.Zoom, geometry.MaxZoom)
	}

	state = NormalizeState(BoardState{Zoom: 0.001})
	if state.Zoom != geometry.MinZoom {
		t.Errorf("zoom = %v, want %v", state.Zoom, geometry.MinZoom)
	}
}
