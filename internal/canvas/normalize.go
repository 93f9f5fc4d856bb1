package canvas

import "canvas-backend/internal/geometry"

// 구버전 스키마로 저장된 보드를 읽기 위한 정규화.
// 예전 데이터는 type 태그 없이 변형별 필드만 채워져 있을 수 있다.

// NormalizeItem 누락된 항목을 보정한다.
// type이 없으면 채워진 변형 필드로 추론하고 (referenceId ⇒ pinnedContent,
// imageData ⇒ image, shapeVariant ⇒ shape, 그 외 freeText),
// 비어 있는 스타일 필드는 종류별 기본값으로 채운다.
func NormalizeItem(it Item) Item {
	if it.Kind == "" {
		switch {
		case it.ReferenceID != "":
			it.Kind = KindPinnedContent
		case it.ImageData != "":
			it.Kind = KindImage
		case it.Shape != "":
			it.Kind = KindShape
		default:
			it.Kind = KindFreeText
		}
	}

	def := defaultStyle(it.Kind)
	if it.Style.TextColor == "" {
		it.Style.TextColor = def.TextColor
	}
	if it.Style.BackgroundColor == "" {
		it.Style.BackgroundColor = def.BackgroundColor
	}
	if it.Style.BorderColor == "" {
		it.Style.BorderColor = def.BorderColor
	}
	if it.Style.BorderWidth == 0 {
		it.Style.BorderWidth = def.BorderWidth
	}
	if it.Style.BorderStyle == "" {
		it.Style.BorderStyle = def.BorderStyle
	}
	if it.Style.FontFamily == "" {
		it.Style.FontFamily = def.FontFamily
	}
	if it.Style.FontSize == 0 {
		it.Style.FontSize = def.FontSize
	}
	if it.Style.FontWeight == "" {
		it.Style.FontWeight = def.FontWeight
	}
	if it.Style.FontStyle == "" {
		it.Style.FontStyle = def.FontStyle
	}
	if it.Style.TextDecoration == "" {
		it.Style.TextDecoration = def.TextDecoration
	}
	return it
}

// NormalizeState 상태 전체를 정규화한다. 줌이 0이거나 범위 밖이면 보정하고
// z 카운터가 기존 아이템보다 뒤처져 있으면 최대값 다음으로 올린다.
func NormalizeState(state BoardState) BoardState {
	state = state.Clone()
	for i, it := range state.Items {
		state.Items[i] = NormalizeItem(it)
	}
	if state.Zoom == 0 {
		state.Zoom = 1.0
	}
	state.Zoom = geometry.ClampZoom(state.Zoom)
	if state.NextZIndex < 1 {
		state.NextZIndex = 1
	}
	for _, it := range state.Items {
		if it.ZIndex >= state.NextZIndex {
			state.NextZIndex = it.ZIndex + 1
		}
	}
	return state
}
