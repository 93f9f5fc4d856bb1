package canvas

import (
	"github.com/google/uuid"
)

// ItemKind 캔버스 아이템 종류
type ItemKind string

const (
	KindPinnedContent ItemKind = "pinnedContent" // 외부 콘텐츠 기록을 참조하는 카드
	KindStickyNote    ItemKind = "stickyNote"
	KindFreeText      ItemKind = "freeText"
	KindShape         ItemKind = "shape"
	KindFrame         ItemKind = "frame"
	KindComment       ItemKind = "comment"
	KindImage         ItemKind = "image"
)

// ShapeVariant 도형 종류
type ShapeVariant string

const (
	ShapeRectangle    ShapeVariant = "rectangle"
	ShapeCircle       ShapeVariant = "circle"
	ShapeTriangle     ShapeVariant = "triangle"
	ShapeRightArrow   ShapeVariant = "rightArrow"
	ShapeStar         ShapeVariant = "star"
	ShapeSpeechBubble ShapeVariant = "speechBubble"
)

// 크기 제약 (캔버스 논리 단위)
const (
	MinItemWidth   = 50.0
	MinItemHeight  = 30.0
	MinImageSize   = 50.0
	MinLineHeight  = 2.0
	LineModeHeight = 10.0 // 이 이하 높이의 도형은 '선' 모드로 취급

	DefaultImageSize = 256.0 // 생성 이미지 기본 배치 크기
)

// Style 아이템 시각 속성. 빈 값은 '미설정'이며 종류별 기본값이 적용된다.
type Style struct {
	TextColor       string  `json:"textColor,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	BorderStyle     string  `json:"borderStyle,omitempty"` // solid|dashed|dotted
	FontFamily      string  `json:"fontFamily,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty"`     // normal|bold
	FontStyle       string  `json:"fontStyle,omitempty"`      // normal|italic
	TextDecoration  string  `json:"textDecoration,omitempty"` // none|underline
}

// Item 캔버스 아이템. Kind가 변형 태그이며 변형별 필드는 해당 Kind에서만 유효하다.
// 잘못된 조합(이미지 페이로드를 가진 도형 등)은 생성자와 Normalize 단계에서 차단된다.
type Item struct {
	ID     string   `json:"id"`
	Kind   ItemKind `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width,omitempty"`  // 0이면 종류별 기본 크기로 렌더
	Height float64  `json:"height,omitempty"` // 한번 설정되면 그 값이 기준
	ZIndex int64    `json:"zIndex"`

	Style Style `json:"style,omitempty"`

	// 변형별 필드
	ReferenceID string       `json:"referenceId,omitempty"` // KindPinnedContent
	Text        string       `json:"text,omitempty"`        // StickyNote, FreeText, Comment
	Shape       ShapeVariant `json:"shapeVariant,omitempty"`
	ImageData   string       `json:"imageData,omitempty"` // KindImage, 불투명 페이로드 참조
	MimeType    string       `json:"mimeType,omitempty"`
}

// NewStickyNote 스티키 노트 생성
func NewStickyNote(x, y float64, text string) Item {
	return Item{ID: uuid.New().String(), Kind: KindStickyNote, X: x, Y: y, Text: text}
}

// NewFreeText 자유 텍스트 생성
func NewFreeText(x, y float64, text string) Item {
	return Item{ID: uuid.New().String(), Kind: KindFreeText, X: x, Y: y, Text: text}
}

// NewComment 코멘트 생성
func NewComment(x, y float64, text string) Item {
	return Item{ID: uuid.New().String(), Kind: KindComment, X: x, Y: y, Text: text}
}

// NewShape 도형 생성
func NewShape(x, y float64, variant ShapeVariant) Item {
	return Item{ID: uuid.New().String(), Kind: KindShape, X: x, Y: y, Shape: variant}
}

// NewFrame 프레임 생성. 시각적 그룹핑 용도이며 포함 관계는 추적하지 않는다.
func NewFrame(x, y float64) Item {
	return Item{ID: uuid.New().String(), Kind: KindFrame, X: x, Y: y}
}

// NewImage 이미지 아이템 생성
func NewImage(x, y float64, data, mimeType string) Item {
	return Item{
		ID: uuid.New().String(), Kind: KindImage, X: x, Y: y,
		Width: DefaultImageSize, Height: DefaultImageSize,
		ImageData: data, MimeType: mimeType,
	}
}

// NewPinnedContent 외부 콘텐츠 기록을 참조하는 핀 카드 생성.
// 참조 대상이 삭제되면 빈 렌더가 되지만 자동 제거되지는 않는다.
func NewPinnedContent(x, y float64, referenceID string) Item {
	return Item{ID: uuid.New().String(), Kind: KindPinnedContent, X: x, Y: y, ReferenceID: referenceID}
}

// DefaultSize 종류별 기본 렌더 크기
func DefaultSize(kind ItemKind) (w, h float64) {
	switch kind {
	case KindPinnedContent:
		return 260, 180
	case KindStickyNote:
		return 180, 180
	case KindFreeText:
		return 200, 60
	case KindShape:
		return 120, 120
	case KindFrame:
		return 400, 300
	case KindComment:
		return 200, 100
	case KindImage:
		return DefaultImageSize, DefaultImageSize
	default:
		return MinItemWidth, MinItemHeight
	}
}

// EffectiveSize 저장된 크기 또는 종류별 기본값
func (it Item) EffectiveSize() (w, h float64) {
	w, h = DefaultSize(it.Kind)
	if it.Width > 0 {
		w = it.Width
	}
	if it.Height > 0 {
		h = it.Height
	}
	return w, h
}

// ClampSize 요청 크기를 아이템 종류의 최소 크기로 제한한다.
// 이미지: 50x50, 높이 10 이하로 줄인 도형(선 모드): 높이 최소 2, 그 외: 50x30.
func (it Item) ClampSize(w, h float64) (float64, float64) {
	if w < MinItemWidth {
		w = MinItemWidth
	}

	minH := MinItemHeight
	switch {
	case it.Kind == KindImage:
		if w < MinImageSize {
			w = MinImageSize
		}
		minH = MinImageSize
	case it.Kind == KindShape && h <= LineModeHeight:
		minH = MinLineHeight
	}
	if h < minH {
		h = minH
	}
	return w, h
}

// defaultStyle 종류별 기본 스타일
func defaultStyle(kind ItemKind) Style {
	s := Style{
		TextColor:      "#1f2937",
		BorderColor:    "#d1d5db",
		BorderWidth:    1,
		BorderStyle:    "solid",
		FontFamily:     "sans-serif",
		FontSize:       14,
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
	}
	switch kind {
	case KindStickyNote:
		s.BackgroundColor = "#fef08a"
	case KindComment:
		s.BackgroundColor = "#dbeafe"
	case KindShape:
		s.BackgroundColor = "#e5e7eb"
	case KindFrame:
		s.BackgroundColor = "transparent"
		s.BorderStyle = "dashed"
	default:
		s.BackgroundColor = "#ffffff"
	}
	return s
}
