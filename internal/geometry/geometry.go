package geometry

// 화면 좌표 <-> 캔버스 좌표 변환 유틸리티.
// 모든 아이템 위치/크기는 줌과 무관한 캔버스 좌표로 저장된다.

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	// 줌 스텝: 휠은 촘촘하게, 버튼은 크게
	WheelZoomStep  = 1.1
	ButtonZoomStep = 1.2
)

// Point 2차원 좌표
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 좌표 덧셈
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub 좌표 뺄셈
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ScreenToCanvas 화면(포인터) 좌표를 캔버스 논리 좌표로 변환
func ScreenToCanvas(screen, offset Point, zoom float64) Point {
	return Point{
		X: (screen.X - offset.X) / zoom,
		Y: (screen.Y - offset.Y) / zoom,
	}
}

// CanvasToScreen 캔버스 논리 좌표를 화면 좌표로 변환
func CanvasToScreen(canvas, offset Point, zoom float64) Point {
	return Point{
		X: canvas.X*zoom + offset.X,
		Y: canvas.Y*zoom + offset.Y,
	}
}

// ZoomAround 앵커 화면 좌표가 가리키는 캔버스 지점을 고정한 채
// 줌을 변경했을 때의 새 오프셋을 계산한다.
// 휠 줌(앵커 = 포인터 위치)과 버튼 줌(앵커 = 뷰포트 중앙) 모두 사용.
func ZoomAround(anchor Point, oldZoom, newZoom float64, oldOffset Point) Point {
	ratio := newZoom / oldZoom
	return Point{
		X: anchor.X - (anchor.X-oldOffset.X)*ratio,
		Y: anchor.Y - (anchor.Y-oldOffset.Y)*ratio,
	}
}

// ClampZoom 줌 배율을 허용 범위로 제한
func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
