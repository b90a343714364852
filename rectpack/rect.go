package rectpack

import "fmt"

// Point 描述了二维空间中的一个位置。
type Point struct {
	// X 是在水平 x 轴上的位置。
	X int `json:"x"`
	// Y 是在垂直 y 轴上的位置。
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// String 返回点的字符串表示形式。
func (p Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size 描述一个尚未放置的矩形，只有宽和高。
// 结构相等（==）即视为同一尺寸，可直接作为 map 的键。
type Size struct {
	// Width 是在水平 x 轴上的尺寸。
	Width int `json:"width"`
	// Height 是在垂直 y 轴上的尺寸。
	Height int `json:"height"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Eq 判断接收者和另一个尺寸是否具有相同的值。
func (sz Size) Eq(size Size) bool {
	return sz.Width == size.Width && sz.Height == size.Height
}

// String 返回尺寸的字符串表示形式。
func (sz Size) String() string {
	return fmt.Sprintf("%vx%v", sz.Width, sz.Height)
}

// Area 返回总面积（宽度 * 高度），使用 int64 计算以避免溢出。
func (sz Size) Area() int64 {
	return int64(sz.Width) * int64(sz.Height)
}

// Perimeter 返回所有边的总长度。
func (sz Size) Perimeter() int64 {
	return (int64(sz.Width) + int64(sz.Height)) << 1
}

// MaxSide 返回较大边的值。
func (sz Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide 返回较小边的值。
func (sz Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Ratio 计算宽度与高度之间的比率。高度为 0 时返回 0。
func (sz Size) Ratio() float64 {
	if sz.Height == 0 {
		return 0
	}
	return float64(sz.Width) / float64(sz.Height)
}

// IsEmpty 测试宽度或高度是否小于1。
func (sz Size) IsEmpty() bool {
	return sz.Width <= 0 || sz.Height <= 0
}

// expandWith 返回同时覆盖当前尺寸（以原点为左上角）和指定矩形的最小尺寸。
func (sz Size) expandWith(r Rect) Size {
	return Size{
		Width:  max(sz.Width, r.Right()),
		Height: max(sz.Height, r.Bottom()),
	}
}

// Rect 描述了二维空间中的一个位置（左上角）和尺寸。
// 既用来表示空闲区域，也用来表示已放置的矩形。
type Rect struct {
	// Point 表示矩形的左上角坐标。
	Point
	// Size 表示矩形的宽度和高度。
	Size
}

// NewRect 初始化一个使用指定点和尺寸值的新矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// Eq 比较两个矩形以确定位置和尺寸是否相等。
func (r Rect) Eq(rect Rect) bool {
	return r.Point == rect.Point && r.Size.Eq(rect.Size)
}

// String 返回描述矩形的字符串。
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Right 返回矩形右边缘在 x 轴上的坐标。
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom 返回矩形下边缘在 y 轴上的坐标。
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// ContainsRect 测试指定的矩形是否包含在当前接收者的边界内。
func (r Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.X+rect.Width <= r.X+r.Width &&
		r.Y <= rect.Y &&
		rect.Y+rect.Height <= r.Y+r.Height
}

// Intersects 测试接收者是否与指定的矩形有任何重叠。
// 面积为 0 的矩形不与任何矩形重叠。
func (r Rect) Intersects(rect Rect) bool {
	if r.IsEmpty() || rect.IsEmpty() {
		return false
	}
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}
