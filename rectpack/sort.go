package rectpack

import "cmp"

// SortFunc 定义矩形尺寸比较函数的原型
// 返回值:
//
//	负数: a 排在 b 之前
//	0:    a 与 b 等价
//	正数: a 排在 b 之后
type SortFunc func(a, b Size) int

// SortArea 按矩形面积降序排序(从大到小)
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortPerimeter 按矩形周长降序排序(从大到小)
func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortMaxSide 按矩形最长边降序排序(从大到小)
func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

// SortWidth 按矩形宽度降序排序(从大到小)
func SortWidth(a, b Size) int {
	return cmp.Compare(b.Width, a.Width)
}

// SortHeight 按矩形高度降序排序(从大到小)
func SortHeight(a, b Size) int {
	return cmp.Compare(b.Height, a.Height)
}

// SortMinSide 按矩形最短边降序排序(从大到小)
func SortMinSide(a, b Size) int {
	return cmp.Compare(b.MinSide(), a.MinSide())
}

// SortDiff 按矩形宽高差降序排序(从大到小)
func SortDiff(a, b Size) int {
	return cmp.Compare(abs(b.Width-b.Height), abs(a.Width-a.Height))
}

// SortRatio 按矩形宽高比降序排序(从大到小)
func SortRatio(a, b Size) int {
	return cmp.Compare(b.Ratio(), a.Ratio())
}

// abs 返回整数的绝对值
func abs(x int) int {
	if x >= 0 {
		return x
	}
	return -x
}
