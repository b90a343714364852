package rectpack

// regionStack 是空闲区域的后进先出容器。
// 删除时用最后一个元素填补空位，因此除 LIFO 外不保证顺序。
type regionStack []Rect

func (s *regionStack) push(r ...Rect) {
	*s = append(*s, r...)
}

func (s *regionStack) removeAt(i int) {
	old := *s
	n := len(old) - 1
	old[i] = old[n]
	*s = old[:n]
}

// grid 是某个候选尺寸下的一次打包尝试，持有空闲区域和已放置矩形的包围盒
type grid struct {
	free     regionStack
	bounding Size
}

func newGrid() *grid {
	return &grid{}
}

// reset 丢弃所有空闲区域，换成一个覆盖整个 bin 的区域，并清空包围盒
func (g *grid) reset(bin Size) {
	g.free = g.free[:0]
	g.free.push(NewRect(0, 0, bin.Width, bin.Height))
	g.bounding = Size{}
}

// insert 从最近加入的空闲区域开始查找第一个能放下 piece 的区域。
// 放不下时返回 false，且不修改任何状态。
func (g *grid) insert(piece Size) (Rect, bool) {
	for i := len(g.free) - 1; i >= 0; i-- {
		region := g.free[i]
		result := trySplit(piece, region)
		if result.kind == splitFailed {
			continue
		}
		g.free.removeAt(i)
		g.free.push(result.remainders()...)

		placed := Rect{Point: region.Point, Size: piece}
		g.bounding = g.bounding.expandWith(placed)
		return placed, true
	}
	return Rect{}, false
}

// spanning 返回覆盖所有已放置矩形的最小尺寸
func (g *grid) spanning() Size {
	return g.bounding
}
