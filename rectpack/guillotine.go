package rectpack

// splitKind 表示一次切分产生的结果种类
type splitKind int8

const (
	splitFailed   splitKind = iota - 1 // 放不下
	splitConsumed                      // 恰好填满，没有剩余
	splitOne                           // 一个剩余区域
	splitTwo                           // 两个剩余区域
)

// splitResult 保存切分结果，remainders 中较大的区域总是在前
type splitResult struct {
	kind  splitKind
	rects [2]Rect
}

// remainders 返回切分后剩余的空闲区域
func (s *splitResult) remainders() []Rect {
	switch s.kind {
	case splitOne:
		return s.rects[:1]
	case splitTwo:
		return s.rects[:2]
	}
	return nil
}

// trySplit 尝试把 piece 放在 region 的左上角，并用一次断头台切分把剩余空间
// 分成最多两个互不重叠的矩形。
func trySplit(piece Size, region Rect) splitResult {
	if piece.Width > region.Width || piece.Height > region.Height {
		return splitResult{kind: splitFailed}
	}
	freeW := region.Width - piece.Width
	freeH := region.Height - piece.Height

	switch {
	case freeW == 0 && freeH == 0:
		return splitResult{kind: splitConsumed}
	case freeW == 0:
		return splitResult{kind: splitOne, rects: [2]Rect{
			NewRect(region.X, region.Y+piece.Height, region.Width, freeH),
		}}
	case freeH == 0:
		return splitResult{kind: splitOne, rects: [2]Rect{
			NewRect(region.X+piece.Width, region.Y, freeW, region.Height),
		}}
	}

	// 保留较长的剩余边作为完整的条带
	if freeW > freeH {
		return splitResult{kind: splitTwo, rects: [2]Rect{
			NewRect(region.X+piece.Width, region.Y, freeW, region.Height),
			NewRect(region.X, region.Y+piece.Height, piece.Width, freeH),
		}}
	}
	return splitResult{kind: splitTwo, rects: [2]Rect{
		NewRect(region.X, region.Y+piece.Height, region.Width, freeH),
		NewRect(region.X+piece.Width, region.Y, freeW, piece.Height),
	}}
}
