package rectpack

// Validate 检查打包结果是否与输入一致：数量与顺序一致、尺寸不变、
// 全部位于 Bounds 内且两两不重叠。返回第一个发现的问题。
func (p *Package) Validate(rects []Size) error {
	if len(p.Placements) != len(rects) {
		return fmtErr("expected %d placements, got %d", len(rects), len(p.Placements))
	}
	bounds := Rect{Size: p.Bounds}
	for i, r := range p.Placements {
		if !r.Size.Eq(rects[i]) {
			return fmtErr("placement %d has size %v, input is %v", i, r.Size, rects[i])
		}
		if r.X < 0 || r.Y < 0 || !bounds.ContainsRect(r) {
			return fmtErr("placement %d %v is outside of %v", i, r.String(), p.Bounds)
		}
	}
	for i := 0; i < len(p.Placements)-1; i++ {
		for j := i + 1; j < len(p.Placements); j++ {
			if p.Placements[i].Intersects(p.Placements[j]) {
				return fmtErr("placements %d %v and %d %v intersect",
					i, p.Placements[i].String(), j, p.Placements[j].String())
			}
		}
	}
	if p.Bounds.Area() < p.UsedArea() {
		return fmtErr("bounds %v smaller than used area %d", p.Bounds, p.UsedArea())
	}
	return nil
}
