package rectpack

import (
	"log"
)

// Dimensions 选择在搜索 bin 尺寸时允许调整的维度
type Dimensions uint8

const (
	Both Dimensions = iota
	Width
	Height
)

func (d Dimensions) String() string {
	switch d {
	case Both:
		return "both"
	case Width:
		return "width"
	case Height:
		return "height"
	}
	return "unknown"
}

// ParseDimensions 解析 "both"、"width" 或 "height"
func ParseDimensions(s string) (Dimensions, error) {
	switch s {
	case "both", "":
		return Both, nil
	case "width":
		return Width, nil
	case "height":
		return Height, nil
	}
	return Both, fmtErr("unknown dimensions %q", s)
}

// searchResult 是一次尺寸搜索的结果，只可能是 found 或 notFound
type searchResult interface {
	searchResult()
}

// found 表示所有矩形都放进了 bin
type found struct {
	bin  Size
	area int64
}

// notFound 表示在最大尺寸内找不到可行的 bin，bestArea 只用于诊断
type notFound struct {
	bestArea int64
}

func (found) searchResult()    {}
func (notFound) searchResult() {}

// fitEntry 是某个候选尺寸的缓存结果
type fitEntry struct {
	fits bool
	area int64
}

// searchStats 记录搜索过程中的循环次数和缓存命中次数
type searchStats struct {
	iterations int
	memoHits   int
}

// findBestPacking 对一个固定的矩形顺序反复收缩/扩大候选 bin，
// 寻找在允许调整的维度上能放下全部矩形的最小 bin。
// 缓存只在本次调用内有效，不能跨不同的矩形顺序复用。
func findBestPacking(rects []Size, g *grid, maxBin Size, discardStep int, dims Dimensions, logger *log.Logger) (searchResult, searchStats) {
	memo := make(map[Size]fitEntry)
	var stats searchStats

	// 每个可调整维度各自的步长，与该维度的长度成比例，
	// 这样非正方形的最大 bin 中较短的一边不会被一次收缩到 0
	candidate := maxBin
	var step Size
	if dims != Height {
		candidate.Width /= 2
		step.Width = candidate.Width / 2
	}
	if dims != Width {
		candidate.Height /= 2
		step.Height = candidate.Height / 2
	}

	// 负数表示最小步长为 1，并在该尺寸上额外重试 -discardStep 次
	retries := 0
	if discardStep <= 0 {
		retries = -discardStep
		discardStep = 1
	}

	var bestArea int64
	for ; ; step = NewSize(max(1, step.Width/2), max(1, step.Height/2)) {
		stats.iterations++
		g.reset(candidate)

		entry, ok := memo[candidate]
		if ok {
			stats.memoHits++
		} else {
			entry = fitEntry{fits: true}
			for _, rect := range rects {
				if _, placed := g.insert(rect); !placed {
					entry.fits = false
					break
				}
				entry.area += rect.Area()
			}
			memo[candidate] = entry
		}
		bestArea = max(bestArea, entry.area)
		if logger != nil {
			logger.Printf("step: %v\tbin: %v\tfits: %v\tcached: %v", step, candidate, entry.fits, ok)
		}

		if entry.fits {
			if step.MaxSide() <= discardStep {
				if retries > 0 {
					retries--
					continue
				}
				return found{bin: candidate, area: entry.area}, stats
			}
			candidate = resize(candidate, dims, NewSize(-step.Width, -step.Height))
			continue
		}

		candidate = resize(candidate, dims, step)
		if exceeds(candidate, maxBin, dims) {
			return notFound{bestArea: bestArea}, stats
		}
	}
}

// resize 在允许调整的维度上加上 delta 的对应分量，结果不小于 0
func resize(bin Size, dims Dimensions, delta Size) Size {
	if dims != Height {
		bin.Width = max(0, bin.Width+delta.Width)
	}
	if dims != Width {
		bin.Height = max(0, bin.Height+delta.Height)
	}
	return bin
}

// exceeds 判断候选 bin 是否已超出最大尺寸，只比较允许调整的维度
func exceeds(bin, maxBin Size, dims Dimensions) bool {
	switch dims {
	case Width:
		return bin.Width > maxBin.Width
	case Height:
		return bin.Height > maxBin.Height
	}
	return bin.Width > maxBin.Width || bin.Height > maxBin.Height
}
