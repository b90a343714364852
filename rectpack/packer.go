package rectpack

import (
	"log"
	"math"
	"slices"
)

const (
	// Unbounded 是未指定最大尺寸时使用的最大边长
	Unbounded = math.MaxInt32

	// DefaultDiscardStep 是默认的丢弃步长：最小步长为 1，并在最终尺寸上额外重试一次。
	// 正数越小结果越紧凑，耗时越长。
	DefaultDiscardStep = -1
)

// Packer 保存打包配置。Packer 本身不保存打包过程中的状态，
// 每次 Pack 调用都使用自己的网格和缓存，因此可以在多个 goroutine 中同时使用。
type Packer struct {
	// maxBin 是允许的最大 bin 尺寸
	//
	// 默认值：Unbounded x Unbounded
	maxBin Size

	// discardStep 控制尺寸搜索的精度
	//
	// 默认值：DefaultDiscardStep
	discardStep int

	// heuristics 是依次尝试的排序策略
	//
	// 默认值：DefaultHeuristics()
	heuristics []Heuristic

	// adjustable 是允许调整的维度
	//
	// 默认值：Both
	adjustable Dimensions

	// logger 不为 nil 时输出搜索过程
	logger *log.Logger
}

// Attempt 记录一种启发式的尝试结果，主要用于调试和统计
type Attempt struct {
	Heuristic  string `json:"heuristic"`
	Found      bool   `json:"found"`
	Bin        Size   `json:"bin"`
	Area       int64  `json:"area"`
	Iterations int    `json:"iterations"`
	MemoHits   int    `json:"memoHits"`
}

// Package 是打包结果
type Package struct {
	// Bounds 是包含所有矩形的最小区域，可能比搜索得到的候选 bin 更小
	Bounds Size `json:"bounds"`
	// Placements 与输入顺序一一对应，第 i 个元素就是第 i 个输入矩形的位置
	Placements []Rect `json:"placements"`
	// Heuristic 是得到此结果的排序策略名字
	Heuristic string `json:"heuristic"`
	// Attempts 按尝试顺序记录每种启发式的结果
	Attempts []Attempt `json:"attempts,omitempty"`
}

// UsedArea 返回所有矩形的面积之和
func (p *Package) UsedArea() int64 {
	var total int64
	for _, r := range p.Placements {
		total += r.Area()
	}
	return total
}

// Efficiency 返回空间利用率(0.0-1.0)，空结果返回 0
func (p *Package) Efficiency() float64 {
	area := p.Bounds.Area()
	if area == 0 {
		return 0
	}
	return float64(p.UsedArea()) / float64(area)
}

// NewPacker 创建使用默认配置的包装器
// 默认配置:
//   - 最大尺寸: Unbounded
//   - 丢弃步长: DefaultDiscardStep
//   - 启发式: DefaultHeuristics()
//   - 可调整维度: Both
func NewPacker() *Packer {
	return &Packer{
		maxBin:      NewSize(Unbounded, Unbounded),
		discardStep: DefaultDiscardStep,
		heuristics:  DefaultHeuristics(),
		adjustable:  Both,
	}
}

// SetMaxBinSize 设置正方形最大 bin 的边长，小于等于 0 表示不限制
func (p *Packer) SetMaxBinSize(size int) {
	p.SetMaxBin(size, size)
}

// SetMaxBin 设置最大 bin 的宽和高，小于等于 0 的边表示不限制
func (p *Packer) SetMaxBin(width, height int) {
	if width <= 0 || width > Unbounded {
		width = Unbounded
	}
	if height <= 0 || height > Unbounded {
		height = Unbounded
	}
	p.maxBin = NewSize(width, height)
}

// MaxBin 返回最大 bin 尺寸
func (p *Packer) MaxBin() Size {
	return p.maxBin
}

// SetDiscardStep 设置尺寸搜索的丢弃步长
// 参数:
//
//	step - 正数: 步长小于等于它时接受当前尺寸
//	       0 或负数: 步长降到 1 为止，并在该尺寸上额外重试 -step 次
func (p *Packer) SetDiscardStep(step int) {
	p.discardStep = step
}

// SetHeuristics 设置依次尝试的排序策略
func (p *Packer) SetHeuristics(heuristics ...Heuristic) {
	p.heuristics = slices.Clone(heuristics)
}

// SetAdjustable 设置搜索时允许调整的维度
func (p *Packer) SetAdjustable(dims Dimensions) {
	p.adjustable = dims
}

// SetLogger 设置调试日志，nil 表示关闭
func (p *Packer) SetLogger(logger *log.Logger) {
	p.logger = logger
}

// Pack 使用默认配置打包
func Pack(rects []Size) (*Package, error) {
	return NewPacker().Pack(rects)
}

// Pack 计算能放下全部矩形的最小区域，以及每个矩形的位置。
// 输入切片不会被修改。所有启发式都失败时返回 *NoPackingError。
func (p *Packer) Pack(rects []Size) (*Package, error) {
	for i, r := range rects {
		if r.Width < 0 || r.Height < 0 {
			return nil, wrapErr("rect %d is %v", ErrInvalidSize, i, r)
		}
	}
	if len(p.heuristics) == 0 {
		return nil, ErrNoHeuristics
	}

	g := newGrid()
	attempts := make([]Attempt, 0, len(p.heuristics))
	var (
		bestBin       Size
		bestHeuristic = -1
		bestFailed    int64
	)

	// 对每种排序分别尝试，记录表现最好的一种
	for i, h := range p.heuristics {
		if p.logger != nil {
			p.logger.Printf("attempting %s", h.Name)
		}
		sorted, _ := sortWithIndices(rects, h.Compare)
		result, stats := findBestPacking(sorted, g, p.maxBin, p.discardStep, p.adjustable, p.logger)

		attempt := Attempt{Heuristic: h.Name, Iterations: stats.iterations, MemoHits: stats.memoHits}
		switch r := result.(type) {
		case found:
			attempt.Found = true
			attempt.Bin = r.bin
			attempt.Area = r.area
			if bestHeuristic < 0 || r.bin.Area() < bestBin.Area() {
				bestBin = r.bin
				bestHeuristic = i
			}
		case notFound:
			attempt.Area = r.bestArea
			bestFailed = max(bestFailed, r.bestArea)
		}
		attempts = append(attempts, attempt)
	}

	if bestHeuristic < 0 {
		if p.logger != nil {
			p.logger.Printf("failed to pack rectangles, best attempt filled %d square units", bestFailed)
		}
		return nil, &NoPackingError{BestArea: bestFailed}
	}

	// 按胜出的排序重新插入一遍，并把位置写回原始下标
	winner := p.heuristics[bestHeuristic]
	sorted, indices := sortWithIndices(rects, winner.Compare)
	g.reset(bestBin)
	placements := make([]Rect, len(rects))
	for i, r := range sorted {
		placed, ok := g.insert(r)
		if !ok {
			fmtPanic("failed to reassemble rect %d (%v) into %v with %s", indices[i], r, bestBin, winner.Name)
		}
		placements[indices[i]] = placed
	}

	return &Package{
		Bounds:     g.spanning(),
		Placements: placements,
		Heuristic:  winner.Name,
		Attempts:   attempts,
	}, nil
}

// sortWithIndices 复制 rects 并按 compare 排序，同时返回每个位置对应的原始下标。
// 使用稳定排序，相同输入总是得到相同顺序。
func sortWithIndices(rects []Size, compare SortFunc) ([]Size, []int) {
	indices := make([]int, len(rects))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		return compare(rects[a], rects[b])
	})
	sorted := make([]Size, len(rects))
	for i, idx := range indices {
		sorted[i] = rects[idx]
	}
	return sorted, indices
}
