package main

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"

	"rectipack/rectpack"

	"azul3d.org/engine/binpack"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// randomSizes 生成 count 个边长在 [minSide, maxSide) 之间的随机尺寸
func randomSizes(r *rand.Rand, count, minSide, maxSide int) []rectpack.Size {
	sizes := make([]rectpack.Size, count)
	for i := range sizes {
		sizes[i] = rectpack.NewSize(r.Intn(maxSide-minSide)+minSide, r.Intn(maxSide-minSide)+minSide)
	}
	return sizes
}

func totalArea(sizes []rectpack.Size) int64 {
	var total int64
	for _, s := range sizes {
		total += s.Area()
	}
	return total
}

// runDemo 打包随机生成的矩形并统计耗时
func runDemo(packer *rectpack.Packer, runID string) error {
	r := rand.New(rand.NewSource(options.Seed))
	sizes := randomSizes(r, options.Count, options.MinSide, options.MaxSide)
	fmt.Printf("随机生成 %d 个矩形 (种子 %d)\n", len(sizes), options.Seed)

	var pkg *rectpack.Package
	durations := make([]float64, options.Runs)
	for i := range durations {
		start := time.Now()
		p, err := packing(packer, sizes)
		if err != nil {
			return err
		}
		durations[i] = float64(time.Since(start).Microseconds()) / 1000
		pkg = p
	}
	outputResult(pkg)
	fmt.Print(summarizeDurations(durations))

	if options.Baseline {
		fmt.Print(runBaseline(sizes))
	}

	names := make([]string, len(sizes))
	for i := range names {
		names[i] = fmt.Sprintf("#%d", i)
	}
	return writeLayoutOutputs(pkg, names, "random", runID)
}

// summarizeDurations 返回多次打包耗时(毫秒)的统计信息
func summarizeDurations(durations []float64) string {
	if len(durations) == 1 {
		return fmt.Sprintf("打包耗时: %.3f ms\n", durations[0])
	}
	sorted := slices.Clone(durations)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return fmt.Sprintf("打包耗时(%d 次): 平均 %.3f ms, 标准差 %.3f ms, 中位数 %.3f ms, 最快 %.3f ms, 最慢 %.3f ms\n",
		len(durations), mean, std, median, floats.Min(sorted), floats.Max(sorted))
}

// baselineSet 让 azul3d binpack 打包同一组尺寸
type baselineSet struct {
	sizes  []rectpack.Size
	placed []rectpack.Point
}

func (b *baselineSet) Len() int {
	return len(b.sizes)
}

func (b *baselineSet) Size(n int) (w, h int) {
	return b.sizes[n].Width, b.sizes[n].Height
}

func (b *baselineSet) Place(n, x, y int) {
	b.placed[n] = rectpack.NewPoint(x, y)
}

// runBaseline 使用 azul3d binpack 打包相同的矩形，用于对比
func runBaseline(sizes []rectpack.Size) string {
	set := &baselineSet{
		sizes:  slices.Clone(sizes),
		placed: make([]rectpack.Point, len(sizes)),
	}
	// binpack 需要按最长边降序输入
	slices.SortStableFunc(set.sizes, rectpack.SortMaxSide)
	start := time.Now()
	w, h := binpack.Pack(set)
	elapsed := time.Since(start)
	if w < 0 || h < 0 {
		return fmt.Sprintf("azul3d binpack: 打包失败 (%v)\n", elapsed)
	}
	bounds := rectpack.NewSize(w, h)
	efficiency := 0.0
	if bounds.Area() > 0 {
		efficiency = float64(totalArea(sizes)) / float64(bounds.Area())
	}
	return fmt.Sprintf("azul3d binpack: %v, 空间利用率 %.2f%%, 耗时 %v\n", bounds, efficiency*100, elapsed)
}
