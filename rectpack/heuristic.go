package rectpack

import (
	"strings"
)

// Heuristic 是一种带名字的矩形排序策略。Pack 会依次尝试每种排序，
// 并在结果中报告胜出的那一种。
type Heuristic struct {
	Name    string
	Compare SortFunc
}

// 内置启发式的名字
const (
	HeuristicArea      = "area"
	HeuristicPerimeter = "perimeter"
	HeuristicMaxSide   = "maxside"
	HeuristicWidth     = "width"
	HeuristicHeight    = "height"
	HeuristicMinSide   = "minside"
	HeuristicDiff      = "diff"
	HeuristicRatio     = "ratio"
)

// DefaultHeuristics 返回默认的排序尝试顺序：面积、周长、最长边、宽度、高度，全部降序。
// 每次调用都返回新的切片，调用方可以随意修改。
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		{Name: HeuristicArea, Compare: SortArea},
		{Name: HeuristicPerimeter, Compare: SortPerimeter},
		{Name: HeuristicMaxSide, Compare: SortMaxSide},
		{Name: HeuristicWidth, Compare: SortWidth},
		{Name: HeuristicHeight, Compare: SortHeight},
	}
}

// ResolveHeuristic 根据名字返回内置启发式（不区分大小写）。
func ResolveHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case HeuristicArea:
		return Heuristic{Name: HeuristicArea, Compare: SortArea}, nil
	case HeuristicPerimeter:
		return Heuristic{Name: HeuristicPerimeter, Compare: SortPerimeter}, nil
	case HeuristicMaxSide, "biggerside":
		return Heuristic{Name: HeuristicMaxSide, Compare: SortMaxSide}, nil
	case HeuristicWidth:
		return Heuristic{Name: HeuristicWidth, Compare: SortWidth}, nil
	case HeuristicHeight:
		return Heuristic{Name: HeuristicHeight, Compare: SortHeight}, nil
	case HeuristicMinSide:
		return Heuristic{Name: HeuristicMinSide, Compare: SortMinSide}, nil
	case HeuristicDiff:
		return Heuristic{Name: HeuristicDiff, Compare: SortDiff}, nil
	case HeuristicRatio:
		return Heuristic{Name: HeuristicRatio, Compare: SortRatio}, nil
	}
	return Heuristic{}, fmtErr("unknown heuristic %q", name)
}

// ParseHeuristics 解析逗号分隔的启发式名字列表，例如 "area,width"。
// 空字符串返回默认列表。
func ParseHeuristics(list string) ([]Heuristic, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultHeuristics(), nil
	}
	var result []Heuristic
	for _, name := range strings.Split(list, ",") {
		h, err := ResolveHeuristic(name)
		if err != nil {
			return nil, wrapErr("parse heuristics %q", err, list)
		}
		result = append(result, h)
	}
	return result, nil
}
