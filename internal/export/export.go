// Package export 把打包布局导出为图集以外的文档格式，
// 包括 PDF 图纸、带二维码的标签页、电子表格和 DXF 图纸。
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"rectipack/rectpack"
)

// Item 是一个带显示名称的已放置矩形
type Item struct {
	Name string
	rectpack.Rect
}

// Layout 是与导出格式无关的打包结果
type Layout struct {
	Title      string
	RunID      string
	Heuristic  string
	Bounds     rectpack.Size
	Efficiency float64
	Items      []Item
}

// NewLayout 把 pkg 的每个位置与相同下标的名称配对，
// 缺少名称时使用 "#序号"。
func NewLayout(title, runID string, pkg *rectpack.Package, names []string) Layout {
	items := make([]Item, len(pkg.Placements))
	for i, p := range pkg.Placements {
		name := fmt.Sprintf("#%d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		items[i] = Item{Name: name, Rect: p}
	}
	return Layout{
		Title:      title,
		RunID:      runID,
		Heuristic:  pkg.Heuristic,
		Bounds:     pkg.Bounds,
		Efficiency: pkg.Efficiency(),
		Items:      items,
	}
}

// UsedArea 返回所有元素的面积之和
func (l Layout) UsedArea() int64 {
	var total int64
	for _, it := range l.Items {
		total += it.Area()
	}
	return total
}

type exporter func(path string, l Layout) error

var exporters = map[string]exporter{
	"pdf":    ExportPDF,
	"labels": ExportLabels,
	"xlsx":   ExportXLSX,
	"dxf":    ExportDXF,
}

// Formats 返回支持的导出格式名称
func Formats() []string {
	return []string{"pdf", "labels", "xlsx", "dxf"}
}

// Supported 判断是否支持该导出格式
func Supported(format string) bool {
	_, ok := exporters[strings.ToLower(format)]
	return ok
}

// Extension 返回该格式输出文件的扩展名
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "labels":
		return ".labels.pdf"
	default:
		return "." + strings.ToLower(format)
	}
}

// Export 按指定格式把 l 写入 path
func Export(format, path string, l Layout) error {
	fn, ok := exporters[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err := fn(path, l); err != nil {
		return fmt.Errorf("export %s to %s: %w", format, filepath.Base(path), err)
	}
	return nil
}
