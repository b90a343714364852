package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
)

// itemColor 是已放置元素的 RGB 填充色
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // 绿
	{R: 33, G: 150, B: 243}, // 蓝
	{R: 255, G: 152, B: 0},  // 橙
	{R: 156, G: 39, B: 176}, // 紫
	{R: 0, G: 188, B: 212},  // 青
	{R: 244, G: 67, B: 54},  // 红
	{R: 255, G: 235, B: 59}, // 黄
	{R: 121, G: 85, B: 72},  // 棕
}

// 页面排版常量(A4 横向，单位毫米)
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 6.0
	drawAreaTop  = marginTop + headerHeight + statsHeight + 4.0
)

// ExportPDF 在一页 A4 横向纸上按比例绘制布局，
// 页眉包含标题、运行 ID 和打包统计。
func ExportPDF(path string, l Layout) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(l.Title, false)
	pdf.AddPage()

	renderHeader(pdf, l)
	renderLayout(pdf, l)

	return pdf.OutputFileAndClose(path)
}

func renderHeader(pdf *fpdf.Fpdf, l Layout) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d)", l.Title, l.Bounds.Width, l.Bounds.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Run: %s | Heuristic: %s | Items: %d | Used area: %d | Efficiency: %.1f%%",
		l.RunID, l.Heuristic, len(l.Items), l.UsedArea(), l.Efficiency*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, statsHeight, stats, "", 0, "L", false, 0, "")
}

func renderLayout(pdf *fpdf.Fpdf, l Layout) {
	if l.Bounds.IsEmpty() {
		return
	}
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	// 按比例缩放到绘图区域内
	scale := math.Min(drawWidth/float64(l.Bounds.Width), drawHeight/float64(l.Bounds.Height))
	canvasW := float64(l.Bounds.Width) * scale
	canvasH := float64(l.Bounds.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, it := range l.Items {
		col := itemColors[i%len(itemColors)]
		px := offsetX + float64(it.X)*scale
		py := offsetY + float64(it.Y)*scale
		pw := float64(it.Width) * scale
		ph := float64(it.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		// 矩形足够大时才标注名称
		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			if w := pdf.GetStringWidth(it.Name); w < pw-2 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-2)
				pdf.CellFormat(w, 4, it.Name, "", 0, "C", false, 0, "")
			}
		}
	}
}

// labelFontSize 选择适合该矩形的字号
func labelFontSize(w, h float64) float64 {
	size := math.Min(w/6, h/2.5)
	return math.Max(4, math.Min(size, 9))
}
