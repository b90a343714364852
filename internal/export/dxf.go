package export

import (
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

const (
	boundsLayer = "BOUNDS"
	itemsLayer  = "ITEMS"
	labelsLayer = "LABELS"
)

// ExportDXF 把边界和每个元素写成由 LINE 组成的闭合轮廓，元素名称写成 TEXT。
// Y 轴翻转，使 CAD 中看到的方向与图集一致。
func ExportDXF(path string, l Layout) error {
	d := dxf.NewDrawing()

	flip := func(y int) float64 {
		return float64(l.Bounds.Height - y)
	}
	outline := func(x, y, w, h int) error {
		x0, x1 := float64(x), float64(x+w)
		y0, y1 := flip(y), flip(y+h)
		corners := [][4]float64{
			{x0, y0, x1, y0},
			{x1, y0, x1, y1},
			{x1, y1, x0, y1},
			{x0, y1, x0, y0},
		}
		for _, c := range corners {
			if _, err := d.Line(c[0], c[1], 0, c[2], c[3], 0); err != nil {
				return err
			}
		}
		return nil
	}

	d.AddLayer(boundsLayer, color.Red, dxf.DefaultLineType, true)
	if err := outline(0, 0, l.Bounds.Width, l.Bounds.Height); err != nil {
		return err
	}

	d.AddLayer(itemsLayer, dxf.DefaultColor, dxf.DefaultLineType, true)
	for _, it := range l.Items {
		if err := outline(it.X, it.Y, it.Width, it.Height); err != nil {
			return err
		}
	}

	d.AddLayer(labelsLayer, color.Cyan, dxf.DefaultLineType, true)
	for _, it := range l.Items {
		height := float64(min(it.Width, it.Height)) / 4
		if height <= 0 {
			continue
		}
		if _, err := d.Text(it.Name, float64(it.X)+1, flip(it.Bottom())+1, 0, height); err != nil {
			return err
		}
	}

	return d.SaveAs(path)
}
