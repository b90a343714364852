// Package render 把打包结果绘制成图片，便于直观检查布局。
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"rectipack/rectpack"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	background = color.NRGBA{0, 0, 0, 255}
	labelColor = color.NRGBA{255, 255, 255, 255}
)

// randomColor 返回随机颜色，每个通道加上最小值，保证不会是纯黑。
func randomColor(r *rand.Rand) color.NRGBA {
	return color.NRGBA{
		R: uint8(r.Intn(0xe0)) + 0x10,
		G: uint8(r.Intn(0xe0)) + 0x10,
		B: uint8(r.Intn(0xe0)) + 0x10,
		A: 255,
	}
}

// Layout 在大小为 pkg.Bounds 的黑色画布上把每个位置画成彩色方块，
// 放得下文字的方块会标注输入序号和尺寸。相同的种子总是得到相同的颜色。
func Layout(pkg *rectpack.Package, seed int64) *image.NRGBA {
	img := imaging.New(max(1, pkg.Bounds.Width), max(1, pkg.Bounds.Height), background)
	r := rand.New(rand.NewSource(seed))
	face := basicfont.Face7x13

	for i, p := range pkg.Placements {
		bounds := image.Rect(p.X, p.Y, p.Right(), p.Bottom())
		draw.Draw(img, bounds, &image.Uniform{C: randomColor(r)}, image.Point{}, draw.Src)
		drawLabel(img, face, bounds, fmt.Sprintf("%d", i), fmt.Sprintf("%dx%d", p.Width, p.Height))
	}
	return img
}

// drawLabel 在 bounds 内左上对齐写入多行文字，放不下的行跳过
func drawLabel(dst draw.Image, face *basicfont.Face, bounds image.Rectangle, lines ...string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}
	lineHeight := face.Height
	for n, line := range lines {
		top := bounds.Min.Y + n*lineHeight
		if top+lineHeight > bounds.Max.Y {
			return
		}
		if d.MeasureString(line).Ceil()+2 > bounds.Dx() {
			continue
		}
		d.Dot = fixed.P(bounds.Min.X+1, top+face.Ascent)
		d.DrawString(line)
	}
}

// Save 绘制 pkg 并以 PNG 格式写入 path
func Save(path string, pkg *rectpack.Package, seed int64) error {
	if err := imaging.Save(Layout(pkg, seed), path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
