package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"rectipack/rectpack"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

// withOptions 在测试期间替换全局选项
func withOptions(t *testing.T, o Options) {
	t.Helper()
	saved := options
	options = o
	t.Cleanup(func() { options = saved })
}

// writePNG 写入一张 w x h 的透明图片，opaque 区域填充为 c
func writePNG(t *testing.T, path string, w, h int, opaque image.Rectangle, c color.NRGBA) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{})
	draw.Draw(img, opaque, &image.Uniform{C: c}, image.Point{}, draw.Src)
	require.NoError(t, imaging.Save(img, path))
}

func TestGetImageBBox(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, image.Rect(2, 3, 6, 8), &image.Uniform{C: red}, image.Point{}, draw.Src)
	assert.Equal(t, image.Rect(2, 3, 6, 8), GetImageBBox(img, 0))

	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(9, 9, red)
	assert.Equal(t, image.Rect(9, 9, 10, 10), GetImageBBox(rgba, 0))

	// 完全透明时返回整张图
	empty := image.NewNRGBA(image.Rect(0, 0, 4, 5))
	assert.Equal(t, empty.Bounds(), GetImageBBox(empty, 0))
}

func TestGetImageBBoxThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 10})
	img.SetNRGBA(4, 5, color.NRGBA{255, 255, 255, 200})
	assert.Equal(t, image.Rect(1, 1, 5, 6), GetImageBBox(img, 0))
	assert.Equal(t, image.Rect(4, 5, 5, 6), GetImageBBox(img, 50))
}

func TestGetImageBBoxGeneric(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	assert.Equal(t, gray.Bounds(), GetImageBBox(gray, 0))
}

func TestPaddedSizes(t *testing.T) {
	sizes := []rectpack.Size{{Width: 1, Height: 2}, {Width: 0, Height: 0}}
	assert.Equal(t, []rectpack.Size{{Width: 5, Height: 6}, {Width: 4, Height: 4}}, paddedSizes(sizes, 2))
	assert.Equal(t, sizes, paddedSizes(sizes, 0))
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024, 1024: 1024}
	for in, want := range cases {
		assert.Equal(t, want, nextPowerOfTwo(in), "nextPowerOfTwo(%d)", in)
	}
}

func TestParallel(t *testing.T) {
	for _, n := range []int{0, 3, 1000} {
		var calls atomic.Int64
		seen := make([]int32, n)
		Parallel(0, n, func(i int) {
			calls.Add(1)
			atomic.AddInt32(&seen[i], 1)
		})
		assert.Equal(t, int64(n), calls.Load())
		for i, c := range seen {
			assert.Equal(t, int32(1), c, "index %d", i)
		}
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"pdf", "xlsx"}, splitList(" PDF, ,xlsx"))
	assert.Nil(t, splitList(""))
}

func TestExtractSprite(t *testing.T) {
	atlas := imaging.New(20, 20, color.NRGBA{})
	draw.Draw(atlas, image.Rect(10, 4, 13, 6), &image.Uniform{C: red}, image.Point{}, draw.Src)

	var sprite SpriteInfo
	sprite.Region.X, sprite.Region.Y, sprite.Region.W, sprite.Region.H = 10, 4, 3, 2
	plain := extractSprite(atlas, sprite)
	assert.Equal(t, image.Rect(0, 0, 3, 2), plain.Bounds())
	assert.Equal(t, red, plain.NRGBAAt(0, 0))

	sprite.Trimmed = true
	sprite.SourceSize.W, sprite.SourceSize.H = 8, 6
	sprite.SourceRect.X, sprite.SourceRect.Y, sprite.SourceRect.W, sprite.SourceRect.H = 2, 1, 3, 2
	restored := extractSprite(atlas, sprite)
	assert.Equal(t, image.Rect(0, 0, 8, 6), restored.Bounds())
	assert.Equal(t, red, restored.NRGBAAt(2, 1))
	assert.Equal(t, red, restored.NRGBAAt(4, 2))
	assert.Equal(t, uint8(0), restored.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), restored.NRGBAAt(5, 1).A)
}

func TestGenerateAtlasJSON(t *testing.T) {
	dir := t.TempDir()
	var a, b SpriteInfo
	a.Filename = "a.png"
	a.Region.X, a.Region.Y, a.Region.W, a.Region.H = 0, 0, 4, 3
	b.Filename = "b.png"
	b.Region.X, b.Region.Y, b.Region.W, b.Region.H = 4, 1, 2, 5

	jsonPath := filepath.Join(dir, "atlas.json")
	infos := map[string]SpriteInfo{"/in/a.png": a, "/in/b.png": b}
	require.NoError(t, generateAtlasJSON(infos, filepath.Join(dir, "atlas.png"), "area", "run-1", jsonPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var atlas AtlasData
	require.NoError(t, json.Unmarshal(data, &atlas))
	assert.Equal(t, VERSION, atlas.Meta.Version)
	assert.Equal(t, "run-1", atlas.Meta.ID)
	assert.Equal(t, "area", atlas.Meta.Heuristic)
	assert.Equal(t, "atlas.png", atlas.AtlasName)
	assert.Equal(t, 6, atlas.TotalSize.W)
	assert.Equal(t, 6, atlas.TotalSize.H)
	assert.Equal(t, a, atlas.SpriteList["a.png"])
	assert.Equal(t, b, atlas.SpriteList["b.png"])
}

func TestAtlasRoundTrip(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(in, "sprite2.png"), 6, 4, image.Rect(0, 0, 6, 4), red)
	// 四周有透明边的图片
	writePNG(t, filepath.Join(in, "sprite10.png"), 8, 8, image.Rect(2, 3, 5, 7), blue)
	withOptions(t, Options{
		InputDir:          in,
		OutputDir:         out,
		SpritePadding:     1,
		IsTrimTransparent: true,
		IsFilesSort:       true,
	})

	sizes, paths, sourceRects, err := readImageFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"sprite2.png", "sprite10.png"}, []string{filepath.Base(paths[0]), filepath.Base(paths[1])})
	assert.Equal(t, []rectpack.Size{{Width: 6, Height: 4}, {Width: 3, Height: 4}}, sizes)
	assert.Equal(t, image.Rect(2, 3, 5, 7), sourceRects[1])

	padded := paddedSizes(sizes, 1)
	pkg, err := rectpack.Pack(padded)
	require.NoError(t, err)
	require.NoError(t, pkg.Validate(padded))

	atlasImg, infos, err := CreateAtlasImage(pkg, paths, sourceRects)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	first := infos[paths[0]]
	assert.Equal(t, pkg.Placements[0].X+1, first.Region.X)
	assert.False(t, first.Trimmed)
	assert.Equal(t, red, atlasImg.NRGBAAt(first.Region.X, first.Region.Y))

	second := infos[paths[1]]
	assert.True(t, second.Trimmed)
	assert.Equal(t, 8, second.SourceSize.W)
	assert.Equal(t, 2, second.SourceRect.X)
	assert.Equal(t, blue, atlasImg.NRGBAAt(second.Region.X+second.Region.W-1, second.Region.Y+second.Region.H-1))

	atlasPath := filepath.Join(out, "atlas.png")
	jsonPath := filepath.Join(out, "atlas.json")
	require.NoError(t, saveImage(atlasPath, atlasImg))
	require.NoError(t, generateAtlasJSON(infos, atlasPath, pkg.Heuristic, "run", jsonPath))

	// 解包并与原图比较
	restoreDir := t.TempDir()
	options.UnpackPath = jsonPath
	options.OutputDir = restoreDir
	require.NoError(t, unpack())
	for _, path := range paths {
		orig, err := imaging.Open(path)
		require.NoError(t, err)
		restored, err := imaging.Open(filepath.Join(restoreDir, filepath.Base(path)))
		require.NoError(t, err)
		assert.Equal(t, imaging.Clone(orig).Pix, imaging.Clone(restored).Pix, filepath.Base(path))
	}
}

func TestUnpackRejectsPathNames(t *testing.T) {
	dir := t.TempDir()
	atlasPath := filepath.Join(dir, "atlas.png")
	require.NoError(t, imaging.Save(imaging.New(4, 4, red), atlasPath))

	for _, name := range []string{"../escape.png", "sub/inner.png", "..", ""} {
		var atlas AtlasData
		atlas.AtlasName = "atlas.png"
		var sprite SpriteInfo
		sprite.Region.W, sprite.Region.H = 2, 2
		atlas.SpriteList = map[string]SpriteInfo{"ok.png": sprite, name: sprite}
		data, err := json.Marshal(atlas)
		require.NoError(t, err)
		jsonPath := filepath.Join(dir, "atlas.json")
		require.NoError(t, os.WriteFile(jsonPath, data, 0644))

		out := filepath.Join(dir, "out")
		withOptions(t, Options{UnpackPath: jsonPath, OutputDir: out})
		err = unpack()
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "非法的精灵名称")

		_, statErr := os.Stat(filepath.Join(dir, "escape.png"))
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(filepath.Join(out, "ok.png"))
		assert.True(t, os.IsNotExist(statErr), "nothing is written when a name is rejected")
	}
}

func TestReadImageFilesMissingDir(t *testing.T) {
	withOptions(t, Options{InputDir: filepath.Join(t.TempDir(), "missing")})
	_, _, _, err := readImageFiles()
	assert.Error(t, err)
}

func TestRandomSizes(t *testing.T) {
	sizes := randomSizes(rand.New(rand.NewSource(1)), 500, 3, 9)
	require.Len(t, sizes, 500)
	for _, s := range sizes {
		assert.True(t, s.Width >= 3 && s.Width < 9, "width %d", s.Width)
		assert.True(t, s.Height >= 3 && s.Height < 9, "height %d", s.Height)
	}
	assert.Equal(t, sizes, randomSizes(rand.New(rand.NewSource(1)), 500, 3, 9))
	assert.Equal(t, int64(12), totalArea([]rectpack.Size{{Width: 2, Height: 3}, {Width: 3, Height: 2}}))
}

func TestSummarizeDurations(t *testing.T) {
	assert.Equal(t, "打包耗时: 1.500 ms\n", summarizeDurations([]float64{1.5}))

	summary := summarizeDurations([]float64{4, 1, 3, 2})
	assert.Contains(t, summary, "(4 次)")
	assert.Contains(t, summary, "平均 2.500 ms")
	assert.Contains(t, summary, "最快 1.000 ms")
	assert.Contains(t, summary, "最慢 4.000 ms")
}

func TestRunBaseline(t *testing.T) {
	sizes := randomSizes(rand.New(rand.NewSource(7)), 50, 4, 40)
	report := runBaseline(sizes)
	assert.True(t, strings.HasPrefix(report, "azul3d binpack: "), report)
	assert.Contains(t, report, "空间利用率")
}

func TestNewPacker(t *testing.T) {
	o := Options{
		MaxBinSize:  64,
		DiscardStep: 4,
		Heuristics:  rectpack.DefaultHeuristics(),
		Dimensions:  rectpack.Width,
	}
	packer := newPacker(&o)
	assert.Equal(t, rectpack.NewSize(64, 64), packer.MaxBin())

	o.MaxBinSize = 0
	assert.Equal(t, rectpack.NewSize(rectpack.Unbounded, rectpack.Unbounded), newPacker(&o).MaxBin())
}
