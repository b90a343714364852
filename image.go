package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"rectipack/rectpack"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
)

// GetImageBBox 检测并裁剪图像的透明区域，返回非透明区域的边界
func GetImageBBox(img image.Image, alphaThreshold uint32) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false
	visit := func(x, y int) {
		found = true
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}
	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if uint32(src.Pix[i+3]) > alphaThreshold { // 直接访问alpha通道
					visit(x, y)
				}
				i += 4
			}
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if uint32(src.Pix[i+3]) > alphaThreshold {
					visit(x, y)
				}
				i += 4
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a>>8 > alphaThreshold { // RGBA()返回的是16bit，转换为8bit
					visit(x, y)
				}
			}
		}
	}
	if !found {
		return bounds // 图像完全透明
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func processImages(paths []string) ([]rectpack.Size, []image.Rectangle, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.ProcessImageTime += time.Since(start)
		}()
	}
	sourceRects := make([]image.Rectangle, len(paths))
	sizes := make([]rectpack.Size, len(paths))
	errs := make([]error, len(paths))
	Parallel(0, len(paths), func(i int) {
		path := paths[i]
		if options.IsTrimTransparent {
			// 完全解码图片以分析透明区域
			src, err := imaging.Open(path)
			if err != nil {
				errs[i] = fmt.Errorf("无法解码图片 %s: %w", path, err)
				return
			}
			trimRect := GetImageBBox(src, options.TransparencyThreshold)
			sizes[i] = rectpack.NewSize(trimRect.Dx(), trimRect.Dy())
			sourceRects[i] = trimRect
			return
		}
		// 只解码图片头部以获取尺寸信息
		file, err := os.Open(path)
		if err != nil {
			errs[i] = err
			return
		}
		cfg, _, err := image.DecodeConfig(file)
		file.Close()
		if err != nil {
			errs[i] = fmt.Errorf("无法解码图片 %s: %w", path, err)
			return
		}
		sizes[i] = rectpack.NewSize(cfg.Width, cfg.Height)
		sourceRects[i] = image.Rect(0, 0, cfg.Width, cfg.Height)
	})
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return sizes, sourceRects, nil
}

// readImageFiles 读取输入目录中的所有图片文件并返回它们的尺寸
func readImageFiles() ([]rectpack.Size, []string, []image.Rectangle, error) {
	if _, err := os.Stat(options.InputDir); os.IsNotExist(err) {
		return nil, nil, nil, fmt.Errorf("输入目录 %s 不存在", options.InputDir)
	}
	imagePaths, err := filepath.Glob(filepath.Join(options.InputDir, "*.png"))
	if err != nil {
		return nil, nil, nil, err
	}
	if len(imagePaths) == 0 {
		return nil, nil, nil, fmt.Errorf("输入目录 %s 中没有找到任何图片文件", options.InputDir)
	}

	// 是否按文件名排序
	if options.IsFilesSort {
		start := time.Now()
		sort.Sort(natural.StringSlice(imagePaths))
		debugInfo.FileSortTime += time.Since(start)
	}
	fmt.Printf("找到 %d 个图片文件\n", len(imagePaths))
	if options.IsTrimTransparent {
		fmt.Println("已开启透明区域裁切...")
	}
	sizes, sourceRects, err := processImages(imagePaths)
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Printf("预先处理 %d 个图片文件\n", len(sizes))
	return sizes, imagePaths, sourceRects, nil
}

// paddedSizes 在每个尺寸的四周加上 padding
func paddedSizes(sizes []rectpack.Size, padding int) []rectpack.Size {
	padded := make([]rectpack.Size, len(sizes))
	for i, size := range sizes {
		padded[i] = rectpack.NewSize(size.Width+padding*2, size.Height+padding*2)
	}
	return padded
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))
}

// CreateAtlasImage 创建图集图像，pkg 的第 i 个位置对应 imagePaths[i]
func CreateAtlasImage(pkg *rectpack.Package, imagePaths []string, sourceRects []image.Rectangle) (*image.NRGBA, map[string]SpriteInfo, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.CreateAtlasImageTime += time.Since(start)
		}()
	}
	// 获取图集所需的最终尺寸
	atlasSize := pkg.Bounds
	if options.PowerOfTwo {
		atlasSize.Width = nextPowerOfTwo(atlasSize.Width)
		atlasSize.Height = nextPowerOfTwo(atlasSize.Height)
	}
	padding := options.SpritePadding

	spriteInfoMapping := make(map[string]SpriteInfo, len(pkg.Placements))
	dstImage := imaging.New(max(1, atlasSize.Width), max(1, atlasSize.Height), color.NRGBA{0, 0, 0, 0})
	// 创建互斥锁保护对dstImage和spriteInfoMapping的并发访问
	var mu sync.Mutex
	var wg sync.WaitGroup
	errChan := make(chan error, len(pkg.Placements))
	semaphore := make(chan struct{}, runtime.NumCPU())
	for i, r := range pkg.Placements {
		wg.Add(1)
		semaphore <- struct{}{} // 获取信号量
		go func(i int, r rectpack.Rect) {
			defer wg.Done()
			defer func() { <-semaphore }() // 释放信号量
			path := imagePaths[i]
			srcImage, err := imaging.Open(path)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", path, err)
				return
			}
			origBounds := srcImage.Bounds()
			srcRect := sourceRects[i]

			spriteInfo := SpriteInfo{}
			spriteInfo.Filename = filepath.Base(path)
			spriteInfo.Region.X = r.X + padding
			spriteInfo.Region.Y = r.Y + padding
			spriteInfo.Region.W = srcRect.Dx()
			spriteInfo.Region.H = srcRect.Dy()
			spriteInfo.SourceSize.W = origBounds.Dx()
			spriteInfo.SourceSize.H = origBounds.Dy()

			// 检查是否进行了裁剪
			if srcRect.Min.X > 0 || srcRect.Min.Y > 0 ||
				srcRect.Dx() < origBounds.Dx() || srcRect.Dy() < origBounds.Dy() {
				spriteInfo.Trimmed = true
				spriteInfo.SourceRect.X = srcRect.Min.X
				spriteInfo.SourceRect.Y = srcRect.Min.Y
				spriteInfo.SourceRect.W = srcRect.Dx()
				spriteInfo.SourceRect.H = srcRect.Dy()
			}

			dstRect := image.Rect(spriteInfo.Region.X, spriteInfo.Region.Y,
				spriteInfo.Region.X+spriteInfo.Region.W, spriteInfo.Region.Y+spriteInfo.Region.H)
			mu.Lock()
			draw.Draw(dstImage, dstRect, srcImage, srcRect.Min, draw.Src)
			spriteInfoMapping[path] = spriteInfo
			mu.Unlock()
		}(i, r)
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, nil, err
		}
	}
	return dstImage, spriteInfoMapping, nil
}

// saveImage 保存 PNG 图像
func saveImage(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()
	if err := imaging.Encode(file, img, imaging.PNG); err != nil {
		return fmt.Errorf("保存图像失败: %w", err)
	}
	return nil
}
