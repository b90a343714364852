package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/exp/maps"
)

// Parallel 把 [start, end) 分批交给多个 goroutine 执行 fn
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := max(1, (end-start)/numGoroutines)
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// unpack 按图集JSON把图集拆分回单独的图片
func unpack() error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			fmt.Printf("解包耗时: %s\n", time.Since(start))
		}()
	}
	if options.UnpackPath == "" {
		return fmt.Errorf("未指定解包路径")
	}

	jsonData, err := os.ReadFile(options.UnpackPath)
	if err != nil {
		return fmt.Errorf("读取图集JSON文件失败: %w", err)
	}
	var atlasData AtlasData
	if err := json.Unmarshal(jsonData, &atlasData); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}

	outputDir := options.OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	atlasImagePath := filepath.Join(filepath.Dir(options.UnpackPath), atlasData.AtlasName)
	atlasImg, err := imaging.Open(atlasImagePath)
	if err != nil {
		return fmt.Errorf("打开图集图片失败: %w", err)
	}

	// 按名称顺序输出，保证多次解包结果一致
	names := maps.Keys(atlasData.SpriteList)
	slices.Sort(names)
	for _, name := range names {
		// 精灵名只能是文件名，不能带目录
		if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
			return fmt.Errorf("非法的精灵名称: %q", name)
		}
	}
	for _, name := range names {
		subImg := extractSprite(atlasImg, atlasData.SpriteList[name])
		outputPath := filepath.Join(outputDir, name)
		if err := saveImage(outputPath, subImg); err != nil {
			return err
		}
	}
	fmt.Printf("图集解包完成，输出到: %s\n", outputDir)
	return nil
}

// extractSprite 从图集中取出一个精灵，裁剪过的精灵会还原到原始尺寸
func extractSprite(atlasImg image.Image, sprite SpriteInfo) *image.NRGBA {
	region := image.Rect(sprite.Region.X, sprite.Region.Y,
		sprite.Region.X+sprite.Region.W, sprite.Region.Y+sprite.Region.H)
	subImg := imaging.Crop(atlasImg, region)
	if !sprite.Trimmed {
		return subImg
	}
	finalImg := imaging.New(sprite.SourceSize.W, sprite.SourceSize.H, color.NRGBA{0, 0, 0, 0})
	dst := image.Rect(sprite.SourceRect.X, sprite.SourceRect.Y,
		sprite.SourceRect.X+sprite.Region.W, sprite.SourceRect.Y+sprite.Region.H)
	draw.Draw(finalImg, dst, subImg, image.Point{}, draw.Src)
	return finalImg
}
