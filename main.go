package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rectipack/internal/export"
	"rectipack/internal/render"
	"rectipack/rectpack"

	"github.com/google/uuid"
)

const (
	VERSION = "0.2.0"
)

var (
	options   Options
	debugInfo = DebugInfo{IsDebug: true}
)

type DebugInfo struct {
	IsDebug              bool
	TotalTime            time.Duration
	PackTime             time.Duration
	FileSortTime         time.Duration
	ProcessImageTime     time.Duration
	CreateAtlasImageTime time.Duration
	CreateJsonTime       time.Duration
}

type Options struct {
	UnpackPath            string               // 解包路径
	InputDir              string               // 输入目录
	OutputDir             string               // 输出目录
	MaxBinSize            int                  // 最大边长，0 表示不限制
	DiscardStep           int                  // 丢弃步长
	Heuristics            []rectpack.Heuristic // 依次尝试的排序
	Dimensions            rectpack.Dimensions  // 可调整的维度
	IsFilesSort           bool                 // 是否按文件名排序
	SpritePadding         int                  // 填充
	IsTrimTransparent     bool                 // 是否修剪透明部分
	TransparencyThreshold uint32               //透明度阈值
	PowerOfTwo            bool                 //是否使用2的幂
	Count                 int                  // 随机矩形数量
	MinSide               int                  // 随机矩形最小边长
	MaxSide               int                  // 随机矩形最大边长(不含)
	Seed                  int64                // 随机种子
	Runs                  int                  // 重复打包次数
	Baseline              bool                 // 是否与 azul3d binpack 对比
	Render                bool                 // 是否输出布局预览图
	Exports               []string             // 导出格式
	Verify                bool                 // 是否校验结果
	Verbose               bool                 // 输出搜索日志
}

// SpriteInfo 存储精灵图的信息
type SpriteInfo struct {
	Filename string `json:"filename"`
	Region   struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"region"`
	SourceSize struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
	SourceRect struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceRect,omitempty"`
	Trimmed bool `json:"trimmed"`
}

// AtlasData 存储图集的信息
type AtlasData struct {
	Meta struct {
		Version   string `json:"version"`
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		Heuristic string `json:"heuristic"`
	} `json:"meta"`
	AtlasName  string                `json:"atlasName"`
	SpriteList map[string]SpriteInfo `json:"spriteList"`
	TotalSize  struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"totalSize"`
}

// generateAtlasJSON 生成图集的JSON元数据
func generateAtlasJSON(spriteInfos map[string]SpriteInfo, atlasImagePath, heuristic, runID, outputPath string) error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.CreateJsonTime = time.Since(start)
		}()
	}
	var atlasData AtlasData
	atlasData.Meta.Version = VERSION
	atlasData.Meta.ID = runID
	atlasData.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	atlasData.Meta.Heuristic = heuristic
	atlasData.AtlasName = filepath.Base(atlasImagePath)
	atlasData.SpriteList = make(map[string]SpriteInfo, len(spriteInfos))

	// 计算图集的总尺寸
	var maxWidth, maxHeight int
	for _, spriteInfo := range spriteInfos {
		maxWidth = max(maxWidth, spriteInfo.Region.X+spriteInfo.Region.W)
		maxHeight = max(maxHeight, spriteInfo.Region.Y+spriteInfo.Region.H)
		atlasData.SpriteList[spriteInfo.Filename] = spriteInfo
	}
	atlasData.TotalSize.W = maxWidth
	atlasData.TotalSize.H = maxHeight

	jsonData, err := json.MarshalIndent(atlasData, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, jsonData, 0644)
}

// outputResult 输出打包结果
func outputResult(pkg *rectpack.Package) {
	fmt.Printf("打包区域大小: %v\n", pkg.Bounds)
	fmt.Printf("空间利用率: %.2f%%\n", pkg.Efficiency()*100)
	fmt.Printf("已打包矩形数量: %d\n", len(pkg.Placements))
	fmt.Printf("使用的排序: %s\n", pkg.Heuristic)
	for _, a := range pkg.Attempts {
		if a.Found {
			fmt.Printf("  %-10s bin=%-12v 迭代=%d 缓存命中=%d\n", a.Heuristic, a.Bin, a.Iterations, a.MemoHits)
		} else {
			fmt.Printf("  %-10s 失败 最多填充=%d\n", a.Heuristic, a.Area)
		}
	}
	fmt.Println()
}

// newPacker 根据命令行参数创建打包器
func newPacker(options *Options) *rectpack.Packer {
	packer := rectpack.NewPacker()
	packer.SetMaxBinSize(options.MaxBinSize)
	packer.SetDiscardStep(options.DiscardStep)
	packer.SetHeuristics(options.Heuristics...)
	packer.SetAdjustable(options.Dimensions)
	if options.Verbose {
		packer.SetLogger(log.New(os.Stderr, "rectpack ", log.Lmicroseconds))
	}
	return packer
}

func packing(packer *rectpack.Packer, sizes []rectpack.Size) (*rectpack.Package, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.PackTime += time.Since(start)
		}()
	}
	pkg, err := packer.Pack(sizes)
	if err != nil {
		var noPacking *rectpack.NoPackingError
		if errors.As(err, &noPacking) {
			fmt.Printf("警告: 无法在最大尺寸内打包全部矩形, 最多填充面积 %d\n", noPacking.BestArea)
		}
		return nil, err
	}
	if options.Verify {
		if err := pkg.Validate(sizes); err != nil {
			return nil, fmt.Errorf("结果校验失败: %w", err)
		}
		fmt.Println("结果校验通过")
	}
	return pkg, nil
}

// writeLayoutOutputs 输出布局预览图和导出文件
func writeLayoutOutputs(pkg *rectpack.Package, names []string, title, runID string) error {
	if options.Render {
		path := filepath.Join(options.OutputDir, "layout.png")
		if err := render.Save(path, pkg, options.Seed); err != nil {
			return fmt.Errorf("生成布局预览失败: %w", err)
		}
		fmt.Printf("- 布局预览: %s\n", path)
	}
	if len(options.Exports) == 0 {
		return nil
	}
	layout := export.NewLayout(title, runID, pkg, names)
	for _, format := range options.Exports {
		path := filepath.Join(options.OutputDir, "layout"+export.Extension(format))
		if err := export.Export(format, path, layout); err != nil {
			return err
		}
		fmt.Printf("- 导出: %s\n", path)
	}
	return nil
}

func splitList(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(strings.ToLower(item)); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func flagArgs() error {
	// 定义命令行参数
	unpackPath := flag.String("unpack", "", "解包路径(图集JSON)")
	inputDirPtr := flag.String("input", "", "输入目录, 为空时使用随机矩形演示")
	outputDirPtr := flag.String("output", "output", "输出目录")
	maxBinPtr := flag.Int("maxbin", 0, "最大边长, 0 表示不限制")
	discardPtr := flag.Int("discard", rectpack.DefaultDiscardStep, "丢弃步长, 越小结果越紧凑; 负数表示步长为1并额外重试")
	heuristicsPtr := flag.String("heuristics", "", "依次尝试的排序(area,perimeter,maxside,width,height,minside,diff,ratio)")
	dimsPtr := flag.String("dims", "both", "可调整的维度(both, width, height)")
	paddingPtr := flag.Int("padding", 0, "填充")
	trimPtr := flag.Bool("trim", true, "修剪透明部分")
	thresholdPtr := flag.Uint("threshold", 0, "透明度阈值")
	sortPtr := flag.Bool("sort", true, "按文件名排序")
	powOfTwo := flag.Bool("pow-of-two", false, "启用2的幂")
	countPtr := flag.Int("count", 1000, "随机矩形数量")
	minPtr := flag.Int("min", 20, "随机矩形最小边长")
	maxPtr := flag.Int("max", 200, "随机矩形最大边长(不含)")
	seedPtr := flag.Int64("seed", time.Now().UnixNano(), "随机种子")
	runsPtr := flag.Int("runs", 1, "重复打包次数")
	baselinePtr := flag.Bool("baseline", false, "与 azul3d binpack 对比")
	renderPtr := flag.Bool("render", false, "输出布局预览图")
	exportPtr := flag.String("export", "", "导出格式("+strings.Join(export.Formats(), ",")+")")
	verifyPtr := flag.Bool("verify", false, "校验打包结果")
	verbosePtr := flag.Bool("v", false, "输出搜索日志")
	flag.Parse()

	heuristics, err := rectpack.ParseHeuristics(*heuristicsPtr)
	if err != nil {
		return err
	}
	dims, err := rectpack.ParseDimensions(*dimsPtr)
	if err != nil {
		return err
	}
	if *minPtr < 1 || *maxPtr <= *minPtr {
		return fmt.Errorf("随机矩形边长范围无效: [%d, %d)", *minPtr, *maxPtr)
	}
	exports := splitList(*exportPtr)
	for _, format := range exports {
		if !export.Supported(format) {
			return fmt.Errorf("不支持的导出格式: %s", format)
		}
	}

	options = Options{
		UnpackPath:            *unpackPath,
		InputDir:              *inputDirPtr,
		OutputDir:             *outputDirPtr,
		MaxBinSize:            *maxBinPtr,
		DiscardStep:           *discardPtr,
		Heuristics:            heuristics,
		Dimensions:            dims,
		IsFilesSort:           *sortPtr,
		SpritePadding:         max(0, *paddingPtr),
		IsTrimTransparent:     *trimPtr,
		TransparencyThreshold: uint32(*thresholdPtr),
		PowerOfTwo:            *powOfTwo,
		Count:                 *countPtr,
		MinSide:               *minPtr,
		MaxSide:               *maxPtr,
		Seed:                  *seedPtr,
		Runs:                  max(1, *runsPtr),
		Baseline:              *baselinePtr,
		Render:                *renderPtr,
		Exports:               exports,
		Verify:                *verifyPtr,
		Verbose:               *verbosePtr,
	}
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.TotalTime = time.Since(start)
			fmt.Printf("图片预处理(裁切等)耗时: %v\n", debugInfo.ProcessImageTime)
			fmt.Printf("文件排序耗时: %v\n", debugInfo.FileSortTime)
			fmt.Printf("算法耗时:%v\n", debugInfo.PackTime)
			fmt.Printf("图集创建耗时:%v\n", debugInfo.CreateAtlasImageTime)
			fmt.Printf("JSON元数据创建耗时:%v\n", debugInfo.CreateJsonTime)
			fmt.Printf("总耗时:%v\n", debugInfo.TotalTime)
		}()
	}

	if err := run(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := flagArgs(); err != nil {
		return err
	}
	// 解包
	if options.UnpackPath != "" {
		return unpack()
	}
	// 确保输出目录存在
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	packer := newPacker(&options)
	runID := uuid.NewString()
	if options.InputDir == "" {
		return runDemo(packer, runID)
	}
	return runAtlas(packer, runID)
}

// runAtlas 把输入目录中的图片打包成一张图集
func runAtlas(packer *rectpack.Packer, runID string) error {
	sizes, imagePaths, sourceRects, err := readImageFiles()
	if err != nil {
		return err
	}
	pkg, err := packing(packer, paddedSizes(sizes, options.SpritePadding))
	if err != nil {
		return err
	}
	outputResult(pkg)

	atlasImage, spriteInfoMapping, err := CreateAtlasImage(pkg, imagePaths, sourceRects)
	if err != nil {
		return fmt.Errorf("生成图集失败: %w", err)
	}

	start := time.Now()
	atlasPath := filepath.Join(options.OutputDir, "atlas.png")
	if err := saveImage(atlasPath, atlasImage); err != nil {
		return err
	}
	fmt.Println("图像写入耗时:", time.Since(start))

	jsonPath := filepath.Join(options.OutputDir, "atlas.json")
	if err := generateAtlasJSON(spriteInfoMapping, atlasPath, pkg.Heuristic, runID, jsonPath); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}
	fmt.Printf("- 图集: %s\n- 图集元数据: %s\n", atlasPath, jsonPath)

	names := make([]string, len(imagePaths))
	for i, path := range imagePaths {
		names[i] = filepath.Base(path)
	}
	return writeLayoutOutputs(pkg, names, filepath.Base(options.InputDir), runID)
}
