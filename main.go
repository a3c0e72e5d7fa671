package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"atlaspack/atlas"
	"atlaspack/binpack"
	"atlaspack/imgops"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
)

const (
	VERSION = "0.1.0"
)

var (
	options   Options
	debugInfo = DebugInfo{IsDebug: true}
)

type DebugInfo struct {
	IsDebug    bool
	TotalTime  time.Duration
	DecodeTime time.Duration
	PackTime   time.Duration
	WriteTime  time.Duration
}

type Options struct {
	UnpackPath    string // 解包路径
	InputPath     string // 输入目录或文件
	OutputDir     string // 输出目录
	SpritePadding int    // 填充
	Heuristic     string // 装箱算法 (Guillotine, Skyline)
	EmitDataURL   bool   // 以 data-URL 输出图集
	RemoveColor   string // 色键抠图参数
	SplitHLines   string // 水平分割线 y 坐标
	SplitVLines   string // 垂直分割线 x 坐标
	DoSplit       bool   // 是否为切分模式
}

func flagArgs() {
	unpackPath := flag.String("unpack", "", "解包路径 (atlas.json)")
	inputPtr := flag.String("input", "input", "输入目录或文件")
	outputPtr := flag.String("output", "output", "输出目录")
	paddingPtr := flag.Int("padding", 0, "精灵四周的填充像素")
	heuristicPtr := flag.String("heuristic", "Guillotine", "装箱算法 (Guillotine, Skyline)")
	dataURLPtr := flag.Bool("dataurl", false, "把图集以 data-URL 形式输出到标准输出")
	removePtr := flag.String("removecolor", "", "色键抠图 \"r,g,b,tolerance[;r,g,b,tolerance...]\"")
	splitPtr := flag.Bool("split", false, "切分模式")
	hlinesPtr := flag.String("hlines", "", "切分模式的水平分割线 y 坐标, 逗号分隔")
	vlinesPtr := flag.String("vlines", "", "切分模式的垂直分割线 x 坐标, 逗号分隔")
	flag.Parse()

	options = Options{
		UnpackPath:    *unpackPath,
		InputPath:     *inputPtr,
		OutputDir:     *outputPtr,
		SpritePadding: *paddingPtr,
		Heuristic:     *heuristicPtr,
		EmitDataURL:   *dataURLPtr,
		RemoveColor:   *removePtr,
		SplitHLines:   *hlinesPtr,
		SplitVLines:   *vlinesPtr,
		DoSplit:       *splitPtr,
	}
}

// Parallel 把 [start, end) 平均分给多个 goroutine 执行
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := (end - start) / numGoroutines
	if batchSize < 1 {
		batchSize = 1
	}
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

// readSprites 读取目录中的所有 PNG 并解码为精灵输入
func readSprites(inputDir string) ([]atlas.Sprite, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.DecodeTime = time.Since(start)
		}()
	}
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("输入目录 %s 不存在", inputDir)
	}
	pattern := filepath.Join(inputDir, "*.png")
	imagePaths, _ := filepath.Glob(pattern)
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("输入目录 %s 中没有找到任何图片文件", inputDir)
	}
	// 按文件名自然排序，保证不同文件系统上输入顺序一致
	sort.Sort(natural.StringSlice(imagePaths))
	fmt.Printf("找到 %d 个图片文件\n", len(imagePaths))

	sprites := make([]atlas.Sprite, len(imagePaths))
	errs := make([]error, len(imagePaths))
	Parallel(0, len(imagePaths), func(i int) {
		path := imagePaths[i]
		img, err := imaging.Open(path)
		if err != nil {
			errs[i] = fmt.Errorf("无法解码图片 %s: %v", path, err)
			return
		}
		sprites[i] = atlas.Sprite{Name: filepath.Base(path), Image: img}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sprites, nil
}

func resolvePacker(name string) (binpack.Packer, error) {
	switch name {
	case "Guillotine", "":
		return binpack.NewGuillotine(), nil
	case "Skyline":
		return binpack.NewSkyline(), nil
	}
	return nil, fmt.Errorf("未知的装箱算法 %q", name)
}

// parseChromaKeys 解析 "r,g,b,tolerance[;...]" 形式的色键参数
func parseChromaKeys(s string) ([]imgops.ChromaKey, error) {
	var keys []imgops.ChromaKey
	for _, part := range strings.Split(s, ";") {
		fields := strings.Split(strings.TrimSpace(part), ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("色键格式错误: %q (期望 r,g,b,tolerance)", part)
		}
		vals := make([]uint8, 4)
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil || n < 0 || n > 255 {
				return nil, fmt.Errorf("色键分量错误: %q", f)
			}
			vals[i] = uint8(n)
		}
		keys = append(keys, imgops.ChromaKey{R: vals[0], G: vals[1], B: vals[2], Tolerance: vals[3]})
	}
	return keys, nil
}

// parseLines 解析逗号分隔的分割线坐标
func parseLines(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	lines := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("分割线坐标错误: %q", p)
		}
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines, nil
}

func runPack() error {
	sprites, err := readSprites(options.InputPath)
	if err != nil {
		return err
	}
	packer, err := resolvePacker(options.Heuristic)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := atlas.NewEngineWith(packer).Pack(sprites, options.SpritePadding)
	if err != nil {
		return fmt.Errorf("打包失败: %v", err)
	}
	debugInfo.PackTime = time.Since(start)

	manifest, err := result.Manifest.JSON()
	if err != nil {
		return err
	}
	fmt.Printf("图集尺寸: %dx%d, 缩放系数: %v\n",
		result.Manifest.Meta.Size.W, result.Manifest.Meta.Size.H, result.Manifest.Meta.Scale)

	start = time.Now()
	if options.EmitDataURL {
		url, err := imgops.EncodePNGDataURL(result.Image)
		if err != nil {
			return err
		}
		fmt.Println(url)
	}
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %v", err)
	}
	imagePath := filepath.Join(options.OutputDir, atlas.AtlasImageName)
	data, err := result.EncodePNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return fmt.Errorf("保存图集图像失败: %v", err)
	}
	jsonPath := filepath.Join(options.OutputDir, "atlas.json")
	if err := os.WriteFile(jsonPath, []byte(manifest), 0644); err != nil {
		return fmt.Errorf("保存图集元数据失败: %v", err)
	}
	debugInfo.WriteTime = time.Since(start)

	fmt.Printf("- 图集图像: %s\n", imagePath)
	fmt.Printf("- 图集元数据: %s\n", jsonPath)
	return nil
}

func runRemoveColor() error {
	keys, err := parseChromaKeys(options.RemoveColor)
	if err != nil {
		return err
	}
	img, err := imaging.Open(options.InputPath)
	if err != nil {
		return fmt.Errorf("无法解码图片 %s: %v", options.InputPath, err)
	}
	out := imgops.RemoveColors(img, keys)
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %v", err)
	}
	outputPath := filepath.Join(options.OutputDir, filepath.Base(options.InputPath))
	if err := imaging.Save(out, outputPath); err != nil {
		return fmt.Errorf("保存图片失败: %v", err)
	}
	fmt.Printf("抠图完成: %s\n", outputPath)
	return nil
}

func runSplit() error {
	rows, err := parseLines(options.SplitHLines)
	if err != nil {
		return err
	}
	cols, err := parseLines(options.SplitVLines)
	if err != nil {
		return err
	}
	img, err := imaging.Open(options.InputPath)
	if err != nil {
		return fmt.Errorf("无法解码图片 %s: %v", options.InputPath, err)
	}
	cells := imgops.SplitGrid(img, imgops.GridConfig{Rows: rows, Cols: cols})
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %v", err)
	}
	base := strings.TrimSuffix(filepath.Base(options.InputPath), filepath.Ext(options.InputPath))
	for i, cell := range cells {
		outputPath := filepath.Join(options.OutputDir, fmt.Sprintf("%s_%d.png", base, i))
		if err := imaging.Save(cell, outputPath); err != nil {
			return fmt.Errorf("保存切片 #%d 失败: %v", i, err)
		}
	}
	fmt.Printf("切分完成, 共 %d 个切片, 输出到: %s\n", len(cells), options.OutputDir)
	return nil
}

func main() {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.TotalTime = time.Since(start)
			fmt.Printf("图片解码耗时: %v\n", debugInfo.DecodeTime)
			fmt.Printf("打包耗时: %v\n", debugInfo.PackTime)
			fmt.Printf("写入耗时: %v\n", debugInfo.WriteTime)
			fmt.Printf("总耗时: %v\n", debugInfo.TotalTime)
		}()
	}

	fmt.Printf("atlaspack v%s\n", VERSION)
	flagArgs()

	var err error
	switch {
	case options.UnpackPath != "":
		err = unpack()
	case options.RemoveColor != "":
		err = runRemoveColor()
	case options.DoSplit:
		err = runSplit()
	default:
		err = runPack()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
