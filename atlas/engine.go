package atlas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"atlaspack/binpack"

	"github.com/disintegration/imaging"
)

const (
	// MinBinSize 是容量搜索的起始容器边长
	MinBinSize = 256
	// MaxBinSize 是全分辨率（缩放系数 1.0）下的容器边长上限
	MaxBinSize = 4096
	// MaxScaledBinSize 是缩放回退时更严格的容器边长上限
	MaxScaledBinSize = 2048
)

// scaleSteps 是缩放回退依次尝试的系数，严格递减，取第一个可行的
var scaleSteps = []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.25, 0.2}

// Engine 是图集打包引擎。
// 除了可插拔的装箱器之外不持有任何状态，
// 并发调用 Pack 是安全的（前提是装箱器本身可重入）。
type Engine struct {
	packer binpack.Packer
}

// NewEngine 创建使用默认 Guillotine 装箱器的引擎。
func NewEngine() *Engine {
	return &Engine{packer: binpack.NewGuillotine()}
}

// NewEngineWith 创建使用指定装箱器的引擎，
// 用于替换装箱启发式而不改动搜索和回退逻辑。
func NewEngineWith(packer binpack.Packer) *Engine {
	return &Engine{packer: packer}
}

// Result 是一次成功打包的产物，返回后归调用方所有。
type Result struct {
	// Image 是合成好的图集画布
	Image *image.NRGBA
	// Manifest 是与画布一致的帧清单
	Manifest Manifest
}

// EncodePNG 把图集画布编码为 PNG 字节。
func (r *Result) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.Image, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode atlas png: %w", err)
	}
	return buf.Bytes(), nil
}

// Pack 使用默认引擎打包。
func Pack(sprites []Sprite, padding int) (*Result, error) {
	return NewEngine().Pack(sprites, padding)
}

// frameMeta 是容量搜索期间使用的精灵元数据。
// 缩放后的尺寸在这里先行计算，图像本身只在放置方案确定后才真正缩放。
type frameMeta struct {
	name    string
	width   int
	height  int
	offsetX int
	offsetY int
}

// Pack 把所有精灵打包进一张图集。
// padding 是每个矩形四周预留的像素数。
// 失败时返回错误且不产出任何部分结果。
func (e *Engine) Pack(sprites []Sprite, padding int) (*Result, error) {
	if len(sprites) == 0 {
		return nil, ErrEmptyInput
	}
	if padding < 0 {
		padding = 0
	}
	seen := make(map[string]struct{}, len(sprites))
	for _, s := range sprites {
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	// 外层遍历缩放系数，内层做容器边长翻倍的容量搜索，
	// 第一个可行的组合胜出
	for _, scale := range scaleSteps {
		metas := scaleMetas(sprites, scale)
		ceiling := MaxBinSize
		if scale < 1.0 {
			ceiling = MaxScaledBinSize
		}
		placed, ok := e.searchCapacity(metas, padding, ceiling)
		if !ok {
			continue
		}
		return e.compose(sprites, metas, placed, padding, scale)
	}
	return nil, ErrPackingInfeasible
}

// searchCapacity 从 MinBinSize 开始翻倍尝试容器边长，
// 返回第一个能容纳所有带间距矩形的放置方案。
// 矩形插入顺序跟随精灵输入顺序，保证结果可复现。
func (e *Engine) searchCapacity(metas []frameMeta, padding, ceiling int) ([]binpack.Rect, bool) {
	sizes := make([]binpack.Size, len(metas))
	for i, m := range metas {
		sizes[i] = binpack.NewSizeID(i, m.width+padding*2, m.height+padding*2)
	}
	for binSize := MinBinSize; binSize <= ceiling; binSize *= 2 {
		if rects, ok := e.packer.Pack(sizes, binSize); ok {
			return rects, true
		}
	}
	return nil, false
}

// scaleMetas 计算缩放后的精灵尺寸与偏移。
// 尺寸四舍五入并且每轴最小为 1，防止出现零尺寸矩形；
// 偏移按同一系数缩放、两轴各自取整，按精灵独立容忍取整误差。
func scaleMetas(sprites []Sprite, scale float64) []frameMeta {
	metas := make([]frameMeta, len(sprites))
	for i, s := range sprites {
		bounds := s.Image.Bounds()
		if scale == 1.0 {
			metas[i] = frameMeta{
				name:    s.Name,
				width:   bounds.Dx(),
				height:  bounds.Dy(),
				offsetX: s.OffsetX,
				offsetY: s.OffsetY,
			}
			continue
		}
		metas[i] = frameMeta{
			name:    s.Name,
			width:   scaleDim(bounds.Dx(), scale),
			height:  scaleDim(bounds.Dy(), scale),
			offsetX: int(math.Round(float64(s.OffsetX) * scale)),
			offsetY: int(math.Round(float64(s.OffsetY) * scale)),
		}
	}
	return metas
}

func scaleDim(d int, scale float64) int {
	return max(1, int(math.Round(float64(d)*scale)))
}

// compose 按放置方案合成画布并生成清单。
// 画布尺寸是所有已放置矩形的紧致包围盒，不是候选容器的边长。
func (e *Engine) compose(sprites []Sprite, metas []frameMeta, placed []binpack.Rect, padding int, scale float64) (*Result, error) {
	var canvasW, canvasH int
	for _, r := range placed {
		canvasW = max(canvasW, r.Right())
		canvasH = max(canvasH, r.Bottom())
	}

	canvas := imaging.New(canvasW, canvasH, color.NRGBA{})
	frames := make(map[string]Frame, len(placed))
	for _, r := range placed {
		m := metas[r.ID]
		src := sprites[r.ID].Image
		if scale != 1.0 {
			src = imaging.Resize(src, m.width, m.height, imaging.Lanczos)
		}
		x := r.X + padding
		y := r.Y + padding
		if x+m.width > canvasW || y+m.height > canvasH {
			return nil, fmt.Errorf("%w: %q at (%d,%d) %dx%d outside %dx%d",
				ErrComposition, m.name, x, y, m.width, m.height, canvasW, canvasH)
		}
		// 像素原样拷贝，包含 alpha 通道，不做混合
		bounds := src.Bounds()
		draw.Draw(canvas, image.Rect(x, y, x+m.width, y+m.height), src, bounds.Min, draw.Src)
		frames[m.name] = newFrame(x, y, m.width, m.height, m.offsetX, m.offsetY)
	}

	return &Result{
		Image: canvas,
		Manifest: Manifest{
			Frames: frames,
			Meta: Meta{
				Image: AtlasImageName,
				Size:  FrameSize{W: canvasW, H: canvasH},
				Scale: scale,
			},
		},
	}, nil
}
