package imgops

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestDataURLRoundTrip(t *testing.T) {
	src := imaging.New(13, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	url, err := EncodePNGDataURL(src)
	if err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("缺少 data-URL 前缀: %.40s", url)
	}
	decoded, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if decoded.Bounds().Dx() != 13 || decoded.Bounds().Dy() != 7 {
		t.Errorf("回读尺寸 = %v, 期望 13x7", decoded.Bounds())
	}
	// 去掉前缀的裸 base64 也要能解码
	bare := strings.TrimPrefix(url, "data:image/png;base64,")
	if _, err := DecodeDataURL(bare); err != nil {
		t.Errorf("裸 base64 解码失败: %v", err)
	}
}

func TestDecodeDataURLInvalid(t *testing.T) {
	if _, err := DecodeDataURL("data:image/png;base64,@@not-base64@@"); err == nil {
		t.Error("非法 base64 应该报错")
	}
	if _, err := DecodeDataURL("aGVsbG8="); err == nil {
		t.Error("非图像字节应该报错")
	}
}

func TestRemoveColors(t *testing.T) {
	// 左半背景绿、右半前景红
	src := imaging.New(4, 2, color.NRGBA{G: 255, A: 255})
	for y := 0; y < 2; y++ {
		for x := 2; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	out := RemoveColors(src, []ChromaKey{{G: 255, Tolerance: 10}})
	if got := out.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("背景像素仍然不透明: %v", got)
	}
	if got := out.NRGBAAt(3, 1); got.A != 255 || got.R != 200 {
		t.Errorf("前景像素被误删: %v", got)
	}
	// 输入不被修改
	if src.NRGBAAt(0, 0).A != 255 {
		t.Error("输入图像被修改")
	}
}

func TestRemoveColorsTolerance(t *testing.T) {
	near := color.NRGBA{R: 10, G: 250, B: 5, A: 255}
	src := imaging.New(1, 1, near)
	// 容差 0 时近似色保留
	if out := RemoveColors(src, []ChromaKey{{G: 255}}); out.NRGBAAt(0, 0).A != 255 {
		t.Error("容差 0 不应删除近似色")
	}
	// 容差足够时近似色被删除
	if out := RemoveColors(src, []ChromaKey{{G: 255, Tolerance: 5}}); out.NRGBAAt(0, 0).A != 0 {
		t.Error("容差 5 应该覆盖距离约 12 的近似色")
	}
}

func TestSplitGrid(t *testing.T) {
	src := imaging.New(60, 40, color.NRGBA{A: 255})
	cells := SplitGrid(src, GridConfig{Rows: []int{10}, Cols: []int{20, 40}})
	if len(cells) != 6 {
		t.Fatalf("格子数 = %d, 期望 6 (2 行 x 3 列)", len(cells))
	}
	// 行优先：第一行 20x10, 20x10, 20x10；第二行 20x30 ...
	wantW := []int{20, 20, 20, 20, 20, 20}
	wantH := []int{10, 10, 10, 30, 30, 30}
	for i, cell := range cells {
		if cell.Bounds().Dx() != wantW[i] || cell.Bounds().Dy() != wantH[i] {
			t.Errorf("格子 #%d 尺寸 = %dx%d, 期望 %dx%d",
				i, cell.Bounds().Dx(), cell.Bounds().Dy(), wantW[i], wantH[i])
		}
	}
}

func TestSplitGridNoLines(t *testing.T) {
	src := imaging.New(8, 8, color.NRGBA{A: 255})
	cells := SplitGrid(src, GridConfig{})
	if len(cells) != 1 {
		t.Fatalf("无分割线时应返回整张图, 得到 %d 个格子", len(cells))
	}
	if !cells[0].Bounds().Eq(image.Rect(0, 0, 8, 8)) {
		t.Errorf("格子尺寸 = %v", cells[0].Bounds())
	}
}
