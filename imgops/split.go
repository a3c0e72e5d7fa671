package imgops

import (
	"image"

	"github.com/disintegration/imaging"
)

// GridConfig 描述精灵表的切分网格。
// Rows 是水平分割线的 y 坐标，Cols 是垂直分割线的 x 坐标，
// 都应当在图像范围内且升序排列；图像的四条边是隐含的分割线。
type GridConfig struct {
	Rows []int `json:"horizontalLines"`
	Cols []int `json:"verticalLines"`
}

// SplitGrid 沿网格线把精灵表切成单元格。
// 返回按行优先顺序排列的子图（先第一行从左到右，再第二行……）。
func SplitGrid(img image.Image, cfg GridConfig) []*image.NRGBA {
	bounds := img.Bounds()
	ys := make([]int, 0, len(cfg.Rows)+2)
	ys = append(ys, 0)
	ys = append(ys, cfg.Rows...)
	ys = append(ys, bounds.Dy())

	xs := make([]int, 0, len(cfg.Cols)+2)
	xs = append(xs, 0)
	xs = append(xs, cfg.Cols...)
	xs = append(xs, bounds.Dx())

	cells := make([]*image.NRGBA, 0, (len(ys)-1)*(len(xs)-1))
	for row := 0; row < len(ys)-1; row++ {
		for col := 0; col < len(xs)-1; col++ {
			rect := image.Rect(xs[col], ys[row], xs[col+1], ys[row+1])
			cells = append(cells, imaging.Crop(img, rect))
		}
	}
	return cells
}
