package imgops

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ChromaKey 是一个要抠掉的背景色。
// Tolerance 取 0-100，内部换算到 RGB 空间的最大欧氏距离（约 442）。
type ChromaKey struct {
	R         uint8 `json:"r"`
	G         uint8 `json:"g"`
	B         uint8 `json:"b"`
	Tolerance uint8 `json:"tolerance"`
}

// toleranceScale 把 0-100 的容差映射到 RGB 欧氏距离
const toleranceScale = 4.42

// RemoveColors 把与任一色键颜色距离在容差内的像素透明化，
// 返回新的 NRGBA 图像，输入不被修改。
// 每个像素按色键顺序匹配，命中第一个就停止。
func RemoveColors(img image.Image, keys []ChromaKey) *image.NRGBA {
	dst := imaging.Clone(img)
	if len(keys) == 0 {
		return dst
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		for _, key := range keys {
			dr := int(dst.Pix[i]) - int(key.R)
			dg := int(dst.Pix[i+1]) - int(key.G)
			db := int(dst.Pix[i+2]) - int(key.B)
			distance := math.Sqrt(float64(dr*dr + dg*dg + db*db))
			if distance <= float64(key.Tolerance)*toleranceScale {
				dst.Pix[i+3] = 0
				break
			}
		}
	}
	return dst
}
