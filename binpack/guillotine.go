package binpack

import (
	"math"
	"slices"
)

// guillotinePack 实现最大面积优先的 Guillotine 装箱：
// 先把尺寸按面积降序排列（面积相同时保持输入顺序），
// 每次选择剩余面积最小且能容纳当前矩形的空闲区域放置，
// 然后沿损失面积较小的方向把空闲区域切成两块。
//
// 不持有任何跨调用状态，可以被多个 goroutine 同时使用。
type guillotinePack struct{}

// NewGuillotine 创建默认的 Guillotine 装箱器。
func NewGuillotine() Packer {
	return guillotinePack{}
}

func (guillotinePack) Pack(sizes []Size, binSize int) ([]Rect, bool) {
	if binSize <= 0 {
		return nil, false
	}
	// 复制后排序，不改动调用方的切片
	sorted := slices.Clone(sizes)
	slices.SortStableFunc(sorted, SortArea)

	freeRects := []Rect{NewRect(0, 0, binSize, binSize)}
	packed := make([]Rect, 0, len(sorted))
	for _, size := range sorted {
		best := -1
		bestScore := math.MaxInt
		for i, free := range freeRects {
			if size.Width <= free.Width && size.Height <= free.Height {
				score := free.Area() - size.Area()
				if score < bestScore {
					best = i
					bestScore = score
				}
			}
		}
		if best < 0 {
			// 有一个放不下就整体失败，交给上层换容器尺寸重试
			return nil, false
		}
		free := freeRects[best]
		node := Rect{Point: free.Point, Size: size}
		freeRects = slices.Delete(freeRects, best, best+1)
		freeRects = splitFreeRect(freeRects, free, node)
		freeRects = mergeFreeList(freeRects)
		packed = append(packed, node)
	}
	return packed, true
}

// splitFreeRect 从空闲区域中扣掉已放置的矩形，把剩余空间切成下方和右侧两块。
// 切割方向取损失面积较小的一种（SplitMinimizeArea）。
func splitFreeRect(freeRects []Rect, free, placed Rect) []Rect {
	w := free.Width - placed.Width
	h := free.Height - placed.Height
	splitHorizontal := placed.Width*h > w*placed.Height

	var bottom Rect
	bottom.X = free.X
	bottom.Y = free.Y + placed.Height
	bottom.Height = h
	var right Rect
	right.X = free.X + placed.Width
	right.Y = free.Y
	right.Width = w
	if splitHorizontal {
		bottom.Width = free.Width
		right.Height = placed.Height
	} else {
		bottom.Width = placed.Width
		right.Height = free.Height
	}
	if !bottom.IsEmpty() {
		freeRects = append(freeRects, bottom)
	}
	if !right.IsEmpty() {
		freeRects = append(freeRects, right)
	}
	return freeRects
}

// mergeFreeList 合并相邻且能拼成一个矩形的空闲区域，减少碎片
func mergeFreeList(freeRects []Rect) []Rect {
	for i := 0; i < len(freeRects); i++ {
		for j := i + 1; j < len(freeRects); j++ {
			a, b := freeRects[i], freeRects[j]
			if a.Width == b.Width && a.X == b.X {
				if a.Y == b.Bottom() {
					freeRects[i].Y = b.Y
					freeRects[i].Height += b.Height
					freeRects = slices.Delete(freeRects, j, j+1)
					j--
				} else if a.Bottom() == b.Y {
					freeRects[i].Height += b.Height
					freeRects = slices.Delete(freeRects, j, j+1)
					j--
				}
			} else if a.Height == b.Height && a.Y == b.Y {
				if a.X == b.Right() {
					freeRects[i].X = b.X
					freeRects[i].Width += b.Width
					freeRects = slices.Delete(freeRects, j, j+1)
					j--
				} else if a.Right() == b.X {
					freeRects[i].Width += b.Width
					freeRects = slices.Delete(freeRects, j, j+1)
					j--
				}
			}
		}
	}
	return freeRects
}
