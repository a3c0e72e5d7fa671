package binpack

import "slices"

// skylinePack 实现 Bottom-Left 天际线装箱。
// 维护一条从左到右的天际线（每段记录 x 坐标、高度和宽度），
// 每个矩形落在使其顶边最低的位置（像俄罗斯方块一样下落），
// 顶边相同时选择天际线段更窄的位置。
//
// 与 Guillotine 相比碎片模式不同，作为可替换的第二种启发式存在。
type skylinePack struct{}

// NewSkyline 创建 Bottom-Left 天际线装箱器。
func NewSkyline() Packer {
	return skylinePack{}
}

// skyNode 是天际线上的一段水平线
type skyNode struct {
	x, y, width int
}

func (skylinePack) Pack(sizes []Size, binSize int) ([]Rect, bool) {
	if binSize <= 0 {
		return nil, false
	}
	sorted := slices.Clone(sizes)
	slices.SortStableFunc(sorted, SortArea)

	nodes := []skyNode{{x: 0, y: 0, width: binSize}}
	packed := make([]Rect, 0, len(sorted))
	for _, size := range sorted {
		bestIdx, bestX, bestY := -1, 0, 0
		bestTop, bestWidth := binSize+1, binSize+1
		for i := range nodes {
			y := rectFits(nodes, i, size.Width, size.Height, binSize)
			if y < 0 {
				continue
			}
			if y+size.Height < bestTop || (y+size.Height == bestTop && nodes[i].width < bestWidth) {
				bestIdx = i
				bestX = nodes[i].x
				bestY = y
				bestTop = y + size.Height
				bestWidth = nodes[i].width
			}
		}
		if bestIdx < 0 {
			return nil, false
		}
		nodes = addSkylineLevel(nodes, bestIdx, bestX, bestY, size.Width, size.Height)
		packed = append(packed, Rect{Point: Point{X: bestX, Y: bestY}, Size: size})
	}
	return packed, true
}

// rectFits 检查矩形能否从第 i 段开始放置，能则返回落点的 y 坐标，
// 即被矩形宽度覆盖的所有天际线段中的最大高度；放不下返回 -1。
func rectFits(nodes []skyNode, i, w, h, binSize int) int {
	x := nodes[i].x
	y := nodes[i].y
	if x+w > binSize {
		return -1
	}
	spaceLeft := w
	for spaceLeft > 0 {
		if i == len(nodes) {
			return -1
		}
		y = max(y, nodes[i].y)
		if y+h > binSize {
			return -1
		}
		spaceLeft -= nodes[i].width
		i++
	}
	return y
}

// addSkylineLevel 在第 idx 段处插入新的天际线段，
// 删除被新段遮住的旧段并合并等高的相邻段。
func addSkylineLevel(nodes []skyNode, idx, x, y, w, h int) []skyNode {
	nodes = slices.Insert(nodes, idx, skyNode{x: x, y: y + h, width: w})

	// 收缩或删除被新段覆盖的旧段
	for i := idx + 1; i < len(nodes); i++ {
		prev := nodes[i-1]
		if nodes[i].x >= prev.x+prev.width {
			break
		}
		shrink := prev.x + prev.width - nodes[i].x
		nodes[i].x += shrink
		nodes[i].width -= shrink
		if nodes[i].width > 0 {
			break
		}
		nodes = slices.Delete(nodes, i, i+1)
		i--
	}
	// 合并相邻的等高段
	for i := 0; i < len(nodes)-1; i++ {
		if nodes[i].y == nodes[i+1].y {
			nodes[i].width += nodes[i+1].width
			nodes = slices.Delete(nodes, i+1, i+2)
			i--
		}
	}
	return nodes
}
