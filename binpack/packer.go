package binpack

import "cmp"

// Packer 是矩形装箱启发式算法的能力接口。
// 给定一组带ID的尺寸和一个正方形容器的边长，要么返回每个尺寸的放置结果
// （与输入一一对应，通过 Rect.ID 关联），要么返回 false 表示无法全部放下。
//
// 图集引擎按"全放下或全不放"处理：某个容器尺寸放不下时会换更大的容器重试，
// 所以这里不提供部分放置结果。
//
// 实现必须是确定性的：相同的输入顺序必须产生相同的放置结果。
type Packer interface {
	Pack(sizes []Size, binSize int) ([]Rect, bool)
}

// SortFunc 定义矩形尺寸比较函数的原型
// 返回值:
//   -1: a < b
//    0: a == b
//    1: a > b
type SortFunc func(a, b Size) int

// SortArea 按矩形面积降序排序(从大到小)
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortMaxSide 按矩形最长边降序排序(从大到小)
func SortMaxSide(a, b Size) int {
	return cmp.Compare(max(b.Width, b.Height), max(a.Width, a.Height))
}
