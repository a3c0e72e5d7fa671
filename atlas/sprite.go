// Package atlas 实现精灵图集打包引擎：
// 容量搜索（容器边长从 256 开始翻倍）、整体缩放回退、
// 紧致画布合成以及 Phaser 风格的帧清单生成。
//
// 引擎每次调用之间不保留任何状态，单次调用内完全同步执行。
package atlas

import (
	"errors"
	"image"
)

// Sprite 是待打包的一张精灵图。
// 字段由调用方填充，引擎只读不改。
type Sprite struct {
	// Name 是精灵的唯一标识，作为清单中帧的键。
	Name string
	// Image 是已解码的位图。
	Image image.Image
	// OffsetX, OffsetY 是精灵在原始坐标系中的锚点偏移，
	// 发生缩放回退时会按相同比例缩放。
	OffsetX int
	OffsetY int
}

var (
	// ErrEmptyInput 表示没有任何精灵可打包。
	ErrEmptyInput = errors.New("no sprites to pack")

	// ErrDuplicateName 表示输入中存在重名的精灵。
	// 清单按名字作键，重名会导致帧被覆盖，所以在打包前直接拒绝。
	ErrDuplicateName = errors.New("duplicate sprite name")

	// ErrPackingInfeasible 表示在所有候选容器尺寸和缩放系数下都无法打包。
	ErrPackingInfeasible = errors.New("sprites too large to pack at any scale")

	// ErrComposition 表示放置结果超出了画布范围。
	// 装箱器正确时不可能发生，属于内部不变量被破坏。
	ErrComposition = errors.New("placed rectangle exceeds canvas bounds")
)
