package atlas

import (
	"encoding/json"
	"fmt"
)

// AtlasImageName 是清单中引用的图集图像名。
const AtlasImageName = "atlas.png"

// FrameRect 描述图集中的一个矩形区域
type FrameRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FrameSize 描述宽高
type FrameSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Pivot 是帧内归一化的锚点，这里固定为中心 (0.5, 0.5)
type Pivot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FrameOffset 是从输入透传（必要时缩放）的锚点偏移
type FrameOffset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Frame 是单个精灵在清单中的完整描述。
// 字段布局与 Phaser 图集 JSON 保持一致；
// 不支持旋转和透明裁切，所以 rotated/trimmed 恒为 false，
// spriteSourceSize 恒为零原点的帧尺寸。
type Frame struct {
	Frame            FrameRect   `json:"frame"`
	Rotated          bool        `json:"rotated"`
	Trimmed          bool        `json:"trimmed"`
	SpriteSourceSize FrameRect   `json:"spriteSourceSize"`
	SourceSize       FrameSize   `json:"sourceSize"`
	Pivot            Pivot       `json:"pivot"`
	Offset           FrameOffset `json:"offset"`
}

// Meta 是清单的顶层元数据
type Meta struct {
	// Image 是图集图像的引用名
	Image string `json:"image"`
	// Size 是画布的最终尺寸（紧致包围盒，不是候选容器尺寸）
	Size FrameSize `json:"size"`
	// Scale 是实际采用的缩放系数，未触发回退时为 1.0
	Scale float64 `json:"scale"`
}

// Manifest 是一次打包产出的帧清单。
// 每个输入精灵恰好对应一帧。
type Manifest struct {
	Frames map[string]Frame `json:"frames"`
	Meta   Meta             `json:"meta"`
}

// JSON 把清单序列化为缩进的 JSON 文本。
// map 的键按字典序输出，相同输入总是得到相同的文本。
func (m *Manifest) JSON() (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal atlas manifest: %w", err)
	}
	return string(data), nil
}

// ParseManifest 从 JSON 文本解析清单（解包时使用）。
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse atlas manifest: %w", err)
	}
	return &m, nil
}

// newFrame 根据放置结果和缩放后的精灵元数据构建一帧
func newFrame(x, y, w, h, offsetX, offsetY int) Frame {
	return Frame{
		Frame:            FrameRect{X: x, Y: y, W: w, H: h},
		Rotated:          false,
		Trimmed:          false,
		SpriteSourceSize: FrameRect{X: 0, Y: 0, W: w, H: h},
		SourceSize:       FrameSize{W: w, H: h},
		Pivot:            Pivot{X: 0.5, Y: 0.5},
		Offset:           FrameOffset{X: offsetX, Y: offsetY},
	}
}
