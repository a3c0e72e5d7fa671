// Package imgops 提供图集引擎之外的图像处理操作：
// base64 data-URL 编解码、色键抠图和网格切分。
// 这些都是对解码后位图的逐像素或逐矩形变换，不含打包逻辑。
package imgops

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// pngDataURLPrefix 是 PNG data-URL 的固定前缀
const pngDataURLPrefix = "data:image/png;base64,"

// EncodePNGDataURL 把图像编码为 PNG 的 data-URL 字符串。
func EncodePNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL 解码 base64 图像数据，data-URL 前缀可有可无。
func DecodeDataURL(s string) (image.Image, error) {
	s = strings.TrimPrefix(s, pngDataURLPrefix)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image bytes: %w", err)
	}
	return img, nil
}
