package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"atlaspack/atlas"

	"github.com/disintegration/imaging"
)

// unpack 按清单把图集切回单张精灵图
func unpack() error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			fmt.Printf("解包耗时: %s\n", time.Since(start))
		}()
	}

	jsonData, err := os.ReadFile(options.UnpackPath)
	if err != nil {
		return fmt.Errorf("读取图集JSON文件失败: %v", err)
	}
	manifest, err := atlas.ParseManifest(jsonData)
	if err != nil {
		return fmt.Errorf("解析JSON失败: %v", err)
	}

	// 图集图像与清单放在同一目录
	atlasDir := filepath.Dir(options.UnpackPath)
	atlasImagePath := filepath.Join(atlasDir, manifest.Meta.Image)
	atlasImg, err := imaging.Open(atlasImagePath)
	if err != nil {
		return fmt.Errorf("打开图集图片失败: %v", err)
	}

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %v", err)
	}

	for name, frame := range manifest.Frames {
		rect := frame.Frame
		subImg := imaging.Crop(atlasImg, image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H))

		outputPath := filepath.Join(options.OutputDir, name)
		if filepath.Ext(outputPath) == "" {
			outputPath += ".png"
		}
		// 精灵名可以带子目录
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("创建输出子目录失败: %v", err)
		}
		if err := imaging.Save(subImg, outputPath); err != nil {
			return fmt.Errorf("保存 %s 失败: %v", name, err)
		}
	}
	fmt.Printf("图集解包完成, 共 %d 个精灵, 输出到: %s\n", len(manifest.Frames), options.OutputDir)
	return nil
}
