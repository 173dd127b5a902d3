// Package descriptor 构建完成后生成版本描述文件（version.json）
package descriptor

import (
	"os"
	"path/filepath"
	"time"

	"verwatch/internal/config"
	"verwatch/internal/model"
)

// PluginName 构建插件名称
const PluginName = "verwatch-version-descriptor"

// TransformFunc 自定义描述生成函数（纯函数：元数据 → 描述）
type TransformFunc func(meta model.Metadata) (model.VersionDescriptor, error)

// Options 描述文件生成配置
type Options struct {
	// Transform 为空时生成 {version, buildTime}
	Transform TransformFunc
	// Filename 输出文件名，默认 version.json
	Filename string
	// Debug 打印完整描述内容
	Debug bool
	// MetadataPath 元数据文件，默认 <cwd>/package.json
	MetadataPath string
	// DefaultOutputDir 构建统计未给出输出目录时使用，默认 <cwd>/dist
	DefaultOutputDir string
	// Now 时钟（测试注入）
	Now func() time.Time
}

// withDefaults 填充零值字段
func (o Options) withDefaults() Options {
	if o.Filename == "" {
		o.Filename = config.DefaultDescriptorFilename
	}
	if o.MetadataPath == "" {
		o.MetadataPath = filepath.Join(workDir(), config.DefaultMetadataFile)
	}
	if o.DefaultOutputDir == "" {
		o.DefaultOutputDir = filepath.Join(workDir(), config.DefaultOutputDir)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// BuildStats 构建统计（仅关心输出目录）
type BuildStats struct {
	OutputPath string
}

// outputDir 从构建统计推导输出目录，缺失时回退到默认目录
func outputDir(stats *BuildStats, fallback string) string {
	if stats != nil && stats.OutputPath != "" {
		return stats.OutputPath
	}
	return fallback
}
