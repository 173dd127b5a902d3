package descriptor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"verwatch/internal/errors"
	"verwatch/internal/model"
	"verwatch/internal/util"
)

// buildTimeLayout ISO-8601 毫秒精度（UTC，Z 结尾）
const buildTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Result 生成结果
type Result struct {
	Path       string
	Descriptor model.VersionDescriptor
}

// Writer 版本描述文件生成器
type Writer struct {
	opts Options
}

// NewWriter 创建生成器
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts.withDefaults()}
}

// Filename 输出文件名
func (w *Writer) Filename() string {
	return w.opts.Filename
}

// Generate 读取元数据、计算描述并写入输出目录
func (w *Writer) Generate(ctx context.Context, stats *BuildStats) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := ReadMetadata(w.opts.MetadataPath)
	if err != nil {
		return nil, errors.ReadMetadataError(w.opts.MetadataPath, err)
	}

	desc, err := w.describe(meta)
	if err != nil {
		return nil, err
	}

	dir := outputDir(stats, w.opts.DefaultOutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 构建产物目录需对静态服务可读
		return nil, errors.WriteError(dir, err)
	}

	data, err := util.MarshalIndentJSON(desc, "  ")
	if err != nil {
		return nil, errors.WriteError(dir, fmt.Errorf("encode descriptor: %w", err))
	}

	path := filepath.Join(dir, w.opts.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: 静态资源需可读
		return nil, errors.WriteError(path, err)
	}

	return &Result{Path: path, Descriptor: desc}, nil
}

// describe 计算版本描述（自定义 Transform 优先）
func (w *Writer) describe(meta model.Metadata) (model.VersionDescriptor, error) {
	if w.opts.Transform != nil {
		desc, err := w.opts.Transform(meta)
		if err != nil {
			return model.VersionDescriptor{}, errors.TransformError(w.opts.MetadataPath, err)
		}
		return desc, nil
	}

	version, ok := meta.Version()
	if !ok {
		return model.VersionDescriptor{}, errors.ReadMetadataError(w.opts.MetadataPath,
			fmt.Errorf("missing version field"))
	}
	return model.VersionDescriptor{
		Version:   version,
		BuildTime: BuildTime(w.opts.Now()),
	}, nil
}

// AfterBuild 构建后钩子：失败只记录日志，不中断宿主构建
func (w *Writer) AfterBuild(ctx context.Context, stats *BuildStats) {
	res, err := w.Generate(ctx, stats)
	if err != nil {
		log.Printf("[%s] Failed to generate %s: %v", PluginName, w.opts.Filename, err)
		return
	}

	if w.opts.Debug {
		data, _ := util.MarshalJSON(res.Descriptor)
		log.Printf("[%s] Generated %s: %s", PluginName, w.opts.Filename, data)
		return
	}
	log.Printf("✓ Generated %s: v%s", w.opts.Filename, res.Descriptor.Version)
}

// BuildTime 格式化构建时间（自定义 Transform 可复用）
func BuildTime(t time.Time) string {
	return t.UTC().Format(buildTimeLayout)
}
