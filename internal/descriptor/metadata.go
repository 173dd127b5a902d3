package descriptor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"

	"verwatch/internal/model"
	"verwatch/internal/util"
)

// versionKey 元数据中的版本字段
const versionKey = "version"

// ReadMetadata 读取项目元数据（.yaml/.yml 按 YAML 解析，其余按 JSON）
// 数字形式的 version 保留原文：1.10 不能变成 1.1
func ReadMetadata(path string) (model.Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: 路径来自构建配置
	if err != nil {
		return nil, err
	}

	var meta model.Metadata
	isYAML := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		isYAML = true
		err = yaml.Unmarshal(data, &meta)
	default:
		err = util.UnmarshalJSONNumber(data, &meta)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if meta == nil {
		return nil, fmt.Errorf("parse %s: metadata must be an object", filepath.Base(path))
	}

	if isYAML {
		if raw, ok := yamlNumericVersion(data); ok {
			meta[versionKey] = raw
		}
	}
	return meta, nil
}

// yamlNumericVersion 读取顶层 version 为数字标量时的原始文本
func yamlNumericVersion(data []byte) (string, bool) {
	p, err := yaml.PathString("$." + versionKey)
	if err != nil {
		return "", false
	}
	node, err := p.ReadNode(bytes.NewReader(data))
	if err != nil || node == nil {
		return "", false
	}

	switch node.(type) {
	case *ast.IntegerNode, *ast.FloatNode:
		if tk := node.GetToken(); tk != nil && tk.Value != "" {
			return tk.Value, true
		}
	}
	return "", false
}
