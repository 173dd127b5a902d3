package model

import (
	"bytes"
	"fmt"
	"sort"

	"verwatch/internal/util"
)

// VersionDescriptor 构建产物中的版本描述（version.json）
// Extra 承载自定义字段，序列化时与 version/buildTime 平铺在同一层
type VersionDescriptor struct {
	Version   string
	BuildTime string
	Extra     map[string]any
}

// 保留字段名
const (
	fieldVersion   = "version"
	fieldBuildTime = "buildTime"
)

// MarshalJSON 输出 version、buildTime 在前，其余字段按键名排序
func (d VersionDescriptor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := util.MarshalJSON(key)
		if err != nil {
			return err
		}
		v, err := util.MarshalJSON(value)
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write(fieldVersion, d.Version); err != nil {
		return nil, err
	}
	if err := write(fieldBuildTime, d.BuildTime); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		if k == fieldVersion || k == fieldBuildTime {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, d.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 解析平铺对象，非保留字段进入 Extra
func (d *VersionDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := util.UnmarshalJSON(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("version descriptor must be a JSON object")
	}

	*d = VersionDescriptor{}
	if v, ok := raw[fieldVersion]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be a string, got %T", fieldVersion, v)
		}
		d.Version = s
	}
	if v, ok := raw[fieldBuildTime]; ok {
		if s, ok := v.(string); ok {
			d.BuildTime = s
		}
	}

	for k, v := range raw {
		if k == fieldVersion || k == fieldBuildTime {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]any, len(raw))
		}
		d.Extra[k] = v
	}
	return nil
}

// CheckResult 单次检测结果（不持久化）
// CurrentVersion 为 nil 表示本地尚无存储版本（首次访问）
type CheckResult struct {
	HasUpdate      bool    `json:"hasUpdate"`
	CurrentVersion *string `json:"currentVersion"`
	LatestVersion  string  `json:"latestVersion"`
	BuildTime      string  `json:"buildTime"`
}

// UpdateInfo 发现新版本时回调的参数
func (r *CheckResult) UpdateInfo() UpdateInfo {
	info := UpdateInfo{
		LatestVersion: r.LatestVersion,
		BuildTime:     r.BuildTime,
	}
	if r.CurrentVersion != nil {
		info.CurrentVersion = *r.CurrentVersion
	}
	return info
}

// UpdateInfo 更新通知载荷
type UpdateInfo struct {
	CurrentVersion string `json:"currentVersion"`
	LatestVersion  string `json:"latestVersion"`
	BuildTime      string `json:"buildTime"`
}

// Metadata 项目元数据（package.json 等）
type Metadata map[string]any

// Version 返回元数据中的 version 字段
func (m Metadata) Version() (string, bool) {
	v, ok := m[fieldVersion]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case fmt.Stringer:
		return val.String(), true
	default:
		// YAML 中 version: 1.2 会被解析为数字
		s := fmt.Sprint(val)
		return s, s != ""
	}
}

// String 返回元数据中的字符串字段（不存在或类型不符返回空串）
func (m Metadata) String(key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
