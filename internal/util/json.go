package util

import "github.com/bytedance/sonic"

// stdAPI 兼容标准库行为（map键排序、HTML转义），输出稳定便于diff
var stdAPI = sonic.ConfigStd

// numberAPI 数字解码为 json.Number，保留原文
var numberAPI = sonic.Config{UseNumber: true}.Froze()

// MarshalJSON 使用sonic进行JSON序列化
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndentJSON 使用sonic进行带缩进的JSON序列化（键有序）
func MarshalIndentJSON(v any, indent string) ([]byte, error) {
	return stdAPI.MarshalIndent(v, "", indent)
}

// UnmarshalJSON 使用sonic进行JSON反序列化
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// UnmarshalJSONNumber 反序列化时数字保留为 json.Number（如 "1.10" 不会变成 1.1）
func UnmarshalJSONNumber(data []byte, v any) error {
	return numberAPI.Unmarshal(data, v)
}
