// Package version 提供 verwatch 自身的构建信息
// 版本号通过 go build -ldflags 注入
package version

import "runtime/debug"

// 构建信息变量，通过 ldflags 注入
// 构建命令示例:
//
//	go build -ldflags "-X verwatch/internal/version.Version=$(git describe --tags --always) \
//	  -X verwatch/internal/version.Commit=$(git rev-parse --short HEAD) \
//	  -X 'verwatch/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)'"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Resolve 返回构建版本；未注入时回退到 go install 写入的模块版本
func Resolve() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
