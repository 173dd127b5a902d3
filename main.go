package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"verwatch/internal/config"
	"verwatch/internal/version"

	"github.com/joho/godotenv"
)

const usage = `verwatch - 构建版本描述生成与客户端更新检测

用法:
  verwatch <command> [flags]

命令:
  generate   读取项目元数据，写出版本描述文件
  watch      周期检测远端版本，发现更新时执行刷新
  check      执行一次版本检测并输出结果
  serve      托管构建产物并运行版本监控
  version    显示版本信息
`

func main() {
	// 优先从 .env 文件加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run 按子命令分发
func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version", "--version", "-v":
		version.PrintBanner()
		return nil
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	switch cmd {
	case "generate":
		return runGenerate(cfg, rest)
	case "watch":
		return runWatch(cfg, rest)
	case "check":
		return runCheck(cfg, rest, stdout)
	case "serve":
		return runServe(cfg, rest)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
