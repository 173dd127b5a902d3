package main

import (
	"io"
	"os"
	"time"

	"verwatch/internal/model"
	"verwatch/internal/monitor"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// progress 检测期间的进度提示
type progress interface {
	Stop()
}

type noopProgress struct{}

func (noopProgress) Stop() {}

// startSpinner 仅在 stderr 为终端时显示动画
func startSpinner(suffix string, enabled bool) progress {
	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return noopProgress{}
	}

	loader := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	_ = loader.Color("yellow")
	loader.Suffix = suffix
	loader.Start()
	return loader
}

// renderCheckResult 以表格输出单次检测结果
func renderCheckResult(w io.Writer, opts monitor.CheckOptions, result *model.CheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"URL", opts.URL},
		{"Storage Key", opts.StorageKey},
		{"Current", displayVersion(derefString(result.CurrentVersion))},
		{"Latest", result.LatestVersion},
		{"Build Time", result.BuildTime},
		{"Update Available", result.HasUpdate},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// displayVersion 空版本（首次访问）显示为 -
func displayVersion(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
