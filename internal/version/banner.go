package version

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const banner = `
__   _____ _ ____      ____ _| |_ ___| |__
\ \ / / _ \ '__\ \ /\ / / _` + "`" + ` | __/ __| '_ \
 \ V /  __/ |   \ V  V / (_| | || (__| | | |
  \_/ \___|_|    \_/\_/ \__,_|\__\___|_| |_|
`

const tagline = "Build version descriptor & client update monitor"

// ANSI 颜色码
const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// PrintBanner 打印 Banner 和版本信息到 stderr
func PrintBanner() {
	// 非终端不输出颜色
	writeBanner(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func writeBanner(w io.Writer, color bool) {
	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + colorReset
	}

	fmt.Fprint(w, paint(colorCyan, banner))
	fmt.Fprintf(w, "  %s\n\n", paint(colorYellow, tagline))
	fmt.Fprintf(w, "%-14s %s\n", "Version:", paint(colorGreen, Resolve()))
	fmt.Fprintf(w, "%-14s %s\n", "Commit:", paint(colorGreen, Commit))
	fmt.Fprintf(w, "%-14s %s\n\n", "Build Time:", paint(colorGreen, BuildTime))
}
