package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// colorEnabled reports whether stdout is an interactive terminal.
// Checked on every call because tests swap os.Stdout for a pipe.
func colorEnabled() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(color, s string) string {
	if !colorEnabled() {
		return s
	}
	return color + s + reset
}

func line(level, color, tag, msg string) {
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stdout, "%s %s %-6s %s\n",
		paint(dim, ts),
		paint(color, level),
		paint(bold, "["+tag+"]"),
		msg,
	)
}

// Info logs an informational message under the given tag.
func Info(tag, msg string) { line("INFO", cyan, tag, msg) }

// Success logs a completed step.
func Success(tag, msg string) { line(" OK ", green, tag, msg) }

// Warn logs a recoverable problem.
func Warn(tag, msg string) { line("WARN", yellow, tag, msg) }

// Error logs a failure. It never exits the process.
func Error(tag, msg string) { line("ERR ", red, tag, msg) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	title := "EVE Render " + version
	bar := strings.Repeat("─", len(title)+4)
	fmt.Fprintln(os.Stdout, paint(cyan, "┌"+bar+"┐"))
	fmt.Fprintln(os.Stdout, paint(cyan, "│  ")+paint(bold, title)+paint(cyan, "  │"))
	fmt.Fprintln(os.Stdout, paint(cyan, "└"+bar+"┘"))
}

// Section prints a section header used before a block of Stats lines.
func Section(title string) {
	fmt.Fprintf(os.Stdout, "\n%s\n", paint(bold, "── "+title+" ──"))
}

// Stats prints a single key/value statistic. Integer values are comma-grouped.
func Stats(key string, value interface{}) {
	var v string
	switch n := value.(type) {
	case int:
		v = humanize.Comma(int64(n))
	case int32:
		v = humanize.Comma(int64(n))
	case int64:
		v = humanize.Comma(n)
	case uint64:
		v = humanize.Comma(int64(n))
	case float64:
		v = humanize.CommafWithDigits(n, 2)
	default:
		v = fmt.Sprint(value)
	}
	fmt.Fprintf(os.Stdout, "  %-20s %s\n", key+":", paint(green, v))
}

// Server announces the status API listen address.
func Server(addr string) {
	line("INFO", cyan, "API", "Listening on "+paint(bold, "http://"+addr))
}
