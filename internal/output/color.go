package output

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// TrueColor returns the 24-bit foreground escape for a "#RRGGBB" colour,
// or "" when hex is malformed.
func TrueColor(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return ""
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

// Paint renders a driver's name in bold livery colour.
func Paint(d Driver, colorize bool) string {
	return paintText(d.Name, d.Color, colorize)
}

func paintText(text, hex string, colorize bool) string {
	if !colorize {
		return text
	}
	code := TrueColor(hex)
	if code == "" {
		return colorBold + text + colorReset
	}
	return colorBold + code + text + colorReset
}

func (wr *Writer) paint(d Driver) string {
	return Paint(d, wr.colorize)
}

func (wr *Writer) paintShort(d Driver) string {
	return paintText(d.Short(), d.Color, wr.colorize)
}

func (wr *Writer) dim(s string) string {
	if !wr.colorize {
		return s
	}
	return colorGray + s + colorReset
}
