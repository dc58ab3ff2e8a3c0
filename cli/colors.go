package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in an ANSI color when useColor is set.
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// ShouldUseColor reports whether stderr is a terminal and color is not
// disabled by --no-color or NO_COLOR.
func ShouldUseColor(noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func noColorFlag(root *cobra.Command) bool {
	v, err := root.PersistentFlags().GetBool("no-color")
	return err == nil && v
}
