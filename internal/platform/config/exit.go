package config

import (
	"os"

	"github.com/fatih/color"
)

var exitColor = color.New(color.FgRed, color.Bold)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	exitColor.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
