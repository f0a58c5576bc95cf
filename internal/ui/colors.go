// Package ui provides the coloured terminal output of the aipster CLI:
// status messages, spinners, prompts and package tables.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Message kinds
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)
	Label   = color.New(color.Bold)

	// Package columns
	PackageName    = color.New(color.FgWhite, color.Bold)
	PackageVersion = color.New(color.FgGreen)
	Installed      = color.New(color.FgGreen)
	Upgradable     = color.New(color.FgYellow, color.Bold)
	NotInstalled   = color.New(color.FgHiBlack)
)

// Out receives regular messages, Err receives warnings and errors.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// UseUnicode selects unicode symbols and spinner frames.
var UseUnicode = true

type symbolSet struct {
	ok, fail, warn, info string
}

var (
	unicodeSymbols = symbolSet{ok: "✓", fail: "✗", warn: "!", info: "→"}
	asciiSymbols   = symbolSet{ok: "[OK]", fail: "[ERROR]", warn: "[WARN]", info: "->"}
	symbols        = unicodeSymbols
)

// Init applies the output settings. NO_COLOR always disables colour.
func Init(useColors, useUnicode bool) {
	if !useColors || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	UseUnicode = useUnicode
	symbols = unicodeSymbols
	if !useUnicode {
		symbols = asciiSymbols
	}
}

func message(w io.Writer, c *color.Color, symbol, format string, args []any) {
	line := fmt.Sprintf(format, args...)
	if symbol != "" {
		line = symbol + " " + line
	}
	c.Fprintln(w, line)
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...any) { message(Out, Success, symbols.ok, format, args) }

// ErrorMsg prints an error message to Err.
func ErrorMsg(format string, args ...any) { message(Err, Error, symbols.fail, format, args) }

// WarningMsg prints a warning to Err.
func WarningMsg(format string, args ...any) { message(Err, Warning, symbols.warn, format, args) }

// InfoMsg prints an info message.
func InfoMsg(format string, args ...any) { message(Out, Info, symbols.info, format, args) }

// MutedMsg prints a dim message without a symbol.
func MutedMsg(format string, args ...any) { message(Out, Muted, "", format, args) }

// HeaderMsg prints a section header preceded by a blank line.
func HeaderMsg(format string, args ...any) {
	fmt.Fprintln(Out)
	message(Out, Header, "", format, args)
}
