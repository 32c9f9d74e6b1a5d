package ui

import (
	"fmt"
	"io"
	"os"
)

const (
	ansiResetSequenceConstant  = "\033[0m"
	ansiBoldSequenceConstant   = "\033[1m"
	ansiRedSequenceConstant    = "\033[31m"
	ansiGreenSequenceConstant  = "\033[32m"
	ansiYellowSequenceConstant = "\033[33m"

	sectionLineTemplateConstant = "\n%s==> %s%s\n"
	successLineTemplateConstant = "%s✔ %s%s\n"
	warningLineTemplateConstant = "%s⚠ %s%s\n"
	errorLineTemplateConstant   = "%s✖ %s%s\n"
	infoLineTemplateConstant    = "  %s\n"
	plainDecorationConstant     = ""
)

// ConsolePrinter renders traversal progress for CLI users. Success, warning,
// and section lines go to the output writer; error lines go to the error
// writer. Color sequences are emitted only when enabled.
type ConsolePrinter struct {
	outputWriter io.Writer
	errorWriter  io.Writer
	colorEnabled bool
}

// NewConsolePrinter constructs a printer over the provided writers. Nil
// writers silence the corresponding lines.
func NewConsolePrinter(outputWriter io.Writer, errorWriter io.Writer, colorEnabled bool) *ConsolePrinter {
	return &ConsolePrinter{outputWriter: outputWriter, errorWriter: errorWriter, colorEnabled: colorEnabled}
}

// FileSupportsColor reports whether the file is attached to a character
// device such as an interactive terminal. Redirected or piped output falls
// back to plain text.
func FileSupportsColor(outputFile *os.File) bool {
	if outputFile == nil {
		return false
	}
	fileInformation, statError := outputFile.Stat()
	if statError != nil {
		return false
	}
	return fileInformation.Mode()&os.ModeCharDevice != 0
}

// Sectionf prints a highlighted section header to the output writer.
func (printer *ConsolePrinter) Sectionf(format string, arguments ...any) {
	printer.writeLine(printer.outputWriter, sectionLineTemplateConstant, ansiBoldSequenceConstant, fmt.Sprintf(format, arguments...))
}

// Infof prints an indented informational line to the output writer.
func (printer *ConsolePrinter) Infof(format string, arguments ...any) {
	if printer.outputWriter == nil {
		return
	}
	fmt.Fprintf(printer.outputWriter, infoLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Successf prints a success line to the output writer.
func (printer *ConsolePrinter) Successf(format string, arguments ...any) {
	printer.writeLine(printer.outputWriter, successLineTemplateConstant, ansiGreenSequenceConstant, fmt.Sprintf(format, arguments...))
}

// Warningf prints a warning line to the output writer.
func (printer *ConsolePrinter) Warningf(format string, arguments ...any) {
	printer.writeLine(printer.outputWriter, warningLineTemplateConstant, ansiYellowSequenceConstant, fmt.Sprintf(format, arguments...))
}

// Errorf prints an error line to the error writer.
func (printer *ConsolePrinter) Errorf(format string, arguments ...any) {
	printer.writeLine(printer.errorWriter, errorLineTemplateConstant, ansiRedSequenceConstant, fmt.Sprintf(format, arguments...))
}

func (printer *ConsolePrinter) writeLine(targetWriter io.Writer, lineTemplate string, colorSequence string, message string) {
	if targetWriter == nil {
		return
	}

	openingDecoration := plainDecorationConstant
	closingDecoration := plainDecorationConstant
	if printer.colorEnabled {
		openingDecoration = colorSequence
		closingDecoration = ansiResetSequenceConstant
	}

	fmt.Fprintf(targetWriter, lineTemplate, openingDecoration, message, closingDecoration)
}
