package ui_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/ui"
)

const (
	testPrinterMessageConstant    = "repository /tmp/project"
	ansiGreenExpectationConstant  = "\033[32m"
	ansiYellowExpectationConstant = "\033[33m"
	ansiRedExpectationConstant    = "\033[31m"
	ansiResetExpectationConstant  = "\033[0m"
)

func TestConsolePrinterRoutesLinesToWriters(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	printer := ui.NewConsolePrinter(outputBuffer, errorBuffer, false)

	printer.Sectionf("%s", testPrinterMessageConstant)
	printer.Infof("%s", testPrinterMessageConstant)
	printer.Successf("%s", testPrinterMessageConstant)
	printer.Warningf("%s", testPrinterMessageConstant)
	printer.Errorf("%s", testPrinterMessageConstant)

	outputText := outputBuffer.String()
	require.Contains(testInstance, outputText, "==> "+testPrinterMessageConstant)
	require.Contains(testInstance, outputText, "✔ "+testPrinterMessageConstant)
	require.Contains(testInstance, outputText, "⚠ "+testPrinterMessageConstant)
	require.NotContains(testInstance, outputText, "✖")

	errorText := errorBuffer.String()
	require.Contains(testInstance, errorText, "✖ "+testPrinterMessageConstant)
	require.NotContains(testInstance, errorText, "✔")
}

func TestConsolePrinterColorToggle(testInstance *testing.T) {
	testCases := []struct {
		name         string
		colorEnabled bool
	}{
		{name: "color_enabled", colorEnabled: true},
		{name: "color_disabled", colorEnabled: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			errorBuffer := &bytes.Buffer{}
			printer := ui.NewConsolePrinter(outputBuffer, errorBuffer, testCase.colorEnabled)

			printer.Successf("%s", testPrinterMessageConstant)
			printer.Warningf("%s", testPrinterMessageConstant)
			printer.Errorf("%s", testPrinterMessageConstant)

			combinedText := outputBuffer.String() + errorBuffer.String()
			if testCase.colorEnabled {
				require.Contains(testInstance, combinedText, ansiGreenExpectationConstant)
				require.Contains(testInstance, combinedText, ansiYellowExpectationConstant)
				require.Contains(testInstance, combinedText, ansiRedExpectationConstant)
				require.Contains(testInstance, combinedText, ansiResetExpectationConstant)
			} else {
				require.False(testInstance, strings.Contains(combinedText, "\033["))
			}
		})
	}
}

func TestConsolePrinterToleratesNilWriters(testInstance *testing.T) {
	printer := ui.NewConsolePrinter(nil, nil, true)

	printer.Sectionf("%s", testPrinterMessageConstant)
	printer.Infof("%s", testPrinterMessageConstant)
	printer.Successf("%s", testPrinterMessageConstant)
	printer.Warningf("%s", testPrinterMessageConstant)
	printer.Errorf("%s", testPrinterMessageConstant)
}

func TestFileSupportsColorRejectsNonTerminalSinks(testInstance *testing.T) {
	require.False(testInstance, ui.FileSupportsColor(nil))

	regularFile, createError := os.CreateTemp(testInstance.TempDir(), "captured-output")
	require.NoError(testInstance, createError)
	defer func() { require.NoError(testInstance, regularFile.Close()) }()
	require.False(testInstance, ui.FileSupportsColor(regularFile))
}

func TestFileSupportsColorAcceptsCharacterDevices(testInstance *testing.T) {
	characterDevice, openError := os.Open(os.DevNull)
	require.NoError(testInstance, openError)
	defer func() { require.NoError(testInstance, characterDevice.Close()) }()
	require.True(testInstance, ui.FileSupportsColor(characterDevice))
}
