// Package ui provides helpers for formatting human-readable console output.
//
// ConsolePrinter renders per-repository progress lines for CLI users, while
// ConsoleCommandEventLogger mirrors git command lifecycle events so detailed
// telemetry continues to flow through structured loggers.
package ui
