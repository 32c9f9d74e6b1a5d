// Package cli constructs the treesync command-line interface, wiring the
// Cobra root command, configuration loader, structured logging, and the
// repository traversal services into a runnable application.
package cli
