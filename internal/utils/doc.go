// Package utils exposes reusable helpers consumed by the CLI entrypoint.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging, plus a writer
// wrapper that keeps buffered prompt output visible.
package utils
