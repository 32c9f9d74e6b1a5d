package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/gitrepo"
	"github.com/temirov/treesync/internal/syncer"
	"github.com/temirov/treesync/internal/ui"
	"github.com/temirov/treesync/internal/utils"
	"github.com/temirov/treesync/internal/utils/flags"
	pathutils "github.com/temirov/treesync/internal/utils/path"
	"github.com/temirov/treesync/internal/walker"
)

const (
	applicationNameConstant             = "treesync [path]"
	applicationShortDescriptionConstant = "Synchronize a tree of git repositories with their upstreams"
	applicationLongDescriptionConstant  = "treesync walks a directory tree, commits local modifications in every git repository it finds, reconciles each repository with its upstream, and recurses into declared submodules and nested repositories."

	configFileFlagNameConstant      = "config"
	configFileFlagUsageConstant     = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant        = "log-level"
	logLevelFlagUsageConstant       = "Override the configured log level."
	logFormatFlagNameConstant       = "log-format"
	logFormatFlagUsageConstant      = "Override the configured log format."
	colorFlagNameConstant           = "color"
	colorFlagUsageConstant          = "Colorize console output"
	nonInteractiveFlagNameConstant  = "non-interactive"
	nonInteractiveFlagUsageConstant = "Answer prompts from configured defaults instead of standard input"
	remoteFlagNameConstant          = "remote"
	remoteFlagUsageConstant         = "Remote name used when publishing branches without an upstream"

	commonConfigurationKeyConstant   = "common"
	commonLogLevelConfigKeyConstant  = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant = commonConfigurationKeyConstant + ".log_format"
	syncConfigurationKeyConstant     = "sync"
	syncRemoteNameConfigKeyConstant  = syncConfigurationKeyConstant + ".remote_name"
	syncColorConfigKeyConstant       = syncConfigurationKeyConstant + ".color"

	environmentPrefixConstant              = "TREESYNC"
	configurationNameConstant              = "config"
	configurationTypeConstant              = "yaml"
	defaultConfigurationSearchPathConstant = "."
	defaultRemoteNameConstant              = "origin"

	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"

	traversalStartedMessageConstant    = "repository traversal started"
	traversalFinishedMessageConstant   = "repository traversal finished"
	logFieldStartPathConstant          = "start_path"
	logFieldSynchronizedCountConstant  = "synchronized_count"
	logFieldFailedCountConstant        = "failed_count"
	summaryHeadingConstant             = "summary"
	summarySynchronizedTemplateConst   = "synchronized repositories: %d"
	summaryFailedTemplateConstant      = "failed repositories: %d"
	noRepositoriesFoundMessageConstant = "no git repositories were found to process"
	startPathResolutionWarningTemplate = "%s is not a directory, starting from %s instead"
)

// ErrNoRepositoriesFound reports a traversal that found nothing to process.
// It is the only traversal outcome that maps to a non-zero process exit code;
// individual repository failures never do.
var ErrNoRepositoriesFound = errors.New(noRepositoriesFoundMessageConstant)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Sync   ApplicationSyncConfiguration   `mapstructure:"sync"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationSyncConfiguration stores synchronization behavior defaults.
type ApplicationSyncConfiguration struct {
	RemoteName     string `mapstructure:"remote_name"`
	Color          bool   `mapstructure:"color"`
	NonInteractive bool   `mapstructure:"non_interactive"`
	AssumeStash    bool   `mapstructure:"assume_stash"`
	AssumePublish  bool   `mapstructure:"assume_publish"`
	CommitMessage  string `mapstructure:"commit_message"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand             *cobra.Command
	configurationLoader     *utils.ConfigurationLoader
	loggerFactory           *utils.LoggerFactory
	homeExpander            *pathutils.HomeExpander
	logger                  *zap.Logger
	configuration           ApplicationConfiguration
	configurationMetadata   utils.LoadedConfiguration
	configurationFilePath   string
	logLevelFlagValue       string
	logFormatFlagValue      string
	remoteFlagValue         string
	colorFlagValue          bool
	nonInteractiveFlagValue bool
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		homeExpander:        pathutils.NewHomeExpander(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(
		string(utils.LogLevelInfo),
		[]string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)},
		logLevelFlagUsageConstant,
	))
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(
		string(utils.LogFormatStructured),
		[]string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)},
		logFormatFlagUsageConstant,
	))
	persistentFlags.StringVar(&application.remoteFlagValue, remoteFlagNameConstant, "", remoteFlagUsageConstant)
	flags.AddToggleFlag(persistentFlags, &application.colorFlagValue, colorFlagNameConstant, "", false, colorFlagUsageConstant)
	flags.AddToggleFlag(persistentFlags, &application.nonInteractiveFlagValue, nonInteractiveFlagNameConstant, "", false, nonInteractiveFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application := NewApplication()
	application.rootCommand.SetArgs(flags.NormalizeToggleArguments(os.Args[1:]))
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
		syncRemoteNameConfigKeyConstant:  defaultRemoteNameConstant,
		syncColorConfigKeyConstant:       false,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if command.PersistentFlags().Changed(logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if command.PersistentFlags().Changed(logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if command.PersistentFlags().Changed(remoteFlagNameConstant) {
		application.configuration.Sync.RemoteName = application.remoteFlagValue
	}
	if command.PersistentFlags().Changed(colorFlagNameConstant) {
		application.configuration.Sync.Color = application.colorFlagValue
	}
	if command.PersistentFlags().Changed(nonInteractiveFlagNameConstant) {
		application.configuration.Sync.NonInteractive = application.nonInteractiveFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	outputWriter := utils.NewFlushingWriter(bufio.NewWriter(os.Stdout))
	colorEnabled := application.configuration.Sync.Color && ui.FileSupportsColor(os.Stdout)
	printer := ui.NewConsolePrinter(outputWriter, os.Stderr, colorEnabled)

	startPath, startPathError := application.resolveStartPath(arguments, printer)
	if startPathError != nil {
		return startPathError
	}

	walkerService, wiringError := application.buildWalker(printer, outputWriter)
	if wiringError != nil {
		return wiringError
	}

	application.logger.Debug(traversalStartedMessageConstant, zap.String(logFieldStartPathConstant, startPath))

	outcome, walkError := walkerService.Walk(command.Context(), startPath, walker.TraversalModeRootSearch, 0)
	if walkError != nil {
		return walkError
	}

	application.logger.Debug(
		traversalFinishedMessageConstant,
		zap.Int(logFieldSynchronizedCountConstant, outcome.SynchronizedCount),
		zap.Int(logFieldFailedCountConstant, outcome.FailedCount),
	)

	printer.Sectionf(summaryHeadingConstant)
	printer.Infof(summarySynchronizedTemplateConst, outcome.SynchronizedCount)
	printer.Infof(summaryFailedTemplateConstant, outcome.FailedCount)

	if !outcome.Succeeded() {
		return ErrNoRepositoriesFound
	}

	return nil
}

func (application *Application) resolveStartPath(arguments []string, printer *ui.ConsolePrinter) (string, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", workingDirectoryError
	}

	if len(arguments) == 0 {
		return workingDirectory, nil
	}

	candidatePath := application.homeExpander.Expand(strings.TrimSpace(arguments[0]))
	if len(candidatePath) == 0 {
		return workingDirectory, nil
	}

	pathInformation, statError := os.Stat(candidatePath)
	if statError != nil || !pathInformation.IsDir() {
		printer.Warningf(startPathResolutionWarningTemplate, candidatePath, workingDirectory)
		return workingDirectory, nil
	}

	return candidatePath, nil
}

func (application *Application) buildWalker(printer *ui.ConsolePrinter, promptWriter io.Writer) (*walker.Service, error) {
	var commandObservers []execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		commandObservers = append(commandObservers, ui.NewConsoleCommandEventLogger(application.logger))
	}

	executor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner(), commandObservers...)
	if executorError != nil {
		return nil, executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return nil, managerError
	}

	processor, processorError := syncer.NewService(syncer.Dependencies{
		RepositoryManager: repositoryManager,
		Prompter:          application.buildPrompter(promptWriter),
		Reporter:          printer,
		RemoteName:        application.configuration.Sync.RemoteName,
	})
	if processorError != nil {
		return nil, processorError
	}

	walkerService, walkerError := walker.NewService(walker.Dependencies{
		Inspector: repositoryManager,
		Processor: processor,
		Reporter:  printer,
	})
	if walkerError != nil {
		return nil, walkerError
	}

	return walkerService, nil
}

func (application *Application) buildPrompter(promptWriter io.Writer) syncer.OperatorPrompter {
	if application.configuration.Sync.NonInteractive {
		return syncer.NonInteractiveOperatorPrompter{
			StashChanges:      application.configuration.Sync.AssumeStash,
			PublishBranches:   application.configuration.Sync.AssumePublish,
			CommitMessageText: application.configuration.Sync.CommitMessage,
			RemoteNameText:    application.configuration.Sync.RemoteName,
		}
	}

	return syncer.NewInteractiveOperatorPrompter(os.Stdin, promptWriter)
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}
