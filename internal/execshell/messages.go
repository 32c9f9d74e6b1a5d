package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitStatusSubcommandNameConstant      = "status"
	gitAddSubcommandNameConstant         = "add"
	gitCommitSubcommandNameConstant      = "commit"
	gitStashSubcommandNameConstant       = "stash"
	gitRevParseSubcommandNameConstant    = "rev-parse"
	gitDescribeSubcommandNameConstant    = "describe"
	gitPullSubcommandNameConstant        = "pull"
	gitRebaseSubcommandNameConstant      = "rebase"
	gitPushSubcommandNameConstant        = "push"
	gitSubmoduleSubcommandNameConstant   = "submodule"
	gitConfigSubcommandNameConstant      = "config"
	gitDiffSubcommandNameConstant        = "diff"
	gitWorkTreeFlagConstant              = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant      = "--symbolic-full-name"
	gitUpstreamReferenceConstant         = "@{u}"
	gitHeadReferenceConstant             = "HEAD"
	gitMessageFlagConstant               = "-m"
	gitFastForwardOnlyFlagConstant       = "--ff-only"
	gitPullRebaseFlagConstant            = "--rebase"
	gitRebaseAbortFlagConstant           = "--abort"
	gitSetUpstreamFlagConstant           = "--set-upstream"
	gitSubmoduleUpdateSubcommandConstant = "update"
	gitCachedFlagConstant                = "--cached"
)

const (
	gitWorkTreeStartTemplateConstant            = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant          = "%s is a Git working tree"
	gitWorkTreeFailureTemplateConstant          = "Could not confirm %s is a Git working tree (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant = "Could not analyze %s: %s"

	gitStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant = "Unable to review working tree status in %s: %s"

	gitStagedInspectionStartTemplateConstant            = "Checking staged changes in %s"
	gitStagedInspectionSuccessTemplateConstant          = "Checked staged changes in %s"
	gitStagedInspectionFailureTemplateConstant          = "Found staged changes in %s (exit code %d%s)"
	gitStagedInspectionExecutionFailureTemplateConstant = "Unable to check staged changes in %s: %s"

	gitAddStartTemplateConstant            = "Staging %s in %s"
	gitAddSuccessTemplateConstant          = "Staged %s in %s"
	gitAddFailureTemplateConstant          = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant = "Unable to stage %s in %s: %s"

	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant = "Unable to create commit in %s with message %q: %s"

	gitStashStartTemplateConstant            = "Stashing local changes in %s"
	gitStashSuccessTemplateConstant          = "Stashed local changes in %s"
	gitStashFailureTemplateConstant          = "Failed to stash local changes in %s (exit code %d%s)"
	gitStashExecutionFailureTemplateConstant = "Unable to stash local changes in %s: %s"

	gitCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant  = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"

	gitUpstreamBranchStartTemplateConstant            = "Checking upstream branch configuration in %s"
	gitUpstreamBranchSuccessTemplateConstant          = "Upstream branch in %s is %s"
	gitUpstreamBranchMissingSuccessTemplateConstant   = "No upstream branch configured in %s"
	gitUpstreamBranchFailureTemplateConstant          = "Failed to check upstream branch configuration in %s (exit code %d%s)"
	gitUpstreamBranchExecutionFailureTemplateConstant = "Unable to check upstream branch configuration in %s: %s"

	gitRevisionStartTemplateConstant            = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant          = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant     = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant          = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant = "Unable to resolve %s in %s: %s"

	gitDescribeStartTemplateConstant            = "Describing current position in %s"
	gitDescribeSuccessTemplateConstant          = "Current position in %s described as %s"
	gitDescribeEmptySuccessTemplateConstant     = "Current position in %s has no matching description"
	gitDescribeFailureTemplateConstant          = "Failed to describe current position in %s (exit code %d%s)"
	gitDescribeExecutionFailureTemplateConstant = "Unable to describe current position in %s: %s"

	gitPullFastForwardStartTemplateConstant   = "Fast-forwarding %s from its upstream"
	gitPullFastForwardSuccessTemplateConstant = "Fast-forwarded %s from its upstream"
	gitPullFastForwardFailureTemplateConstant = "Failed to fast-forward %s from its upstream (exit code %d%s)"
	gitPullRebaseStartTemplateConstant        = "Rebasing %s onto its upstream"
	gitPullRebaseSuccessTemplateConstant      = "Rebased %s onto its upstream"
	gitPullRebaseFailureTemplateConstant      = "Failed to rebase %s onto its upstream (exit code %d%s)"
	gitPullGenericStartTemplateConstant       = "Pulling upstream changes into %s"
	gitPullGenericSuccessTemplateConstant     = "Pulled upstream changes into %s"
	gitPullGenericFailureTemplateConstant     = "Failed to pull upstream changes into %s (exit code %d%s)"
	gitPullExecutionFailureTemplateConstant   = "Unable to pull upstream changes into %s: %s"

	gitRebaseAbortStartTemplateConstant       = "Aborting in-progress rebase in %s"
	gitRebaseAbortSuccessTemplateConstant     = "Aborted in-progress rebase in %s"
	gitRebaseAbortFailureTemplateConstant     = "Failed to abort in-progress rebase in %s (exit code %d%s)"
	gitRebaseGenericStartTemplateConstant     = "Rebasing in %s"
	gitRebaseGenericSuccessTemplateConstant   = "Rebased in %s"
	gitRebaseGenericFailureTemplateConstant   = "Failed to rebase in %s (exit code %d%s)"
	gitRebaseExecutionFailureTemplateConstant = "Unable to rebase in %s: %s"

	gitPushStartTemplateConstant                   = "Pushing local commits from %s"
	gitPushSuccessTemplateConstant                 = "Pushed local commits from %s"
	gitPushFailureTemplateConstant                 = "Failed to push local commits from %s (exit code %d%s)"
	gitPushSetUpstreamStartTemplateConstant        = "Publishing %s to %s from %s"
	gitPushSetUpstreamSuccessTemplateConstant      = "Published %s to %s from %s"
	gitPushSetUpstreamFailureTemplateConstant      = "Failed to publish %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant        = "Unable to push local commits from %s: %s"
	gitPushSetUpstreamExecutionFailureTemplateBase = "Unable to publish %s to %s from %s: %s"

	gitSubmoduleUpdateStartTemplateConstant            = "Initializing and updating submodules in %s"
	gitSubmoduleUpdateSuccessTemplateConstant          = "Initialized and updated submodules in %s"
	gitSubmoduleUpdateFailureTemplateConstant          = "Failed to initialize and update submodules in %s (exit code %d%s)"
	gitSubmoduleUpdateExecutionFailureTemplateConstant = "Unable to initialize and update submodules in %s: %s"

	gitSubmoduleListStartTemplateConstant            = "Reading submodule declarations in %s"
	gitSubmoduleListSuccessTemplateConstant          = "Read submodule declarations in %s"
	gitSubmoduleListFailureTemplateConstant          = "No submodule declarations readable in %s (exit code %d%s)"
	gitSubmoduleListExecutionFailureTemplateConstant = "Unable to read submodule declarations in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitStatusSubcommandNameConstant:
		return formatter.describeSimpleOperation(command, result, failure, stage, gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant)
	case gitDiffSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitCachedFlagConstant) {
			return formatter.describeSimpleOperation(command, result, failure, stage, gitStagedInspectionStartTemplateConstant, gitStagedInspectionSuccessTemplateConstant, gitStagedInspectionFailureTemplateConstant, gitStagedInspectionExecutionFailureTemplateConstant)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitStashSubcommandNameConstant:
		return formatter.describeSimpleOperation(command, result, failure, stage, gitStashStartTemplateConstant, gitStashSuccessTemplateConstant, gitStashFailureTemplateConstant, gitStashExecutionFailureTemplateConstant)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitDescribeSubcommandNameConstant:
		return formatter.describeGitDescribeMessage(command, result, failure, stage)
	case gitPullSubcommandNameConstant:
		return formatter.describeGitPullMessage(command, result, failure, stage)
	case gitRebaseSubcommandNameConstant:
		return formatter.describeGitRebaseMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitSubmoduleSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitSubmoduleUpdateSubcommandConstant) {
			return formatter.describeSimpleOperation(command, result, failure, stage, gitSubmoduleUpdateStartTemplateConstant, gitSubmoduleUpdateSuccessTemplateConstant, gitSubmoduleUpdateFailureTemplateConstant, gitSubmoduleUpdateExecutionFailureTemplateConstant)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	case gitConfigSubcommandNameConstant:
		return formatter.describeSimpleOperation(command, result, failure, stage, gitSubmoduleListStartTemplateConstant, gitSubmoduleListSuccessTemplateConstant, gitSubmoduleListFailureTemplateConstant, gitSubmoduleListExecutionFailureTemplateConstant)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSimpleOperation(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitWorkTreeFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorkTreeStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitWorkTreeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitWorkTreeExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitAbbrevRefFlagConstant) {
		if containsArgument(arguments, gitSymbolicFullNameFlagConstant) && containsArgument(arguments, gitUpstreamReferenceConstant) {
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(gitUpstreamBranchStartTemplateConstant, workingDirectory)
			case messageStageSuccess:
				trimmed := strings.TrimSpace(result.StandardOutput)
				if len(trimmed) == 0 {
					return fmt.Sprintf(gitUpstreamBranchMissingSuccessTemplateConstant, workingDirectory)
				}
				return fmt.Sprintf(gitUpstreamBranchSuccessTemplateConstant, workingDirectory, trimmed)
			case messageStageFailure:
				return fmt.Sprintf(gitUpstreamBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(gitUpstreamBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
			}
		}

		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	reference := formatter.resolveRevisionReference(arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitDescribeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitDescribeStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitDescribeEmptySuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(gitDescribeSuccessTemplateConstant, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitDescribeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitDescribeExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPullMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	startTemplate := gitPullGenericStartTemplateConstant
	successTemplate := gitPullGenericSuccessTemplateConstant
	failureTemplate := gitPullGenericFailureTemplateConstant
	switch {
	case containsArgument(arguments, gitFastForwardOnlyFlagConstant):
		startTemplate = gitPullFastForwardStartTemplateConstant
		successTemplate = gitPullFastForwardSuccessTemplateConstant
		failureTemplate = gitPullFastForwardFailureTemplateConstant
	case containsArgument(arguments, gitPullRebaseFlagConstant):
		startTemplate = gitPullRebaseStartTemplateConstant
		successTemplate = gitPullRebaseSuccessTemplateConstant
		failureTemplate = gitPullRebaseFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPullExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRebaseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	startTemplate := gitRebaseGenericStartTemplateConstant
	successTemplate := gitRebaseGenericSuccessTemplateConstant
	failureTemplate := gitRebaseGenericFailureTemplateConstant
	if containsArgument(arguments, gitRebaseAbortFlagConstant) {
		startTemplate = gitRebaseAbortStartTemplateConstant
		successTemplate = gitRebaseAbortSuccessTemplateConstant
		failureTemplate = gitRebaseAbortFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRebaseExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitSetUpstreamFlagConstant) {
		remoteName, branchName := formatter.extractPublishTarget(arguments)
		trimmedRemote := formatter.ensureValue(remoteName)
		trimmedBranch := formatter.ensureValue(branchName)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitPushSetUpstreamStartTemplateConstant, trimmedBranch, trimmedRemote, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitPushSetUpstreamSuccessTemplateConstant, trimmedBranch, trimmedRemote, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitPushSetUpstreamFailureTemplateConstant, trimmedBranch, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitPushSetUpstreamExecutionFailureTemplateBase, trimmedBranch, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetPath := formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:])
	if len(targetPath) == 0 {
		targetPath = "all changes"
	}
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, targetPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, targetPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitAddExecutionFailureTemplateConstant, targetPath, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	lastArgument := strings.TrimSpace(arguments[len(arguments)-1])
	if len(lastArgument) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return lastArgument
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractPublishTarget(arguments []string) (string, string) {
	nonFlagArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments[1:] {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		nonFlagArguments = append(nonFlagArguments, trimmed)
	}
	remoteName := emptyStringConstant
	branchName := emptyStringConstant
	if len(nonFlagArguments) > 0 {
		remoteName = nonFlagArguments[0]
	}
	if len(nonFlagArguments) > 1 {
		branchName = nonFlagArguments[1]
	}
	return remoteName, branchName
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}
