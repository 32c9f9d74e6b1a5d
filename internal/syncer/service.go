package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	operatorPrompterMissingMessageConstant  = "operator prompter not configured"
	consoleReporterMissingMessageConstant   = "console reporter not configured"
	defaultRemoteNameConstant               = "origin"
	stashLabelTemplateConstant              = "treesync %s"
	defaultCommitMessageTemplateConstant    = "auto-commit %s"
	stashTimestampLayoutConstant            = time.RFC3339
	commitTimestampLayoutConstant           = time.RFC3339

	dirtyWorktreeMessageTemplateConstant      = "uncommitted changes detected in %s"
	stashedMessageTemplateConstant            = "stashed local changes in %s"
	stashFailureMessageTemplateConstant       = "failed to stash local changes in %s: %v"
	stageFailureMessageTemplateConstant       = "failed to stage changes in %s: %v"
	nothingToCommitMessageTemplateConstant    = "nothing to commit in %s"
	committedMessageTemplateConstant          = "committed staged changes in %s"
	commitFailureMessageTemplateConstant      = "failed to commit staged changes in %s: %v"
	branchFailureMessageTemplateConstant      = "failed to resolve current position in %s: %v"
	fastForwardFailedMessageTemplateConstant  = "fast-forward failed in %s, retrying with rebase"
	rebaseFailedMessageTemplateConstant       = "rebase failed in %s, aborted the partial rebase: %v"
	rebaseAbortFailedMessageTemplateConstant  = "failed to abort partial rebase in %s: %v"
	pushFailureMessageTemplateConstant        = "failed to push %s from %s: %v"
	synchronizedMessageTemplateConstant       = "%s synchronized with %s"
	noUpstreamMessageTemplateConstant         = "branch %s in %s has no configured upstream"
	publishDeclinedMessageTemplateConstant    = "leaving %s unpublished"
	publishedMessageTemplateConstant          = "published %s to %s"
	publishFailureMessageTemplateConstant     = "failed to publish %s to %s: %v"
	dirtyInspectionFailureTemplateConstant    = "failed to inspect working tree in %s: %v"
	stagedInspectionFailureTemplateConstant   = "failed to inspect staged changes in %s: %v"
	upstreamInspectionFailureTemplateConstant = "failed to inspect upstream configuration in %s: %v"
)

// ErrRepositoryPathRequired indicates Process received a blank repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrOperatorPrompterNotConfigured indicates the prompter dependency was missing.
var ErrOperatorPrompterNotConfigured = errors.New(operatorPrompterMissingMessageConstant)

// ErrConsoleReporterNotConfigured indicates the reporter dependency was missing.
var ErrConsoleReporterNotConfigured = errors.New(consoleReporterMissingMessageConstant)

// Dependencies enumerates the collaborators required by the processor.
type Dependencies struct {
	RepositoryManager RepositoryManager
	Prompter          OperatorPrompter
	Reporter          ConsoleReporter
	Clock             Clock
	RemoteName        string
}

// Result captures the observable outcome of processing one repository.
type Result struct {
	RepositoryPath string
	BranchName     string
	CommitCreated  bool
	Succeeded      bool
}

// Service synchronizes one working tree at a time with its upstream.
type Service struct {
	repositoryManager RepositoryManager
	prompter          OperatorPrompter
	reporter          ConsoleReporter
	clock             Clock
	defaultRemoteName string
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrOperatorPrompterNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrConsoleReporterNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	remoteName := strings.TrimSpace(dependencies.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}

	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		prompter:          dependencies.Prompter,
		reporter:          dependencies.Reporter,
		clock:             clock,
		defaultRemoteName: remoteName,
	}, nil
}

// Process stages, commits, and synchronizes the repository at the provided
// path. Synchronization conflicts, push failures, and abandoned rebases are
// reported and reflected in Result.Succeeded; they never surface as errors so
// sibling repositories keep processing.
func (service *Service) Process(executionContext context.Context, repositoryPath string) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	result := Result{RepositoryPath: trimmedRepositoryPath}

	if !service.handleUncommittedChanges(executionContext, trimmedRepositoryPath) {
		return result, nil
	}

	commitCreated, commitSucceeded := service.commitStagedChanges(executionContext, trimmedRepositoryPath)
	if !commitSucceeded {
		return result, nil
	}
	result.CommitCreated = commitCreated

	branchName, branchError := service.repositoryManager.CurrentBranch(executionContext, trimmedRepositoryPath)
	if branchError != nil {
		service.reporter.Errorf(branchFailureMessageTemplateConstant, trimmedRepositoryPath, branchError)
		return result, nil
	}
	result.BranchName = branchName

	upstreamName, upstreamFound, upstreamError := service.repositoryManager.UpstreamBranch(executionContext, trimmedRepositoryPath)
	if upstreamError != nil {
		service.reporter.Errorf(upstreamInspectionFailureTemplateConstant, trimmedRepositoryPath, upstreamError)
		return result, nil
	}

	if upstreamFound {
		result.Succeeded = service.synchronizeWithUpstream(executionContext, trimmedRepositoryPath, branchName, upstreamName)
		return result, nil
	}

	result.Succeeded = service.handleMissingUpstream(executionContext, trimmedRepositoryPath, branchName)
	return result, nil
}

func (service *Service) handleUncommittedChanges(executionContext context.Context, repositoryPath string) bool {
	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil {
		service.reporter.Errorf(dirtyInspectionFailureTemplateConstant, repositoryPath, cleanError)
		return false
	}

	if !clean {
		service.reporter.Infof(dirtyWorktreeMessageTemplateConstant, repositoryPath)

		stashConfirmed, promptError := service.prompter.ConfirmStash(repositoryPath)
		if promptError != nil {
			service.reporter.Errorf(stashFailureMessageTemplateConstant, repositoryPath, promptError)
			return false
		}

		if stashConfirmed {
			stashLabel := fmt.Sprintf(stashLabelTemplateConstant, service.clock.Now().Format(stashTimestampLayoutConstant))
			if stashError := service.repositoryManager.StashPush(executionContext, repositoryPath, stashLabel); stashError != nil {
				service.reporter.Errorf(stashFailureMessageTemplateConstant, repositoryPath, stashError)
				return false
			}
			service.reporter.Successf(stashedMessageTemplateConstant, repositoryPath)
		}
	}

	if stageError := service.repositoryManager.StageAll(executionContext, repositoryPath); stageError != nil {
		service.reporter.Errorf(stageFailureMessageTemplateConstant, repositoryPath, stageError)
		return false
	}

	return true
}

func (service *Service) commitStagedChanges(executionContext context.Context, repositoryPath string) (bool, bool) {
	stagedChangesPresent, stagedError := service.repositoryManager.HasStagedChanges(executionContext, repositoryPath)
	if stagedError != nil {
		service.reporter.Errorf(stagedInspectionFailureTemplateConstant, repositoryPath, stagedError)
		return false, false
	}

	if !stagedChangesPresent {
		service.reporter.Infof(nothingToCommitMessageTemplateConstant, repositoryPath)
		return false, true
	}

	commitMessage, promptError := service.prompter.CommitMessage(repositoryPath)
	if promptError != nil {
		service.reporter.Errorf(commitFailureMessageTemplateConstant, repositoryPath, promptError)
		return false, false
	}

	trimmedCommitMessage := strings.TrimSpace(commitMessage)
	if len(trimmedCommitMessage) == 0 {
		trimmedCommitMessage = fmt.Sprintf(defaultCommitMessageTemplateConstant, service.clock.Now().Format(commitTimestampLayoutConstant))
	}

	if commitError := service.repositoryManager.Commit(executionContext, repositoryPath, trimmedCommitMessage); commitError != nil {
		service.reporter.Errorf(commitFailureMessageTemplateConstant, repositoryPath, commitError)
		return false, false
	}

	service.reporter.Successf(committedMessageTemplateConstant, repositoryPath)
	return true, true
}

func (service *Service) synchronizeWithUpstream(executionContext context.Context, repositoryPath string, branchName string, upstreamName string) bool {
	if fastForwardError := service.repositoryManager.PullFastForward(executionContext, repositoryPath); fastForwardError != nil {
		service.reporter.Warningf(fastForwardFailedMessageTemplateConstant, repositoryPath)

		if rebaseError := service.repositoryManager.PullRebase(executionContext, repositoryPath); rebaseError != nil {
			if abortError := service.repositoryManager.AbortRebase(executionContext, repositoryPath); abortError != nil {
				service.reporter.Warningf(rebaseAbortFailedMessageTemplateConstant, repositoryPath, abortError)
			}
			service.reporter.Errorf(rebaseFailedMessageTemplateConstant, repositoryPath, rebaseError)
			return false
		}
	}

	if pushError := service.repositoryManager.Push(executionContext, repositoryPath); pushError != nil {
		service.reporter.Errorf(pushFailureMessageTemplateConstant, branchName, repositoryPath, pushError)
		return false
	}

	service.reporter.Successf(synchronizedMessageTemplateConstant, repositoryPath, upstreamName)
	return true
}

func (service *Service) handleMissingUpstream(executionContext context.Context, repositoryPath string, branchName string) bool {
	service.reporter.Warningf(noUpstreamMessageTemplateConstant, branchName, repositoryPath)

	publishConfirmed, promptError := service.prompter.ConfirmPublish(repositoryPath, branchName)
	if promptError != nil {
		service.reporter.Errorf(publishFailureMessageTemplateConstant, branchName, service.defaultRemoteName, promptError)
		return false
	}

	if !publishConfirmed {
		service.reporter.Infof(publishDeclinedMessageTemplateConstant, branchName)
		return true
	}

	remoteName, remotePromptError := service.prompter.RemoteName(service.defaultRemoteName)
	if remotePromptError != nil {
		service.reporter.Errorf(publishFailureMessageTemplateConstant, branchName, service.defaultRemoteName, remotePromptError)
		return false
	}

	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = service.defaultRemoteName
	}

	if publishError := service.repositoryManager.PushSetUpstream(executionContext, repositoryPath, trimmedRemoteName, branchName); publishError != nil {
		service.reporter.Errorf(publishFailureMessageTemplateConstant, branchName, trimmedRemoteName, publishError)
		return false
	}

	service.reporter.Successf(publishedMessageTemplateConstant, branchName, trimmedRemoteName)
	return true
}
