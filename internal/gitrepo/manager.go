package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/treesync/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	repositoryPathMissingMessageConstant        = "repository path must be provided"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	workTreeConfirmationValueConstant           = "true"
	detachedHeadReferenceConstant               = "HEAD"
	statusSubcommandConstant                    = "status"
	statusPorcelainFlagConstant                 = "--porcelain"
	diffSubcommandConstant                      = "diff"
	diffCachedFlagConstant                      = "--cached"
	diffQuietFlagConstant                       = "--quiet"
	stashSubcommandConstant                     = "stash"
	stashPushSubcommandConstant                 = "push"
	stashIncludeUntrackedFlagConstant           = "-u"
	addSubcommandConstant                       = "add"
	addAllFlagConstant                          = "-A"
	commitSubcommandConstant                    = "commit"
	messageFlagConstant                         = "-m"
	revParseSubcommandConstant                  = "rev-parse"
	workTreeFlagConstant                        = "--is-inside-work-tree"
	showPrefixFlagConstant                      = "--show-prefix"
	abbrevRefFlagConstant                       = "--abbrev-ref"
	symbolicFullNameFlagConstant                = "--symbolic-full-name"
	shortFlagConstant                           = "--short"
	upstreamReferenceConstant                   = "@{u}"
	describeSubcommandConstant                  = "describe"
	describeTagsFlagConstant                    = "--tags"
	describeExactMatchFlagConstant              = "--exact-match"
	pullSubcommandConstant                      = "pull"
	fastForwardOnlyFlagConstant                 = "--ff-only"
	pullRebaseFlagConstant                      = "--rebase"
	rebaseSubcommandConstant                    = "rebase"
	rebaseAbortFlagConstant                     = "--abort"
	pushSubcommandConstant                      = "push"
	setUpstreamFlagConstant                     = "--set-upstream"
	submoduleSubcommandConstant                 = "submodule"
	submoduleUpdateSubcommandConstant           = "update"
	submoduleInitFlagConstant                   = "--init"
	submoduleRecursiveFlagConstant              = "--recursive"
	configSubcommandConstant                    = "config"
	configFileFlagConstant                      = "-f"
	gitmodulesFileNameConstant                  = ".gitmodules"
	configGetRegexpFlagConstant                 = "--get-regexp"
	submodulePathKeyPatternConstant             = "^submodule\\..*\\.path$"
	submodulePathFieldCountConstant             = 2
	upstreamResolutionFailureTemplateConstant   = "failed to resolve upstream: %w"
	branchResolutionFailureTemplateConstant     = "failed to resolve current branch: %w"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an operation received a blank repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by repository operations.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git operations through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsWorkingTreeRoot reports whether the path is the top level of a git working tree.
func (manager *RepositoryManager) IsWorkingTreeRoot(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return false, pathError
	}

	insideResult, insideError := manager.executeGit(executionContext, trimmedPath, revParseSubcommandConstant, workTreeFlagConstant)
	if insideError != nil {
		if isExitFailure(insideError) {
			return false, nil
		}
		return false, insideError
	}
	if strings.TrimSpace(insideResult.StandardOutput) != workTreeConfirmationValueConstant {
		return false, nil
	}

	// --show-prefix prints an empty line at the top level and the relative
	// path otherwise, which sidesteps symlink-sensitive path comparisons.
	prefixResult, prefixError := manager.executeGit(executionContext, trimmedPath, revParseSubcommandConstant, showPrefixFlagConstant)
	if prefixError != nil {
		if isExitFailure(prefixError) {
			return false, nil
		}
		return false, prefixError
	}

	return len(strings.TrimSpace(prefixResult.StandardOutput)) == 0, nil
}

// CheckCleanWorktree reports whether the repository has no uncommitted changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return false, pathError
	}

	statusResult, statusError := manager.executeGit(executionContext, trimmedPath, statusSubcommandConstant, statusPorcelainFlagConstant)
	if statusError != nil {
		return false, statusError
	}

	return len(strings.TrimSpace(statusResult.StandardOutput)) == 0, nil
}

// HasStagedChanges reports whether the repository index differs from HEAD.
func (manager *RepositoryManager) HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return false, pathError
	}

	// git diff --cached --quiet exits 1 when staged changes exist.
	_, diffError := manager.executeGit(executionContext, trimmedPath, diffSubcommandConstant, diffCachedFlagConstant, diffQuietFlagConstant)
	if diffError != nil {
		if isExitFailure(diffError) {
			return true, nil
		}
		return false, diffError
	}

	return false, nil
}

// StashPush saves local modifications, including untracked files, under the provided label.
func (manager *RepositoryManager) StashPush(executionContext context.Context, repositoryPath string, stashLabel string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, stashError := manager.executeGit(executionContext, trimmedPath, stashSubcommandConstant, stashPushSubcommandConstant, stashIncludeUntrackedFlagConstant, messageFlagConstant, stashLabel)
	return stashError
}

// StageAll stages every modification, addition, and deletion in the working tree.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, addError := manager.executeGit(executionContext, trimmedPath, addSubcommandConstant, addAllFlagConstant)
	return addError
}

// Commit records the staged changes with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, commitError := manager.executeGit(executionContext, trimmedPath, commitSubcommandConstant, messageFlagConstant, commitMessage)
	return commitError
}

// CurrentBranch resolves the current branch name, falling back to an exact tag
// match and then a short commit identifier when the repository is detached.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return "", pathError
	}

	branchResult, branchError := manager.executeGit(executionContext, trimmedPath, revParseSubcommandConstant, abbrevRefFlagConstant, detachedHeadReferenceConstant)
	if branchError != nil {
		return "", fmt.Errorf(branchResolutionFailureTemplateConstant, branchError)
	}

	branchName := strings.TrimSpace(branchResult.StandardOutput)
	if len(branchName) > 0 && !strings.EqualFold(branchName, detachedHeadReferenceConstant) {
		return branchName, nil
	}

	tagResult, tagError := manager.executeGit(executionContext, trimmedPath, describeSubcommandConstant, describeTagsFlagConstant, describeExactMatchFlagConstant)
	if tagError == nil {
		tagName := strings.TrimSpace(tagResult.StandardOutput)
		if len(tagName) > 0 {
			return tagName, nil
		}
	} else if !isExitFailure(tagError) {
		return "", fmt.Errorf(branchResolutionFailureTemplateConstant, tagError)
	}

	shortResult, shortError := manager.executeGit(executionContext, trimmedPath, revParseSubcommandConstant, shortFlagConstant, detachedHeadReferenceConstant)
	if shortError != nil {
		return "", fmt.Errorf(branchResolutionFailureTemplateConstant, shortError)
	}

	return strings.TrimSpace(shortResult.StandardOutput), nil
}

// UpstreamBranch resolves the configured upstream for the current branch.
// A missing upstream is reported through the boolean, not as an error.
func (manager *RepositoryManager) UpstreamBranch(executionContext context.Context, repositoryPath string) (string, bool, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return "", false, pathError
	}

	upstreamResult, upstreamError := manager.executeGit(executionContext, trimmedPath, revParseSubcommandConstant, abbrevRefFlagConstant, symbolicFullNameFlagConstant, upstreamReferenceConstant)
	if upstreamError != nil {
		if isExitFailure(upstreamError) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(upstreamResolutionFailureTemplateConstant, upstreamError)
	}

	upstreamName := strings.TrimSpace(upstreamResult.StandardOutput)
	if len(upstreamName) == 0 {
		return "", false, nil
	}

	return upstreamName, true, nil
}

// PullFastForward incorporates upstream commits only when no divergent local commits exist.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, pullError := manager.executeGit(executionContext, trimmedPath, pullSubcommandConstant, fastForwardOnlyFlagConstant)
	return pullError
}

// PullRebase replays local commits on top of updated upstream history.
func (manager *RepositoryManager) PullRebase(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, pullError := manager.executeGit(executionContext, trimmedPath, pullSubcommandConstant, pullRebaseFlagConstant)
	return pullError
}

// AbortRebase abandons an in-progress rebase, restoring the prior branch state.
func (manager *RepositoryManager) AbortRebase(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, abortError := manager.executeGit(executionContext, trimmedPath, rebaseSubcommandConstant, rebaseAbortFlagConstant)
	return abortError
}

// Push publishes local commits to the configured upstream.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, pushError := manager.executeGit(executionContext, trimmedPath, pushSubcommandConstant)
	return pushError
}

// PushSetUpstream publishes the branch to the remote and records it as the upstream.
func (manager *RepositoryManager) PushSetUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, pushError := manager.executeGit(executionContext, trimmedPath, pushSubcommandConstant, setUpstreamFlagConstant, remoteName, branchName)
	return pushError
}

// UpdateSubmodules materializes any uninitialized submodules recursively.
func (manager *RepositoryManager) UpdateSubmodules(executionContext context.Context, repositoryPath string) error {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return pathError
	}

	_, updateError := manager.executeGit(executionContext, trimmedPath, submoduleSubcommandConstant, submoduleUpdateSubcommandConstant, submoduleInitFlagConstant, submoduleRecursiveFlagConstant)
	return updateError
}

// ListSubmodulePaths enumerates the submodule paths declared in .gitmodules.
// Repositories without submodule declarations yield an empty list.
func (manager *RepositoryManager) ListSubmodulePaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	trimmedPath, pathError := requirePath(repositoryPath)
	if pathError != nil {
		return nil, pathError
	}

	configResult, configError := manager.executeGit(executionContext, trimmedPath, configSubcommandConstant, configFileFlagConstant, gitmodulesFileNameConstant, configGetRegexpFlagConstant, submodulePathKeyPatternConstant)
	if configError != nil {
		if isExitFailure(configError) {
			return nil, nil
		}
		return nil, configError
	}

	var submodulePaths []string
	for _, outputLine := range strings.Split(configResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		lineFields := strings.SplitN(trimmedLine, " ", submodulePathFieldCountConstant)
		if len(lineFields) < submodulePathFieldCountConstant {
			continue
		}
		submodulePath := strings.TrimSpace(lineFields[1])
		if len(submodulePath) > 0 {
			submodulePaths = append(submodulePaths, submodulePath)
		}
	}

	return submodulePaths, nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	}
	return manager.executor.ExecuteGit(executionContext, details)
}

func requirePath(repositoryPath string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	return trimmedPath, nil
}

func isExitFailure(executionError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(executionError, &commandFailure)
}
