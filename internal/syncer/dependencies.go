package syncer

import (
	"context"
	"time"
)

// RepositoryManager exposes the repository-level git operations used by the processor.
type RepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	StashPush(executionContext context.Context, repositoryPath string, stashLabel string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	Commit(executionContext context.Context, repositoryPath string, commitMessage string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	UpstreamBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	PullFastForward(executionContext context.Context, repositoryPath string) error
	PullRebase(executionContext context.Context, repositoryPath string) error
	AbortRebase(executionContext context.Context, repositoryPath string) error
	Push(executionContext context.Context, repositoryPath string) error
	PushSetUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// OperatorPrompter collects operator decisions at the points where
// synchronization is destructive or ambiguous.
type OperatorPrompter interface {
	// ConfirmStash asks whether uncommitted changes should be saved aside
	// before proceeding; an empty interactive response means no.
	ConfirmStash(repositoryPath string) (bool, error)
	// CommitMessage collects a commit message; an empty response selects the
	// generated timestamped default.
	CommitMessage(repositoryPath string) (string, error)
	// ConfirmPublish asks whether a branch without an upstream should be
	// published; an empty interactive response means no.
	ConfirmPublish(repositoryPath string, branchName string) (bool, error)
	// RemoteName collects the remote to publish to; an empty response selects
	// the provided default.
	RemoteName(defaultRemoteName string) (string, error)
}

// ConsoleReporter renders human-readable progress for the operator.
type ConsoleReporter interface {
	Infof(format string, arguments ...any)
	Successf(format string, arguments ...any)
	Warningf(format string, arguments ...any)
	Errorf(format string, arguments ...any)
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
