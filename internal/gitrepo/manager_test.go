package gitrepo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/gitrepo"
)

const (
	testRepositoryPathConstant    = "/workspace/project"
	testCommitMessageConstant     = "auto-commit 2024-05-01T10:00:00Z"
	testStashLabelConstant        = "treesync snapshot"
	testRemoteNameConstant        = "origin"
	testBranchNameConstant        = "main"
	testTagNameConstant           = "v1.4.0"
	testShortIdentifierConstant   = "a1b2c3d"
	testUpstreamReferenceConstant = "origin/main"
)

type scriptedGitExecutor struct {
	responses        map[string]scriptedResponse
	recordedCommands []execshell.CommandDetails
}

type scriptedResponse struct {
	result execshell.ExecutionResult
	err    error
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{responses: map[string]scriptedResponse{}}
}

func (executor *scriptedGitExecutor) script(arguments string, result execshell.ExecutionResult, err error) {
	executor.responses[arguments] = scriptedResponse{result: result, err: err}
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	response, scripted := executor.responses[strings.Join(details.Arguments, " ")]
	if !scripted {
		return execshell.ExecutionResult{}, nil
	}
	return response.result, response.err
}

func exitFailure(arguments []string, exitCode int) error {
	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}}
	return execshell.CommandFailedError{Command: command, Result: execshell.ExecutionResult{ExitCode: exitCode}}
}

func TestRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, manager)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestRepositoryManagerRejectsBlankPaths(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(newScriptedGitExecutor())
	require.NoError(testInstance, creationError)

	_, cleanError := manager.CheckCleanWorktree(context.Background(), "   ")
	require.ErrorIs(testInstance, cleanError, gitrepo.ErrRepositoryPathRequired)
}

func TestIsWorkingTreeRoot(testInstance *testing.T) {
	testCases := []struct {
		name           string
		insideOutput   string
		insideError    error
		prefixOutput   string
		expectedResult bool
	}{
		{
			name:           "working_tree_root",
			insideOutput:   "true\n",
			prefixOutput:   "\n",
			expectedResult: true,
		},
		{
			name:           "nested_directory",
			insideOutput:   "true\n",
			prefixOutput:   "pkg/nested/\n",
			expectedResult: false,
		},
		{
			name:           "not_a_repository",
			insideError:    exitFailure([]string{"rev-parse", "--is-inside-work-tree"}, 128),
			expectedResult: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.script("rev-parse --is-inside-work-tree", execshell.ExecutionResult{StandardOutput: testCase.insideOutput}, testCase.insideError)
			executor.script("rev-parse --show-prefix", execshell.ExecutionResult{StandardOutput: testCase.prefixOutput}, nil)

			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			isRoot, checkError := manager.IsWorkingTreeRoot(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedResult, isRoot)
		})
	}
}

func TestCheckCleanWorktree(testInstance *testing.T) {
	testCases := []struct {
		name          string
		statusOutput  string
		expectedClean bool
	}{
		{name: "clean", statusOutput: "", expectedClean: true},
		{name: "dirty", statusOutput: " M main.go\n?? notes.txt\n", expectedClean: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.script("status --porcelain", execshell.ExecutionResult{StandardOutput: testCase.statusOutput}, nil)

			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			clean, checkError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedClean, clean)
		})
	}
}

func TestHasStagedChangesInterpretsDiffExitCode(testInstance *testing.T) {
	testCases := []struct {
		name           string
		diffError      error
		expectedStaged bool
	}{
		{name: "staged_changes_present", diffError: exitFailure([]string{"diff", "--cached", "--quiet"}, 1), expectedStaged: true},
		{name: "index_clean", diffError: nil, expectedStaged: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.script("diff --cached --quiet", execshell.ExecutionResult{}, testCase.diffError)

			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			staged, checkError := manager.HasStagedChanges(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedStaged, staged)
		})
	}
}

func TestCurrentBranchResolution(testInstance *testing.T) {
	testCases := []struct {
		name           string
		branchOutput   string
		tagOutput      string
		tagError       error
		shortOutput    string
		expectedResult string
	}{
		{
			name:           "attached_branch",
			branchOutput:   testBranchNameConstant + "\n",
			expectedResult: testBranchNameConstant,
		},
		{
			name:           "detached_with_exact_tag",
			branchOutput:   "HEAD\n",
			tagOutput:      testTagNameConstant + "\n",
			expectedResult: testTagNameConstant,
		},
		{
			name:           "detached_without_tag",
			branchOutput:   "HEAD\n",
			tagError:       exitFailure([]string{"describe", "--tags", "--exact-match"}, 128),
			shortOutput:    testShortIdentifierConstant + "\n",
			expectedResult: testShortIdentifierConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.script("rev-parse --abbrev-ref HEAD", execshell.ExecutionResult{StandardOutput: testCase.branchOutput}, nil)
			executor.script("describe --tags --exact-match", execshell.ExecutionResult{StandardOutput: testCase.tagOutput}, testCase.tagError)
			executor.script("rev-parse --short HEAD", execshell.ExecutionResult{StandardOutput: testCase.shortOutput}, nil)

			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			branchName, resolveError := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedResult, branchName)
		})
	}
}

func TestUpstreamBranchReportsMissingUpstreamWithoutError(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.script(
		"rev-parse --abbrev-ref --symbolic-full-name @{u}",
		execshell.ExecutionResult{},
		exitFailure([]string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"}, 128),
	)

	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	upstreamName, upstreamFound, upstreamError := manager.UpstreamBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, upstreamError)
	require.False(testInstance, upstreamFound)
	require.Empty(testInstance, upstreamName)
}

func TestUpstreamBranchReturnsConfiguredUpstream(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.script(
		"rev-parse --abbrev-ref --symbolic-full-name @{u}",
		execshell.ExecutionResult{StandardOutput: testUpstreamReferenceConstant + "\n"},
		nil,
	)

	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	upstreamName, upstreamFound, upstreamError := manager.UpstreamBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, upstreamError)
	require.True(testInstance, upstreamFound)
	require.Equal(testInstance, testUpstreamReferenceConstant, upstreamName)
}

func TestListSubmodulePathsParsesConfigOutput(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.script(
		"config -f .gitmodules --get-regexp ^submodule\\..*\\.path$",
		execshell.ExecutionResult{StandardOutput: "submodule.libs/core.path libs/core\nsubmodule.tools.path tools\n"},
		nil,
	)

	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	submodulePaths, listError := manager.ListSubmodulePaths(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"libs/core", "tools"}, submodulePaths)
}

func TestListSubmodulePathsTreatsMissingGitmodulesAsEmpty(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.script(
		"config -f .gitmodules --get-regexp ^submodule\\..*\\.path$",
		execshell.ExecutionResult{},
		exitFailure([]string{"config"}, 1),
	)

	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	submodulePaths, listError := manager.ListSubmodulePaths(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Empty(testInstance, submodulePaths)
}

func TestRepositoryCommandsCarryWorkingDirectoryAndPromptGuard(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, manager.StageAll(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.Commit(context.Background(), testRepositoryPathConstant, testCommitMessageConstant))
	require.NoError(testInstance, manager.StashPush(context.Background(), testRepositoryPathConstant, testStashLabelConstant))
	require.NoError(testInstance, manager.PullFastForward(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.PullRebase(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.AbortRebase(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.Push(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.PushSetUpstream(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant))
	require.NoError(testInstance, manager.UpdateSubmodules(context.Background(), testRepositoryPathConstant))

	expectedArguments := [][]string{
		{"add", "-A"},
		{"commit", "-m", testCommitMessageConstant},
		{"stash", "push", "-u", "-m", testStashLabelConstant},
		{"pull", "--ff-only"},
		{"pull", "--rebase"},
		{"rebase", "--abort"},
		{"push"},
		{"push", "--set-upstream", testRemoteNameConstant, testBranchNameConstant},
		{"submodule", "update", "--init", "--recursive"},
	}

	require.Len(testInstance, executor.recordedCommands, len(expectedArguments))
	for commandIndex, recordedCommand := range executor.recordedCommands {
		require.Equal(testInstance, expectedArguments[commandIndex], recordedCommand.Arguments)
		require.Equal(testInstance, testRepositoryPathConstant, recordedCommand.WorkingDirectory)
		require.Equal(testInstance, "0", recordedCommand.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	}
}
