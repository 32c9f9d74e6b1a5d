package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessagesDescribeGitSubcommands(t *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{
			name:            "status",
			arguments:       []string{"status", "--porcelain"},
			expectedMessage: "Reviewing working tree status in /workspace/repo",
		},
		{
			name:            "stash_push",
			arguments:       []string{"stash", "push", "-u", "-m", "treesync snapshot"},
			expectedMessage: "Stashing local changes in /workspace/repo",
		},
		{
			name:            "pull_fast_forward",
			arguments:       []string{"pull", "--ff-only"},
			expectedMessage: "Fast-forwarding /workspace/repo from its upstream",
		},
		{
			name:            "pull_rebase",
			arguments:       []string{"pull", "--rebase"},
			expectedMessage: "Rebasing /workspace/repo onto its upstream",
		},
		{
			name:            "rebase_abort",
			arguments:       []string{"rebase", "--abort"},
			expectedMessage: "Aborting in-progress rebase in /workspace/repo",
		},
		{
			name:            "push_set_upstream",
			arguments:       []string{"push", "--set-upstream", "origin", "feature"},
			expectedMessage: "Publishing feature to origin from /workspace/repo",
		},
		{
			name:            "submodule_update",
			arguments:       []string{"submodule", "update", "--init", "--recursive"},
			expectedMessage: "Initializing and updating submodules in /workspace/repo",
		},
		{
			name:            "submodule_declarations",
			arguments:       []string{"config", "-f", ".gitmodules", "--get-regexp", "^submodule\\..*\\.path$"},
			expectedMessage: "Reading submodule declarations in /workspace/repo",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{
				Name: CommandGit,
				Details: CommandDetails{
					Arguments:        testCase.arguments,
					WorkingDirectory: "/workspace/repo",
				},
			}
			require.Equal(t, testCase.expectedMessage, formatter.BuildStartedMessage(command))
		})
	}
}

func TestBuildSuccessMessageForCurrentBranchReportsDetachedState(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "--abbrev-ref", "HEAD"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.buildMessage(command, ExecutionResult{StandardOutput: "HEAD\n"}, nil, messageStageSuccess)

	require.Equal(t, "/workspace/repo is in a detached HEAD state", message)
}

func TestBuildSuccessMessageForUpstreamLookupReportsMissingUpstream(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)

	require.Equal(t, "No upstream branch configured in /workspace/repo", message)
}
