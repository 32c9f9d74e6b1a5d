package syncer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	stashPromptTemplateConstant   = "Uncommitted changes in %s. Stash them before proceeding? [y/N] "
	commitPromptTemplateConstant  = "Commit message for %s (empty for a timestamped default): "
	publishPromptTemplateConstant = "Branch %s in %s has no upstream. Publish it? [y/N] "
	remotePromptTemplateConstant  = "Remote name [%s]: "
	affirmativeShortAnswer        = "y"
	affirmativeLongAnswer         = "yes"
)

// InteractiveOperatorPrompter reads operator decisions from an io.Reader,
// writing each prompt to the provided writer. Empty confirmation responses
// are negative; empty text responses select the caller's default.
type InteractiveOperatorPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewInteractiveOperatorPrompter constructs a prompter from the provided reader and writer.
func NewInteractiveOperatorPrompter(input io.Reader, output io.Writer) *InteractiveOperatorPrompter {
	return &InteractiveOperatorPrompter{reader: bufio.NewReader(input), writer: output}
}

// ConfirmStash implements OperatorPrompter.
func (prompter *InteractiveOperatorPrompter) ConfirmStash(repositoryPath string) (bool, error) {
	return prompter.confirm(fmt.Sprintf(stashPromptTemplateConstant, repositoryPath))
}

// CommitMessage implements OperatorPrompter.
func (prompter *InteractiveOperatorPrompter) CommitMessage(repositoryPath string) (string, error) {
	return prompter.readLine(fmt.Sprintf(commitPromptTemplateConstant, repositoryPath))
}

// ConfirmPublish implements OperatorPrompter.
func (prompter *InteractiveOperatorPrompter) ConfirmPublish(repositoryPath string, branchName string) (bool, error) {
	return prompter.confirm(fmt.Sprintf(publishPromptTemplateConstant, branchName, repositoryPath))
}

// RemoteName implements OperatorPrompter.
func (prompter *InteractiveOperatorPrompter) RemoteName(defaultRemoteName string) (string, error) {
	return prompter.readLine(fmt.Sprintf(remotePromptTemplateConstant, defaultRemoteName))
}

func (prompter *InteractiveOperatorPrompter) confirm(prompt string) (bool, error) {
	response, readError := prompter.readLine(prompt)
	if readError != nil {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortAnswer, affirmativeLongAnswer:
		return true, nil
	default:
		return false, nil
	}
}

func (prompter *InteractiveOperatorPrompter) readLine(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return "", readError
	}

	return strings.TrimSpace(response), nil
}

// NonInteractiveOperatorPrompter answers every prompt from configured
// defaults without touching standard input, enabling scripted runs.
type NonInteractiveOperatorPrompter struct {
	StashChanges      bool
	PublishBranches   bool
	CommitMessageText string
	RemoteNameText    string
}

// ConfirmStash implements OperatorPrompter using the configured default.
func (prompter NonInteractiveOperatorPrompter) ConfirmStash(string) (bool, error) {
	return prompter.StashChanges, nil
}

// CommitMessage implements OperatorPrompter using the configured default.
func (prompter NonInteractiveOperatorPrompter) CommitMessage(string) (string, error) {
	return prompter.CommitMessageText, nil
}

// ConfirmPublish implements OperatorPrompter using the configured default.
func (prompter NonInteractiveOperatorPrompter) ConfirmPublish(string, string) (bool, error) {
	return prompter.PublishBranches, nil
}

// RemoteName implements OperatorPrompter using the configured default.
func (prompter NonInteractiveOperatorPrompter) RemoteName(string) (string, error) {
	return prompter.RemoteNameText, nil
}
