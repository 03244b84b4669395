package utils

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// RunCommandCapture runs a command and returns trimmed stdout or an error
func RunCommandCapture(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("no command provided")
	}
	cmd := exec.Command(args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunCommandSplit runs a command and returns stdout and stderr separately.
// The error reflects the process exit status only; callers that need to
// treat stderr output as a failure signal inspect the returned stderr.
func RunCommandSplit(args []string) (string, string, error) {
	if len(args) == 0 {
		return "", "", fmt.Errorf("no command provided")
	}
	cmd := exec.Command(args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}
