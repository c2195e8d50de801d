package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ImpCLIBinName defines the name of the binary for the tests
const ImpCLIBinName = "impctl"

// TestContext specified to run e2e tests
type TestContext struct {
	*CmdContext
	BinaryName string
}

// NewTestContext init a context for the tests
func NewTestContext(binaryName string, env ...string) (*TestContext, error) {
	home, err := os.MkdirTemp("", "impctl-e2e-")
	if err != nil {
		return nil, err
	}
	cc := &CmdContext{
		// An empty home keeps a developer's saved key out of the tests.
		Env: append([]string{"HOME=" + home, "IMPCTL_API_KEY="}, env...),
		Dir: home,
	}

	return &TestContext{
		CmdContext: cc,
		BinaryName: binaryName,
	}, nil
}

// CmdContext provides context for command execution
type CmdContext struct {
	Env   []string
	Dir   string
	Stdin io.Reader
}

// Run executes the provided command within this context
func (cc *CmdContext) Run(cmd *exec.Cmd) ([]byte, error) {
	cmd.Dir = cc.Dir
	cmd.Env = append(os.Environ(), cc.Env...)
	cmd.Stdin = cc.Stdin
	command := strings.Join(cmd.Args, " ")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s failed with error: (%w) %s", command, err, string(output))
	}

	return output, nil
}

// Cleanup removes the temporary home of the context
func (t *TestContext) Cleanup() error {
	return os.RemoveAll(t.Dir)
}

// Ctl is for running the CLI commands
func (t *TestContext) Ctl(makeOptions ...string) (string, error) {
	cmd := exec.Command(t.BinaryName, makeOptions...)
	output, err := t.Run(cmd)
	return string(output), err
}

// ExitCode returns the process exit code carried by an error from Ctl
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
