// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/juju/errors"
)

// Runner runs a hook tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, stdin []byte, tool string, args ...string) ([]byte, error)
}

// ToolError is returned when a hook tool exits unsuccessfully.
type ToolError struct {
	Tool   string
	Code   int
	Stderr string
}

// Error implements error.
func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited %d", e.Tool, e.Code)
	}
	return fmt.Sprintf("%s exited %d: %s", e.Tool, e.Code, msg)
}

// agentUnavailable reports whether err shows the hook tool could not
// reach the unit agent, which happens while the agent restarts.
func agentUnavailable(err error) bool {
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		return false
	}
	return strings.Contains(toolErr.Stderr, "connection refused") ||
		strings.Contains(toolErr.Stderr, "cannot connect")
}

// ExecRunner runs hook tools as processes found on PATH, which is how the
// unit agent exposes them to hooks.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, stdin []byte, tool string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.Bytes(), nil
	case errors.Is(err, exec.ErrNotFound):
		return nil, errors.NotFoundf("hook tool %q", tool)
	case errors.As(err, &exitErr):
		return nil, &ToolError{
			Tool:   tool,
			Code:   exitErr.ExitCode(),
			Stderr: stderr.String(),
		}
	}
	return nil, errors.Annotatef(err, "running %s", tool)
}
