// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"
)

type (
	// Config configures the wrapper.
	Config struct {
		// ProgramPath is the path to the git program. When empty the
		// program is looked up in PATH.
		ProgramPath string

		// WorkingDir sets the directory where the commands run.
		WorkingDir string

		// InheritEnv tells if the parent environment variables must be
		// inherited by the git client.
		InheritEnv bool
	}

	// Git is the wrapper object.
	Git struct {
		config Config
	}

	// Error is the sentinel error type.
	Error string

	// CmdError is the error for failed commands.
	CmdError struct {
		cmd    string // Command-line executed
		stdout []byte // stdout of the failed command
		stderr []byte // stderr of the failed command
	}
)

const (
	// ErrGitNotFound is the error that tells if git was not found.
	ErrGitNotFound Error = "git program not found"

	// ErrInvalidConfig is the error that tells if the configuration is invalid.
	ErrInvalidConfig Error = "invalid configuration"
)

// WithConfig creates a new git wrapper by providing the config.
// It fails if the git program cannot be found or does not respond to a
// version probe.
func WithConfig(cfg Config) (*Git, error) {
	git := &Git{
		config: cfg,
	}

	err := git.applyDefaults()
	if err != nil {
		return nil, fmt.Errorf("applying default config values: %w", err)
	}

	err = git.validate()
	if err != nil {
		return nil, err
	}

	_, err = git.Version()
	return git, err
}

func (git *Git) applyDefaults() error {
	cfg := &git.config

	if cfg.ProgramPath == "" {
		programPath, err := safeexec.LookPath("git")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGitNotFound, err)
		}

		cfg.ProgramPath = programPath
	}

	if cfg.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		cfg.WorkingDir = wd
	}

	return nil
}

func (git *Git) validate() error {
	cfg := git.config

	_, err := os.Stat(cfg.ProgramPath)
	if err != nil {
		return fmt.Errorf("failed to stat git program path %q: %w: %v",
			cfg.ProgramPath, ErrInvalidConfig, err)
	}

	return nil
}

// Version of the git program.
func (git *Git) Version() (string, error) {
	out, err := git.exec("--version")
	if err != nil {
		return "", err
	}

	const expected = "git version "

	// git version 2.33.1
	if strings.HasPrefix(out, expected) {
		return out[len(expected):], nil
	}

	return "", fmt.Errorf("unexpected \"git version\" output: %q", out)
}

// RemoteURL returns the URL of the origin remote. It fails if the
// repository has no origin remote configured.
func (git *Git) RemoteURL() (string, error) {
	return git.exec("config", "--get", "remote.origin.url")
}

// HeadCommit returns the full commit id HEAD points to.
func (git *Git) HeadCommit() (string, error) {
	return git.exec("rev-parse", "--verify", "HEAD")
}

// ShortHeadCommit returns the 8 character commit id HEAD points to.
func (git *Git) ShortHeadCommit() (string, error) {
	return git.exec("rev-parse", "--short=8", "--verify", "HEAD")
}

// CurrentBranch returns the abbreviated reference name HEAD points to.
func (git *Git) CurrentBranch() (string, error) {
	return git.exec("rev-parse", "--abbrev-ref", "HEAD")
}

// Status returns the working tree status in the porcelain format.
// An empty result means the working tree is clean.
func (git *Git) Status() (string, error) {
	return git.exec("status", "--porcelain")
}

func (git *Git) exec(command string, args ...string) (string, error) {
	cmd := exec.Cmd{
		Path: git.config.ProgramPath,
		Args: []string{git.config.ProgramPath, command},
		Dir:  git.config.WorkingDir,
		Env:  []string{},
	}

	cmd.Args = append(cmd.Args, args...)

	if git.config.InheritEnv {
		cmd.Env = os.Environ()
	}

	stdout, err := cmd.Output()
	if err != nil {
		stderr := []byte{}
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			stderr = exitError.Stderr
		}

		return "", NewCmdError(cmd.String(), stdout, stderr)
	}

	out := strings.TrimSpace(string(stdout))
	return out, nil
}

// Error string representation.
func (e Error) Error() string {
	return string(e)
}

// NewCmdError returns a new command line error.
func NewCmdError(cmd string, stdout, stderr []byte) error {
	return &CmdError{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}
}

// Is tells if err is of the type CmdError.
func (e *CmdError) Is(err error) bool {
	_, ok := err.(*CmdError)
	return ok
}

// Error string representation.
func (e *CmdError) Error() string {
	return fmt.Sprintf("failed to exec: %s : stderr=%q", e.cmd, string(e.stderr))
}

// Command is the failed command.
func (e *CmdError) Command() string { return e.cmd }

// Stdout of the failed command.
func (e *CmdError) Stdout() []byte { return e.stdout }

// Stderr of the failed command.
func (e *CmdError) Stderr() []byte { return e.stderr }
