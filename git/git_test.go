// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package git_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cli/safeexec"
	"github.com/madlambda/spells/assert"
	"github.com/scantree-io/scantree/git"
)

func TestWithConfigFailsIfProgramMissing(t *testing.T) {
	_, err := git.WithConfig(git.Config{
		ProgramPath: filepath.Join(t.TempDir(), "no-git-here"),
	})
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	g := mkrepo(t)
	v, err := g.Version()
	assert.NoError(t, err)
	assert.IsTrue(t, v != "")
	// the "git version " prefix is stripped from the reported version.
	assert.IsTrue(t, !strings.HasPrefix(v, "git version"))
}

func TestProbes(t *testing.T) {
	g := mkrepo(t)

	remote, err := g.RemoteURL()
	assert.NoError(t, err)
	assert.EqualStrings(t, "git@github.com:org/repo.git", remote)

	commit, err := g.HeadCommit()
	assert.NoError(t, err)
	assert.EqualInts(t, 40, len(commit))

	short, err := g.ShortHeadCommit()
	assert.NoError(t, err)
	assert.EqualInts(t, 8, len(short))
	assert.EqualStrings(t, commit[:8], short)

	branch, err := g.CurrentBranch()
	assert.NoError(t, err)
	assert.EqualStrings(t, "main", branch)

	status, err := g.Status()
	assert.NoError(t, err)
	assert.EqualStrings(t, "", status)
}

func TestStatusReportsDirtyTree(t *testing.T) {
	dir := t.TempDir()
	g := mkrepoAt(t, dir, true)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"),
		[]byte("changed\n"), 0644))

	status, err := g.Status()
	assert.NoError(t, err)
	assert.IsTrue(t, status != "")
}

func TestRemoteURLFailsWithoutRemote(t *testing.T) {
	g := mkrepoAt(t, t.TempDir(), false)
	_, err := g.RemoteURL()
	assert.Error(t, err)
}

// mkrepo creates a git repository with one commit and a github remote.
func mkrepo(t *testing.T) *git.Git {
	t.Helper()
	return mkrepoAt(t, t.TempDir(), true)
}

func mkrepoAt(t *testing.T, dir string, withRemote bool) *git.Git {
	t.Helper()

	if _, err := safeexec.LookPath("git"); err != nil {
		t.Skip("git program not available")
	}

	rungit := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_CONFIG_SYSTEM=/dev/null",
			"GIT_CONFIG_GLOBAL=/dev/null",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}

	rungit("init", "-b", "main", ".")
	rungit("config", "--local", "user.name", "test")
	rungit("config", "--local", "user.email", "test@example.com")

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"),
		[]byte("content\n"), 0644))

	rungit("add", "file.txt")
	rungit("commit", "-m", "initial commit")
	if withRemote {
		rungit("remote", "add", "origin", "git@github.com:org/repo.git")
	}

	g, err := git.WithConfig(git.Config{
		WorkingDir: dir,
		InheritEnv: true,
	})
	assert.NoError(t, err)
	return g
}
