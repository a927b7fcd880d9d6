// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package enrich

import (
	"github.com/rs/zerolog/log"
	"github.com/scantree-io/scantree/ci"
	"github.com/scantree-io/scantree/git"
)

// captureGitMetadata collects version control metadata in the background:
// git commands shell out and must not block build progress. The task runs
// exactly once, has no cancellation, and is best-effort if the build
// finishes first.
func (e *Enricher) captureGitMetadata() {
	done := make(chan error, 1)
	e.done = done
	go func() {
		done <- e.collectGitMetadata()
		close(done)
	}()
}

func (e *Enricher) collectGitMetadata() error {
	logger := log.With().
		Str("action", "collectGitMetadata()").
		Logger()

	g, err := git.WithConfig(git.Config{
		ProgramPath: e.cfg.GitProgram,
		WorkingDir:  e.cfg.WorkingDir,
		InheritEnv:  true,
	})
	if err != nil {
		// no git, no version control metadata. Not an error.
		logger.Debug().Err(err).Msg("git program unavailable, skipping")
		return nil
	}

	// each probe degrades to an absent field on failure.
	repo, err := g.RemoteURL()
	if err != nil {
		logger.Debug().Err(err).Msg("no remote URL")
	}
	commit, err := g.HeadCommit()
	if err != nil {
		logger.Debug().Err(err).Msg("no HEAD commit")
	}
	shortCommit, err := g.ShortHeadCommit()
	if err != nil {
		logger.Debug().Err(err).Msg("no short HEAD commit")
	}
	branch := e.branchName(g)
	status, err := g.Status()
	if err != nil {
		logger.Debug().Err(err).Msg("no working tree status")
	}

	if repo != "" {
		e.rec.SetValue("Git repository", git.RedactUserInfo(repo))
	}
	if commit != "" {
		e.rec.SetValue("Git commit id", commit)
	}
	if shortCommit != "" {
		e.addValueAndSearchLinkLabelled("Git commit id", "Git commit id short", shortCommit)
	}
	if branch != "" {
		e.rec.Tag(branch)
		e.rec.SetValue("Git branch", branch)
	}
	if status != "" {
		e.rec.Tag("Dirty")
		e.rec.SetValue("Git status", status)
	}

	if label, url, ok := sourceLink(repo, commit); ok {
		e.rec.AddLink(label, url)
	}
	return nil
}

// branchName resolves the branch. CI platforms check out a detached HEAD,
// so their own branch variables take precedence over asking git; the
// precedence order is Jenkins/Hudson, then GitLab, then Azure Pipelines.
// The classifier result computed by Apply drives the precedence, the
// task never re-detects.
func (e *Enricher) branchName(g *git.Git) string {
	switch {
	case e.detection.Any(ci.PlatformJenkins, ci.PlatformHudson):
		if branch, ok := e.envVal("BRANCH_NAME"); ok {
			return branch
		}
	case e.detection.Has(ci.PlatformGitlab):
		if branch, ok := e.envVal("CI_COMMIT_REF_NAME"); ok {
			return branch
		}
	case e.detection.Has(ci.PlatformAzureDevops):
		if branch, ok := e.envVal("BUILD_SOURCEBRANCH"); ok {
			return branch
		}
	}
	branch, err := g.CurrentBranch()
	if err != nil {
		return ""
	}
	return branch
}

// sourceLink derives a source browser deep link from the remote URL and
// commit id. Only github.com and gitlab.com remotes are recognized;
// anything else, including remotes on a non-default port, produces no
// link.
func sourceLink(repo, commit string) (label, url string, ok bool) {
	if repo == "" || commit == "" {
		return "", "", false
	}
	info, err := git.NormalizeGitURI(repo)
	if err != nil || info.Owner == "" {
		return "", "", false
	}
	path := info.Owner + "/" + info.Name
	switch info.Host {
	case "github.com":
		return "GitHub source", "https://github.com/" + path + "/tree/" + commit, true
	case "gitlab.com":
		return "GitLab source", "https://gitlab.com/" + path + "/-/commit/" + commit, true
	}
	return "", "", false
}
