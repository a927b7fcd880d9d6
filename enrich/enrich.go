// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package enrich annotates a build scan record with contextual metadata:
// operating system, IDE or invocation context, CI platform identity and
// links, version control state and selected build switches.
//
// Enrichment is passive and failure-free: missing environment variables,
// an absent git program or malformed remote URLs degrade to absent
// fields, never to an error surfaced to the caller.
package enrich

import (
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scantree-io/scantree/ci"
	"github.com/scantree-io/scantree/env"
	"github.com/scantree-io/scantree/errors"
	"github.com/scantree-io/scantree/scan"
)

// DefaultSwitches are the build switch properties reported when set.
var DefaultSwitches = []string{"skipITs", "skipTests", "maven.test.skip"}

// Config configures the enrichment pass.
type Config struct {
	// Environment used for classification and extraction.
	// Defaults to the process environment.
	Environment env.Environment

	// Properties holds the build properties.
	Properties env.Properties

	// WorkingDir is where version control probes run.
	// Defaults to the process working directory.
	WorkingDir string

	// GitProgram overrides the path to the git program.
	GitProgram string

	// Switches are the build switch property names to report.
	// Defaults to DefaultSwitches.
	Switches []string
}

// Enricher applies one enrichment pass over a build scan record.
type Enricher struct {
	rec       scan.Recorder
	cfg       Config
	detection ci.Detection
	done      <-chan error
}

// New creates an enricher writing to rec.
func New(rec scan.Recorder, cfg Config) *Enricher {
	if cfg.Environment == nil {
		cfg.Environment = env.System()
	}
	if cfg.Switches == nil {
		cfg.Switches = DefaultSwitches
	}
	return &Enricher{
		rec: rec,
		cfg: cfg,
	}
}

// Apply runs the enrichment pass. Classification and CI metadata
// extraction run synchronously; version control metadata is collected in
// the background and can be waited for with Wait. Apply runs once per
// build invocation.
func (e *Enricher) Apply() {
	e.detection = ci.Detect(e.cfg.Environment, e.cfg.Properties)

	if len(e.detection.Platforms) > 1 {
		// Multiple marker variables present at once usually means a
		// leaking environment. All matching platform blocks still run.
		platforms := make([]string, len(e.detection.Platforms))
		for i, p := range e.detection.Platforms {
			platforms[i] = p.String()
		}
		log.Warn().
			Str("platforms", strings.Join(platforms, ",")).
			Msg("multiple CI platforms detected simultaneously")
	}

	e.captureOS()
	e.captureIDE()
	e.captureCIOrLocal()
	e.captureCIMetadata()
	e.captureGitMetadata()
	e.captureBuildSwitches()
}

// Wait blocks until the background version control collection is done.
// It returns an error only if Apply was not called.
func (e *Enricher) Wait() error {
	if e.done == nil {
		return errors.E("enrichment was not applied")
	}
	return <-e.done
}

// Detection returns the CI classification computed by Apply. The same
// value drives both CI metadata extraction and the branch name
// precedence of the version control task.
func (e *Enricher) Detection() ci.Detection {
	return e.detection
}

func (e *Enricher) captureOS() {
	e.rec.Tag(osName(runtime.GOOS))
	e.rec.SetValue("OS arch", runtime.GOARCH)
}

func osName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	default:
		return goos
	}
}

// captureIDE tags the invocation context. CI builds carry no IDE tag:
// the CI platform identity already tells where the build ran.
func (e *Enricher) captureIDE() {
	if e.detection.CI {
		return
	}
	if v, ok := e.cfg.Properties.Lookup("idea.version"); ok {
		e.rec.Tag("IntelliJ IDEA")
		e.rec.SetValue("IntelliJ IDEA version", v)
		return
	}
	if v, ok := e.cfg.Properties.Lookup("eclipse.buildId"); ok {
		e.rec.Tag("Eclipse")
		e.rec.SetValue("Eclipse version", v)
		return
	}
	e.rec.Tag("Cmd Line")
}

func (e *Enricher) captureCIOrLocal() {
	if e.detection.CI {
		e.rec.Tag("CI")
	} else {
		e.rec.Tag("LOCAL")
	}
}

func (e *Enricher) captureBuildSwitches() {
	for _, name := range e.cfg.Switches {
		v, ok := e.cfg.Properties.Lookup(name)
		if !ok {
			continue
		}
		// a switch set to the empty string means enabled.
		if v == "" || strings.EqualFold(v, "true") {
			e.rec.SetValue("switches."+name, "On")
		}
	}
}

func (e *Enricher) envVal(key string) (string, bool) {
	v, ok := e.cfg.Environment.Lookup(key)
	return v, ok
}
