// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/madlambda/spells/assert"
	"github.com/scantree-io/scantree"
	"github.com/scantree-io/scantree/cmd/scantree/cli"
)

func TestVersionCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cli.Exec([]string{"version"}, nil, stdout, stderr)
	assert.EqualStrings(t, scantree.Version()+"\n", stdout.String())
}

func TestVersionFlag(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cli.Exec([]string{"--version"}, nil, stdout, stderr)
	assert.EqualStrings(t, scantree.Version()+"\n", stdout.String())
}

func TestNoArgsPrintsHelp(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cli.Exec([]string{}, nil, stdout, stderr)
	assert.IsTrue(t, strings.Contains(stdout.String(), "Usage:"))
}

func TestEnrichPrintsRecord(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cli.Exec([]string{"enrich"}, nil, stdout, stderr)
	assert.IsTrue(t, strings.Contains(stdout.String(), `"tags"`))
}
