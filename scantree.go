// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package scantree enriches a build scan record with contextual metadata:
// the operating system, the IDE or invocation context, the CI platform and
// its build links, the version control state and selected build switches.
package scantree

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version of scantree.
func Version() string {
	return strings.TrimSpace(version)
}
