// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Scantree enriches build scan records with environment metadata: CI
// platform identity and links, version control state and the invocation
// context of the build.
// For details on how to use it just run:
//
//	scantree --help
package main

import (
	"os"

	"github.com/scantree-io/scantree/cmd/scantree/cli"
)

func main() {
	cli.Exec(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
