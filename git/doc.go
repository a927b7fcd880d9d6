// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package git provides a wrapper for the git command line program,
// restricted to the read-only probes the enrichment pass needs, and
// helpers to normalize git remote URLs.
package git
