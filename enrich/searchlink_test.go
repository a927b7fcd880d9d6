// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package enrich

import (
	"testing"

	"github.com/madlambda/spells/assert"
)

func TestSearchLinkURL(t *testing.T) {
	got := searchLinkURL("https://scans.example.com", map[string]string{
		"CI job": "deploy job",
	})
	assert.EqualStrings(t,
		"https://scans.example.com/scans?search.names=CI+job"+
			"&search.values=deploy+job"+
			"#selection.buildScanB=%7BSCAN_ID%7D",
		got)
}

func TestSearchLinkURLOrdersNamesLexicographically(t *testing.T) {
	// values follow the sorted name order so names and values stay
	// aligned position by position.
	got := searchLinkURL("https://scans.example.com/", map[string]string{
		"CI job":          "deploy",
		"CI build number": "42",
	})
	assert.EqualStrings(t,
		"https://scans.example.com/scans?search.names=CI+build+number%2CCI+job"+
			"&search.values=42%2Cdeploy"+
			"#selection.buildScanB=%7BSCAN_ID%7D",
		got)
}

func TestSearchLinkURLEscapesReservedCharacters(t *testing.T) {
	got := searchLinkURL("https://scans.example.com", map[string]string{
		"CI job": "build & deploy",
	})
	assert.EqualStrings(t,
		"https://scans.example.com/scans?search.names=CI+job"+
			"&search.values=build+%26+deploy"+
			"#selection.buildScanB=%7BSCAN_ID%7D",
		got)
}

func TestAppendIfMissing(t *testing.T) {
	assert.EqualStrings(t, "a/", appendIfMissing("a", "/"))
	assert.EqualStrings(t, "a/", appendIfMissing("a/", "/"))
}
