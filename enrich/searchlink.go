// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package enrich

import (
	"net/url"
	"sort"
	"strings"
)

// addValueAndSearchLink sets the value immediately and defers the search
// link to build finish: composing the link needs the server address,
// which is only resolved by then.
func (e *Enricher) addValueAndSearchLink(name, value string) {
	e.addValueAndSearchLinkLabelled(name, name, value)
}

func (e *Enricher) addValueAndSearchLinkLabelled(label, name, value string) {
	e.rec.SetValue(name, value)
	e.rec.OnBuildFinish(func() {
		e.addSearchLink(label, map[string]string{name: value})
	})
}

// addSearchLinkForValues defers a search link querying multiple values
// jointly to build finish.
func (e *Enricher) addSearchLinkForValues(label string, values map[string]string) {
	e.rec.OnBuildFinish(func() {
		e.addSearchLink(label, values)
	})
}

func (e *Enricher) addSearchLink(label string, values map[string]string) {
	server, ok := e.rec.ServerAddress()
	if !ok {
		return
	}
	e.rec.AddLink(label+" build scans", searchLinkURL(server, values))
}

// searchLinkURL composes a deep link into the scan service pre-filling a
// query for builds matching the given values. The parameters for a link
// querying multiple values look like:
//
//	search.names=name1,name2&search.values=value1,value2
//
// so all names and all values are grouped, sorted by name to keep the
// link text deterministic across runs.
func searchLinkURL(server string, values map[string]string) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	orderedValues := make([]string, 0, len(values))
	for _, name := range names {
		orderedValues = append(orderedValues, values[name])
	}

	searchParams := "search.names=" + url.QueryEscape(strings.Join(names, ",")) +
		"&search.values=" + url.QueryEscape(strings.Join(orderedValues, ","))
	return appendIfMissing(server, "/") + "scans?" + searchParams +
		"#selection.buildScanB=" + url.QueryEscape("{SCAN_ID}")
}

func appendIfMissing(s, suffix string) string {
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}
