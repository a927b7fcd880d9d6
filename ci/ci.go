// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package ci classifies the CI/CD platform the build runs under.
package ci

import "github.com/scantree-io/scantree/env"

// Platform is a supported CI/CD platform.
type Platform int

// List of supported CI/CD platforms.
const (
	PlatformJenkins Platform = iota
	PlatformHudson
	PlatformTeamCity
	PlatformCircleCI
	PlatformBamboo
	PlatformGithubActions
	PlatformGitlab
	PlatformTravis
	PlatformBitrise
	PlatformGoCD
	PlatformAzureDevops
)

// markers holds, in evaluation order, the environment variable whose
// presence identifies each platform. Presence is what matters, not the
// value: CI runners export these unconditionally.
var markers = [...]struct {
	platform Platform
	envvar   string
}{
	{PlatformJenkins, "JENKINS_URL"},
	{PlatformHudson, "HUDSON_URL"},
	{PlatformTeamCity, "TEAMCITY_VERSION"},
	{PlatformCircleCI, "CIRCLE_BUILD_URL"},
	{PlatformBamboo, "bamboo_resultsUrl"},
	{PlatformGithubActions, "GITHUB_ACTIONS"},
	{PlatformGitlab, "GITLAB_CI"},
	{PlatformTravis, "TRAVIS_JOB_ID"},
	{PlatformBitrise, "BITRISE_BUILD_URL"},
	{PlatformGoCD, "GO_SERVER_URL"},
	{PlatformAzureDevops, "TF_BUILD"},
}

// Detection is the result of classifying the build environment.
// It is computed once per build and shared by every consumer.
type Detection struct {
	// Platforms holds every platform whose marker variable is present,
	// in the fixed evaluation order. The classifier does not enforce
	// mutual exclusivity: a Jenkins job that also exports GITLAB_CI
	// reports both platforms.
	Platforms []Platform

	// CI tells if the build runs under any CI system, either a known
	// platform or a generic CI marker.
	CI bool
}

// Detect classifies the environment. Besides the platform markers, the
// generic CI flag is set when a CI environment variable or a CI build
// property is present.
func Detect(environ env.Environment, props env.Properties) Detection {
	var d Detection
	for _, m := range markers {
		if _, ok := environ.Lookup(m.envvar); ok {
			d.Platforms = append(d.Platforms, m.platform)
		}
	}
	d.CI = len(d.Platforms) > 0
	if !d.CI {
		_, d.CI = environ.Lookup("CI")
	}
	if !d.CI {
		_, d.CI = props.Lookup("CI")
	}
	return d
}

// Has tells if the platform is active.
func (d Detection) Has(p Platform) bool {
	for _, active := range d.Platforms {
		if active == p {
			return true
		}
	}
	return false
}

// Any tells if any of the given platforms is active.
func (d Detection) Any(ps ...Platform) bool {
	for _, p := range ps {
		if d.Has(p) {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	switch p {
	case PlatformJenkins:
		return "jenkins"
	case PlatformHudson:
		return "hudson"
	case PlatformTeamCity:
		return "teamcity"
	case PlatformCircleCI:
		return "circleci"
	case PlatformBamboo:
		return "bamboo"
	case PlatformGithubActions:
		return "github-actions"
	case PlatformGitlab:
		return "gitlab"
	case PlatformTravis:
		return "travis"
	case PlatformBitrise:
		return "bitrise"
	case PlatformGoCD:
		return "gocd"
	case PlatformAzureDevops:
		return "azure-pipelines"
	default:
		return "unknown"
	}
}
