// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package enrich

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/scantree-io/scantree/ci"
	"github.com/scantree-io/scantree/env"
)

// captureCIMetadata runs the extraction block of every active platform.
// Every mapping is independently optional: a missing variable never
// blocks the extraction of the others.
func (e *Enricher) captureCIMetadata() {
	d := e.detection

	// Jenkins and Hudson share the extraction block; it runs at most
	// once per build even when both marker variables are present.
	if d.Any(ci.PlatformJenkins, ci.PlatformHudson) {
		e.captureJenkinsOrHudson()
	}
	if d.Has(ci.PlatformTeamCity) {
		e.captureTeamCity()
	}
	if d.Has(ci.PlatformCircleCI) {
		e.captureCircleCI()
	}
	if d.Has(ci.PlatformBamboo) {
		e.captureBamboo()
	}
	if d.Has(ci.PlatformGithubActions) {
		e.captureGithubActions()
	}
	if d.Has(ci.PlatformGitlab) {
		e.captureGitlab()
	}
	if d.Has(ci.PlatformTravis) {
		e.captureTravis()
	}
	if d.Has(ci.PlatformBitrise) {
		e.captureBitrise()
	}
	if d.Has(ci.PlatformGoCD) {
		e.captureGoCD()
	}
	if d.Has(ci.PlatformAzureDevops) {
		e.captureAzureDevops()
	}
}

func (e *Enricher) captureJenkinsOrHudson() {
	label := "Jenkins build"
	if !e.detection.Has(ci.PlatformJenkins) {
		label = "Hudson build"
	}
	if buildURL, ok := e.envVal("BUILD_URL"); ok {
		e.rec.AddLink(label, buildURL)
	}
	buildNumber, hasBuildNumber := e.envVal("BUILD_NUMBER")
	if hasBuildNumber {
		e.rec.SetValue("CI build number", buildNumber)
	}
	if nodeName, ok := e.envVal("NODE_NAME"); ok {
		e.addValueAndSearchLink("CI node", nodeName)
	}
	jobName, hasJobName := e.envVal("JOB_NAME")
	if hasJobName {
		e.addValueAndSearchLink("CI job", jobName)
	}
	if stageName, ok := e.envVal("STAGE_NAME"); ok {
		e.addValueAndSearchLink("CI stage", stageName)
	}

	if hasJobName && hasBuildNumber {
		e.addSearchLinkForValues("CI pipeline", map[string]string{
			"CI job":          jobName,
			"CI build number": buildNumber,
		})
	}
}

func (e *Enricher) captureTeamCity() {
	configFile, hasConfigFile := e.cfg.Properties.Lookup("teamcity.configuration.properties.file")
	buildID, hasBuildID := e.cfg.Properties.Lookup("teamcity.build.id")
	if hasConfigFile && hasBuildID {
		tcprops, err := env.LoadProperties(configFile)
		if err != nil {
			log.Warn().
				Err(err).
				Str("path", configFile).
				Msg("failed to read TeamCity configuration properties")
		} else if serverURL, ok := tcprops.Lookup("teamcity.serverUrl"); ok {
			buildURL := appendIfMissing(serverURL, "/") +
				"viewLog.html?buildId=" + url.QueryEscape(buildID)
			e.rec.AddLink("TeamCity build", buildURL)
		}
	}
	if buildNumber, ok := e.cfg.Properties.Lookup("build.number"); ok {
		e.rec.SetValue("CI build number", buildNumber)
	}
	if buildType, ok := e.cfg.Properties.Lookup("teamcity.buildType.id"); ok {
		e.addValueAndSearchLink("CI build config", buildType)
	}
	if agentName, ok := e.cfg.Properties.Lookup("agent.name"); ok {
		e.addValueAndSearchLink("CI agent", agentName)
	}
}

func (e *Enricher) captureCircleCI() {
	if buildURL, ok := e.envVal("CIRCLE_BUILD_URL"); ok {
		e.rec.AddLink("CircleCI build", buildURL)
	}
	if buildNumber, ok := e.envVal("CIRCLE_BUILD_NUM"); ok {
		e.rec.SetValue("CI build number", buildNumber)
	}
	if jobName, ok := e.envVal("CIRCLE_JOB"); ok {
		e.addValueAndSearchLink("CI job", jobName)
	}
	if workflowID, ok := e.envVal("CIRCLE_WORKFLOW_ID"); ok {
		e.addValueAndSearchLink("CI workflow", workflowID)
	}
}

func (e *Enricher) captureBamboo() {
	if resultsURL, ok := e.envVal("bamboo_resultsUrl"); ok {
		e.rec.AddLink("Bamboo build", resultsURL)
	}
	if buildNumber, ok := e.envVal("bamboo_buildNumber"); ok {
		e.rec.SetValue("CI build number", buildNumber)
	}
	if planName, ok := e.envVal("bamboo_planName"); ok {
		e.addValueAndSearchLink("CI plan", planName)
	}
	if buildPlanName, ok := e.envVal("bamboo_buildPlanName"); ok {
		e.addValueAndSearchLink("CI build plan", buildPlanName)
	}
	if agentID, ok := e.envVal("bamboo_agentId"); ok {
		e.addValueAndSearchLink("CI agent", agentID)
	}
}

func (e *Enricher) captureGithubActions() {
	repository, hasRepository := e.envVal("GITHUB_REPOSITORY")
	runID, hasRunID := e.envVal("GITHUB_RUN_ID")
	if hasRepository && hasRunID {
		e.rec.AddLink("GitHub Actions build",
			"https://github.com/"+repository+"/actions/runs/"+runID)
	}
	if workflow, ok := e.envVal("GITHUB_WORKFLOW"); ok {
		e.addValueAndSearchLink("CI workflow", workflow)
	}
	if hasRunID {
		e.addValueAndSearchLink("CI run", runID)
	}
}

func (e *Enricher) captureGitlab() {
	if jobURL, ok := e.envVal("CI_JOB_URL"); ok {
		e.rec.AddLink("GitLab build", jobURL)
	}
	if pipelineURL, ok := e.envVal("CI_PIPELINE_URL"); ok {
		e.rec.AddLink("GitLab pipeline", pipelineURL)
	}
	if jobName, ok := e.envVal("CI_JOB_NAME"); ok {
		e.addValueAndSearchLink("CI job", jobName)
	}
	if jobStage, ok := e.envVal("CI_JOB_STAGE"); ok {
		e.addValueAndSearchLink("CI stage", jobStage)
	}
}

func (e *Enricher) captureTravis() {
	if buildURL, ok := e.envVal("TRAVIS_BUILD_WEB_URL"); ok {
		e.rec.AddLink("Travis build", buildURL)
	}
	if buildNumber, ok := e.envVal("TRAVIS_BUILD_NUMBER"); ok {
		e.rec.SetValue("CI build number", buildNumber)
	}
	if jobName, ok := e.envVal("TRAVIS_JOB_NAME"); ok {
		e.addValueAndSearchLink("CI job", jobName)
	}
	if eventType, ok := e.envVal("TRAVIS_EVENT_TYPE"); ok {
		e.rec.Tag(eventType)
	}
}

func (e *Enricher) captureBitrise() {
	if buildURL, ok := e.envVal("BITRISE_BUILD_URL"); ok {
		e.rec.AddLink("Bitrise build", buildURL)
	}
	if buildNumber, ok := e.envVal("BITRISE_BUILD_NUMBER"); ok {
		e.rec.SetValue("CI build number", buildNumber)
	}
}

func (e *Enricher) captureGoCD() {
	pipelineName, hasPipelineName := e.envVal("GO_PIPELINE_NAME")
	pipelineNumber, hasPipelineNumber := e.envVal("GO_PIPELINE_COUNTER")
	stageName, hasStageName := e.envVal("GO_STAGE_NAME")
	stageNumber, hasStageNumber := e.envVal("GO_STAGE_COUNTER")
	jobName, hasJobName := e.envVal("GO_JOB_NAME")
	serverURL, hasServerURL := e.envVal("GO_SERVER_URL")

	if hasPipelineName && hasPipelineNumber && hasStageName &&
		hasStageNumber && hasJobName && hasServerURL {
		buildURL := fmt.Sprintf("%s/tab/build/detail/%s/%s/%s/%s/%s",
			serverURL, pipelineName, pipelineNumber,
			stageName, stageNumber, jobName)
		e.rec.AddLink("GoCD build", buildURL)
	} else if hasServerURL {
		e.rec.AddLink("GoCD", serverURL)
	}
	if hasPipelineName {
		e.addValueAndSearchLink("CI pipeline", pipelineName)
	}
	if hasJobName {
		e.addValueAndSearchLink("CI job", jobName)
	}
	if hasStageName {
		e.addValueAndSearchLink("CI stage", stageName)
	}
}

func (e *Enricher) captureAzureDevops() {
	serverURL, hasServerURL := e.envVal("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI")
	project, hasProject := e.envVal("SYSTEM_TEAMPROJECT")
	buildID, hasBuildID := e.envVal("BUILD_BUILDID")

	if hasServerURL && hasProject && hasBuildID {
		// the collection URI already carries a trailing slash.
		buildURL := fmt.Sprintf("%s%s/_build/results?buildId=%s",
			serverURL, project, buildID)
		e.rec.AddLink("Azure Pipelines build", buildURL)
	} else if hasServerURL {
		e.rec.AddLink("Azure Pipelines", serverURL)
	}

	if hasBuildID {
		e.rec.SetValue("CI build number", buildID)
	}
}
