// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package env_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/madlambda/spells/assert"
	"github.com/scantree-io/scantree/env"
	"github.com/scantree-io/scantree/errors"
)

func TestSystemEnvironment(t *testing.T) {
	t.Setenv("SCANTREE_TEST_VAR", "value")
	t.Setenv("SCANTREE_TEST_EMPTY", "")

	environ := env.System()

	got, ok := environ.Lookup("SCANTREE_TEST_VAR")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "value", got)

	// a variable set to the empty string is still present.
	got, ok = environ.Lookup("SCANTREE_TEST_EMPTY")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "", got)

	_, ok = environ.Lookup("SCANTREE_TEST_UNSET")
	assert.IsTrue(t, !ok)
}

func TestMapEnvironment(t *testing.T) {
	environ := env.Map{"KEY": "val", "EMPTY": ""}

	got, ok := environ.Lookup("KEY")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "val", got)

	_, ok = environ.Lookup("EMPTY")
	assert.IsTrue(t, ok)

	_, ok = environ.Lookup("OTHER")
	assert.IsTrue(t, !ok)
}

func TestPropertiesZeroValue(t *testing.T) {
	var props env.Properties
	_, ok := props.Lookup("anything")
	assert.IsTrue(t, !ok)
}

func TestPropertiesFromMap(t *testing.T) {
	props := env.NewProperties(map[string]string{
		"idea.version": "2024.3",
		"skipTests":    "",
	})

	got, ok := props.Lookup("idea.version")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "2024.3", got)

	got, ok = props.Lookup("skipTests")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "", got)
}

func TestLoadPropertiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.properties")
	content := "teamcity.serverUrl=https://tc.example.com\nbuild.number=42\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	props, err := env.LoadProperties(path)
	assert.NoError(t, err)

	got, ok := props.Lookup("teamcity.serverUrl")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "https://tc.example.com", got)

	got, ok = props.Lookup("build.number")
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "42", got)
}

func TestLoadPropertiesMissingFile(t *testing.T) {
	_, err := env.LoadProperties(filepath.Join(t.TempDir(), "nope.properties"))
	assert.Error(t, err)
	assert.IsTrue(t, errors.IsKind(err, env.ErrLoadProperties))
}
