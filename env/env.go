// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package env provides read access to the build environment: process
// environment variables and build properties. The environment is
// immutable for the duration of a build invocation.
package env

import "os"

// Environment provides read access to environment variables.
type Environment interface {
	// Lookup returns the value of the variable and whether it is set.
	// A variable set to the empty string is still reported as set.
	Lookup(key string) (string, bool)
}

// System returns the process environment.
func System() Environment {
	return system{}
}

type system struct{}

func (system) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is an in-memory Environment, mostly useful in tests.
type Map map[string]string

// Lookup returns the value of the variable and whether it is set.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
