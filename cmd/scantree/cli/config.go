// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/scantree-io/scantree/errors"
)

// ErrConfig indicates an invalid configuration file.
const ErrConfig errors.Kind = "invalid configuration"

// DefaultConfigFilename is the name of the configuration file looked up
// in the working directory when no --config flag is given.
const DefaultConfigFilename = "scantree.toml"

// Config is the scantree configuration file. Command line flags take
// precedence over the values defined here.
type Config struct {
	// Server is the base URL of the scan service.
	Server string `toml:"server"`

	// Properties is the path of the build properties file.
	Properties string `toml:"properties"`

	// Switches are the build switch property names to report.
	Switches []string `toml:"switches"`
}

// LoadConfig reads the configuration file at path. When path is empty
// the default file is looked up in the working directory and its absence
// is not an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, errors.E(ErrConfig, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.E(ErrConfig, err, "parsing %s", path)
	}
	return cfg, nil
}
