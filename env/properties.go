// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package env

import (
	"github.com/magiconair/properties"
	"github.com/scantree-io/scantree/errors"
)

// ErrLoadProperties indicates failure loading a properties file.
const ErrLoadProperties errors.Kind = "loading properties file"

// Properties holds build properties, either passed explicitly by the
// build tool integration or loaded from a Java-style properties file.
// The zero value is an empty property set.
type Properties struct {
	p *properties.Properties
}

// NewProperties creates a property set from explicit pairs.
func NewProperties(pairs map[string]string) Properties {
	return Properties{p: properties.LoadMap(pairs)}
}

// LoadProperties loads a property set from a properties file.
func LoadProperties(path string) (Properties, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Properties{}, errors.E(ErrLoadProperties, err)
	}
	return Properties{p: p}, nil
}

// Lookup returns the value of the property and whether it is set.
func (p Properties) Lookup(key string) (string, bool) {
	if p.p == nil {
		return "", false
	}
	return p.p.Get(key)
}
