// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package scan implements the build scan record, the receiver of all the
// metadata collected during a build invocation.
package scan

import "sync"

// Recorder is the capability set consumed by the enrichment pass.
type Recorder interface {
	// Tag attaches a short label with no associated value.
	Tag(tag string)

	// SetValue attaches a named string field. Later writes for the same
	// name overwrite earlier ones.
	SetValue(name, value string)

	// AddLink attaches a labelled URL.
	AddLink(label, url string)

	// OnBuildFinish registers a callback to run when the build finishes.
	// Callbacks run after the main enrichment pass, when late-bound
	// configuration such as the server address is resolved.
	OnBuildFinish(fn func())

	// ServerAddress returns the address of the scan service, when
	// configured.
	ServerAddress() (string, bool)
}

// Link is a labelled URL attached to the record.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Payload is the serialized form of a record.
type Payload struct {
	Tags   []string          `json:"tags,omitempty"`
	Values map[string]string `json:"values,omitempty"`
	Links  []Link            `json:"links,omitempty"`
}

// Record aggregates build scan data over the runtime of a build.
// It is safe for concurrent use: the main enrichment pass and the
// background version control task write to it independently.
type Record struct {
	sync.Mutex

	server    string
	payload   Payload
	finishFns []func()
	finishing bool
	finished  bool
	done      <-chan error
}

// Option configures a new record.
type Option func(r *Record)

// WithServerAddress sets the address of the scan service the record
// publishes to and that search links point at.
func WithServerAddress(addr string) Option {
	return func(r *Record) {
		r.server = addr
	}
}

// NewRecord creates an empty record.
func NewRecord(opts ...Option) *Record {
	r := &Record{
		payload: Payload{
			Values: make(map[string]string),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tag attaches a tag to the record.
func (r *Record) Tag(tag string) {
	r.Lock()
	defer r.Unlock()

	if r.finished {
		return
	}
	r.payload.Tags = append(r.payload.Tags, tag)
}

// SetValue attaches a named value to the record.
func (r *Record) SetValue(name, value string) {
	r.Lock()
	defer r.Unlock()

	if r.finished {
		return
	}
	r.payload.Values[name] = value
}

// AddLink attaches a labelled URL to the record.
func (r *Record) AddLink(label, url string) {
	r.Lock()
	defer r.Unlock()

	if r.finished {
		return
	}
	r.payload.Links = append(r.payload.Links, Link{Label: label, URL: url})
}

// OnBuildFinish registers a callback to run when Finish is called.
// Callbacks registered after the build finished are discarded.
func (r *Record) OnBuildFinish(fn func()) {
	r.Lock()
	defer r.Unlock()

	if r.finishing || r.finished {
		return
	}
	r.finishFns = append(r.finishFns, fn)
}

// ServerAddress returns the configured scan service address.
func (r *Record) ServerAddress() (string, bool) {
	r.Lock()
	defer r.Unlock()

	return r.server, r.server != ""
}

// Finish runs the registered build-finish callbacks and freezes the
// record. It runs at most once; subsequent calls are no-ops. Callbacks
// may still write to the record; writes after Finish returns are
// silently discarded.
func (r *Record) Finish() {
	r.Lock()
	if r.finishing {
		r.Unlock()
		return
	}
	r.finishing = true
	fns := r.finishFns
	r.finishFns = nil
	r.Unlock()

	for _, fn := range fns {
		fn()
	}

	r.Lock()
	r.finished = true
	r.Unlock()
}

// Snapshot returns a copy of the record payload.
func (r *Record) Snapshot() Payload {
	r.Lock()
	defer r.Unlock()

	p := Payload{
		Tags:   append([]string(nil), r.payload.Tags...),
		Values: make(map[string]string, len(r.payload.Values)),
		Links:  append([]Link(nil), r.payload.Links...),
	}
	for k, v := range r.payload.Values {
		p.Values[k] = v
	}
	return p
}
