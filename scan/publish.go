// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scantree-io/scantree"
	"github.com/scantree-io/scantree/errors"
)

// ErrPublish indicates failure publishing the record.
const ErrPublish errors.Kind = "publishing build scan"

// DefaultPublishTimeout bounds how long a publish attempt may take.
// Publishing is best-effort and must never hold the build hostage.
const DefaultPublishTimeout = 2 * time.Second

// PublishParams contains parameters for Publish.
type PublishParams struct {
	// Endpoint receiving the payload. Defaults to the record server
	// address with the "/api/builds" path.
	Endpoint *url.URL

	// Client is the HTTP client used. Defaults to http.DefaultClient.
	Client *http.Client

	// Timeout for the whole publish attempt.
	// Defaults to DefaultPublishTimeout.
	Timeout time.Duration
}

// Publish sends the record payload to the scan service asynchronously.
// A record is published at most once, subsequent calls are ignored.
// The function is non-blocking, the result can be checked with
// WaitForPublish.
func (r *Record) Publish(params PublishParams) {
	// the snapshot is taken before acquiring the record lock.
	payload := r.Snapshot()

	r.Lock()
	defer r.Unlock()

	if r.done == nil {
		r.done = publish(r.server, payload, params)
	}
}

// WaitForPublish waits until Publish is done, either successfully, or
// with error/timeout.
func (r *Record) WaitForPublish() error {
	r.Lock()
	done := r.done
	r.Unlock()

	if done == nil {
		return errors.E(ErrPublish, "record was not published")
	}
	return <-done
}

func publish(server string, payload Payload, p PublishParams) <-chan error {
	if p.Endpoint == nil {
		if server == "" {
			rch := make(chan error, 1)
			rch <- errors.E(ErrPublish, "no server address configured")
			close(rch)
			return rch
		}
		endpoint, err := url.Parse(strings.TrimSuffix(server, "/") + "/api/builds")
		if err != nil {
			rch := make(chan error, 1)
			rch <- errors.E(ErrPublish, err)
			close(rch)
			return rch
		}
		p.Endpoint = endpoint
	}
	if p.Client == nil {
		p.Client = http.DefaultClient
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultPublishTimeout
	}

	rch := make(chan error, 1)
	go func() {
		err := doPublish(payload, p)
		if err != nil {
			log.Debug().Err(err).Msg("failed to publish build scan")
		}
		rch <- err
		close(rch)
	}()
	return rch
}

func doPublish(payload Payload, p PublishParams) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	buf, err := json.Marshal(payload)
	if err != nil {
		return errors.E(ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint.String(), bytes.NewReader(buf))
	if err != nil {
		return errors.E(ErrPublish, err)
	}

	req.Header.Set("User-Agent", "scantree/v"+scantree.Version())
	req.Header.Set("Content-Type", "application/json")

	errs := errors.L()
	resp, err := p.Client.Do(req)
	errs.Append(err)
	if err == nil {
		if resp.StatusCode >= http.StatusBadRequest {
			errs.Append(errors.E(ErrPublish, "server returned status %s", resp.Status))
		}
		errs.Append(resp.Body.Close())
	}
	return errs.AsError()
}
