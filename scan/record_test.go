// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package scan_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/madlambda/spells/assert"
	"github.com/scantree-io/scantree"
	"github.com/scantree-io/scantree/scan"
)

func TestRecordLifecycle(t *testing.T) {
	rec := scan.NewRecord(scan.WithServerAddress("https://scans.example.com"))

	server, ok := rec.ServerAddress()
	assert.IsTrue(t, ok)
	assert.EqualStrings(t, "https://scans.example.com", server)

	rec.Tag("CI")
	rec.SetValue("CI build number", "42")
	rec.AddLink("Jenkins build", "https://jenkins.example.com/job/1")

	finishRan := 0
	rec.OnBuildFinish(func() {
		finishRan++
		// callbacks may still write to the record.
		rec.AddLink("late link", "https://scans.example.com/scans?x=1")
	})

	rec.Finish()
	rec.Finish() // second finish is a no-op.
	assert.EqualInts(t, 1, finishRan)

	// writes after finish are discarded.
	rec.Tag("too late")
	rec.SetValue("too", "late")
	rec.OnBuildFinish(func() { t.Fatal("must not run") })
	rec.Finish()

	got := rec.Snapshot()
	want := scan.Payload{
		Tags:   []string{"CI"},
		Values: map[string]string{"CI build number": "42"},
		Links: []scan.Link{
			{Label: "Jenkins build", URL: "https://jenkins.example.com/job/1"},
			{Label: "late link", URL: "https://scans.example.com/scans?x=1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected payload: %s", diff)
	}
}

func TestRecordWithoutServerAddress(t *testing.T) {
	rec := scan.NewRecord()
	_, ok := rec.ServerAddress()
	assert.IsTrue(t, !ok)
}

type fakeTransport struct {
	receivedReqs   []*http.Request
	receivedBodies [][]byte
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	f.receivedReqs = append(f.receivedReqs, req)
	f.receivedBodies = append(f.receivedBodies, body)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
	}, nil
}

func TestRecordPublish(t *testing.T) {
	rec := scan.NewRecord(scan.WithServerAddress("https://scans.example.com"))
	rec.Tag("LOCAL")
	rec.SetValue("Git branch", "main")
	rec.Finish()

	tr := &fakeTransport{}
	cl := &http.Client{Transport: tr}

	rec.Publish(scan.PublishParams{Client: cl})

	// second publish is a no-op.
	rec.Publish(scan.PublishParams{Client: cl})

	assert.NoError(t, rec.WaitForPublish())
	assert.EqualInts(t, 1, len(tr.receivedReqs))

	req := tr.receivedReqs[0]
	assert.EqualStrings(t, "scans.example.com", req.URL.Host)
	assert.EqualStrings(t, "/api/builds", req.URL.Path)
	assert.EqualStrings(t, "scantree/v"+scantree.Version(), req.Header.Get("User-Agent"))

	var got scan.Payload
	assert.NoError(t, json.Unmarshal(tr.receivedBodies[0], &got))
	assert.EqualStrings(t, "main", got.Values["Git branch"])
	assert.EqualInts(t, 1, len(got.Tags))
}

func TestRecordPublishReturnsPromptly(t *testing.T) {
	// Publish must hand the request off to the background and return,
	// it must never block on the record lock it shares with Snapshot.
	rec := scan.NewRecord(scan.WithServerAddress("https://scans.example.com"))
	rec.Tag("CI")
	rec.Finish()

	tr := &fakeTransport{}
	cl := &http.Client{Transport: tr}

	returned := make(chan struct{})
	go func() {
		rec.Publish(scan.PublishParams{Client: cl})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(10 * time.Second):
		t.Fatal("Publish did not return")
	}
	assert.NoError(t, rec.WaitForPublish())
	assert.EqualInts(t, 1, len(tr.receivedReqs))
}

func TestRecordPublishWithoutServer(t *testing.T) {
	rec := scan.NewRecord()
	rec.Finish()
	rec.Publish(scan.PublishParams{})
	assert.Error(t, rec.WaitForPublish())
}

func TestRecordWaitWithoutPublish(t *testing.T) {
	rec := scan.NewRecord()
	assert.Error(t, rec.WaitForPublish())
}
