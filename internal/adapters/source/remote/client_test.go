package remote

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/platform/httpclient"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestSource(t *testing.T, status int, body string, capture *http.Request) *Source {
	t.Helper()
	client := httpclient.NewWithTransport(time.Second, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if capture != nil {
			*capture = *r
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}))
	client.BaseURL = "http://upstream.test"
	return New(client)
}

func TestFetchEvents_MapsWireFormat(t *testing.T) {
	var captured http.Request
	src := newTestSource(t, http.StatusOK, `[
		{"id":"e-1","title":"Fire Suppression Inspection","type":"inspection","date":"2026-04-10","start_minutes":540,"category":"fire_suppression","cadence":"semi-annual","vendor_name":"FlameGuard"},
		{"id":"e-2","title":"Grease Trap Service","type":"vendor","date":"2026-04-12","start_minutes":600,"end_minutes":660}
	]`, &captured)

	got, err := src.FetchEvents(context.Background(), "org-1", "2026-04-01", "2026-04-30")
	if err != nil {
		t.Fatalf("FetchEvents error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	if captured.URL.Path != "/orgs/org-1/events" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("from") != "2026-04-01" || q.Get("to") != "2026-04-30" {
		t.Fatalf("window not forwarded: %v", q)
	}

	e := got[0]
	if e.OrgID != "org-1" {
		t.Fatalf("org not stamped on fetched events: %q", e.OrgID)
	}
	if e.Type != events.EventTypeInspection || e.VendorName != "FlameGuard" {
		t.Fatalf("wire mapping wrong: %+v", e)
	}
	if got[1].EndMinutes == nil || *got[1].EndMinutes != 660 {
		t.Fatalf("end_minutes not mapped")
	}
}

func TestFetchEvents_UpstreamErrorSurfaced(t *testing.T) {
	src := newTestSource(t, http.StatusBadGateway, `upstream down`, nil)

	if _, err := src.FetchEvents(context.Background(), "org-1", "2026-04-01", "2026-04-30"); err == nil {
		t.Fatalf("expected error on non-2xx upstream response")
	}
}

func TestFetchEvents_EmptyBodyIsEmptySlice(t *testing.T) {
	src := newTestSource(t, http.StatusOK, `[]`, nil)

	got, err := src.FetchEvents(context.Background(), "org-1", "2026-04-01", "2026-04-30")
	if err != nil {
		t.Fatalf("FetchEvents error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
