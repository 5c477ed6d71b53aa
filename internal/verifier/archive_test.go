package verifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWaybackClientFirstSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wayback/available" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("url") {
		case "acme.com":
			fmt.Fprint(w, `{"archived_snapshots":{"closest":{"timestamp":"20150301120000","available":true}}}`)
		case "date-only.com":
			fmt.Fprint(w, `{"archived_snapshots":{"closest":{"timestamp":"20150301","available":true}}}`)
		default:
			fmt.Fprint(w, `{"archived_snapshots":{}}`)
		}
	}))
	defer server.Close()

	client := NewWaybackClient(server.URL, time.Second)

	firstSeen, found, err := client.FirstSnapshot(context.Background(), "acme.com")
	if err != nil || !found {
		t.Fatalf("FirstSnapshot: found=%v err=%v", found, err)
	}
	want := time.Date(2015, 3, 1, 12, 0, 0, 0, time.UTC)
	if !firstSeen.Equal(want) {
		t.Errorf("firstSeen = %v, want %v", firstSeen, want)
	}

	firstSeen, found, err = client.FirstSnapshot(context.Background(), "date-only.com")
	if err != nil || !found {
		t.Fatalf("date-only snapshot: found=%v err=%v", found, err)
	}
	if firstSeen.Year() != 2015 || firstSeen.Month() != 3 {
		t.Errorf("date-only firstSeen = %v", firstSeen)
	}

	_, found, err = client.FirstSnapshot(context.Background(), "never-archived.com")
	if err != nil {
		t.Fatalf("empty snapshot should not error: %v", err)
	}
	if found {
		t.Error("empty archived_snapshots should report found=false")
	}
}

func TestWaybackClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewWaybackClient(server.URL, time.Second)
	_, _, err := client.FirstSnapshot(context.Background(), "acme.com")
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestParseWaybackTimestamp(t *testing.T) {
	if _, err := parseWaybackTimestamp("2015"); err == nil {
		t.Error("short timestamp should fail")
	}
	got, err := parseWaybackTimestamp("20200115093000")
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 15 || got.Hour() != 9 {
		t.Errorf("parsed %v", got)
	}
}
