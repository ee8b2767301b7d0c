package arrivals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetArrivalsByTimeRange(t *testing.T) {
	var gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/arrivals" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"arrivals": [
				{
					"flight_no": "EI382",
					"carrier": "EI",
					"origin": "DUB",
					"belt_start": "2025-03-14T10:00:00Z",
					"belt_end": "2025-03-14T10:30:00Z",
					"belt": "6",
					"pax_estimate": 120
				},
				{
					"flight_no": "EK17",
					"carrier": "EK",
					"origin": "DXB",
					"belt_start": "2025-03-14T10:05:00Z",
					"belt_end": "2025-03-14T10:50:00Z",
					"pax_estimate": 420
				}
			],
			"count": 2,
			"source": "arrivals snapshot"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	start := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	resp, err := client.GetArrivalsByTimeRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("GetArrivalsByTimeRange() error: %v", err)
	}

	if gotStart != start.Format(time.RFC3339) || gotEnd != end.Format(time.RFC3339) {
		t.Errorf("query window = (%s, %s), want RFC3339 start/end", gotStart, gotEnd)
	}
	if len(resp.Arrivals) != 2 {
		t.Fatalf("expected 2 arrivals, got %d", len(resp.Arrivals))
	}
	if resp.Arrivals[0].FlightNo != "EI382" || resp.Arrivals[0].Belt != "6" {
		t.Errorf("first record decoded wrong: %+v", resp.Arrivals[0])
	}
	if resp.Arrivals[1].Belt != "" {
		t.Errorf("missing belt should decode empty, got %q", resp.Arrivals[1].Belt)
	}
	if resp.Source != "arrivals snapshot" {
		t.Errorf("source = %q", resp.Source)
	}
}

func TestGetArrivalsByTimeRangeNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.GetArrivalsByTimeRange(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("expected error on non-OK status")
	}
}
