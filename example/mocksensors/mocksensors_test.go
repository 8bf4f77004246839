package mocksensors

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jpalmerr/sensorboard"
)

func fetch(t *testing.T, srv *httptest.Server, path string, shape sensorboard.Shape) sensorboard.Snapshot {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	snap, err := sensorboard.DecodeSnapshot(body, shape)
	if err != nil {
		t.Fatalf("DecodeSnapshot(%s) error = %v\nbody: %s", path, err, body)
	}
	return snap
}

func names(s sensorboard.Snapshot) []string {
	out := make([]string, 0, s.Len())
	for _, st := range s.Streams {
		out = append(out, st.Name)
	}
	return out
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	m := New()
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestSensors_SilentSensorHasNullSummary(t *testing.T) {
	srv := newTestServer(t)

	snap := fetch(t, srv, "/sensors", sensorboard.ShapeSummary)

	got := names(snap)
	want := []string{"greenhouse", "outdoor", "door"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}

	door := snap.Streams[2].Summary
	if door.Last != nil || door.Min != nil || door.Max != nil || door.Mean != nil {
		t.Errorf("door summary = %+v, want all null", door)
	}

	gh := snap.Streams[0].Summary
	if gh.Last == nil || gh.Last.Time != 1700000000 {
		t.Fatalf("greenhouse last = %+v", gh.Last)
	}
	if *gh.Min > gh.Last.Value || *gh.Max < gh.Last.Value {
		t.Errorf("greenhouse min/max %v/%v do not bracket last %v", *gh.Min, *gh.Max, gh.Last.Value)
	}
}

func TestLatest_OmitsSilentSensorUntilItReports(t *testing.T) {
	srv := newTestServer(t)

	snap := fetch(t, srv, "/latest", sensorboard.ShapeSample)
	if snap.Len() != 2 {
		t.Fatalf("streams = %v, want greenhouse and outdoor", names(snap))
	}

	for i := 0; i < silentSteps; i++ {
		snap = fetch(t, srv, "/latest", sensorboard.ShapeSample)
	}
	if snap.Len() != 3 || snap.Streams[2].Name != "door" {
		t.Errorf("streams = %v, want door last", names(snap))
	}
}

func TestInfo_Channels(t *testing.T) {
	srv := newTestServer(t)

	snap := fetch(t, srv, "/info", sensorboard.ShapeSummary)
	if got := names(snap); len(got) != 2 || got[0] != "ch0" || got[1] != "ch1" {
		t.Errorf("names = %v, want [ch0 ch1]", got)
	}
}
