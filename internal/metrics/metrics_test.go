package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	return string(body)
}

func TestObserveBeforeInit(t *testing.T) {
	// must not panic while collectors are nil
	if active.Load() == nil {
		ObservePoll("rendered", time.Millisecond)
		ObserveRendered(3, time.Now())
	}
}

func TestInit_ConcurrentWithObserve(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ObservePoll("rendered", time.Millisecond)
				ObserveRendered(1, time.Now())
			}
		}()
		go func() {
			defer wg.Done()
			Init()
		}()
	}
	wg.Wait()

	if active.Load() == nil {
		t.Fatal("collectors not published after Init")
	}
}

func TestInit_Idempotent(t *testing.T) {
	Init()
	Init() // a second MustRegister would panic
}

func TestObservePoll_Exposed(t *testing.T) {
	Init()

	ObservePoll("rendered", 20*time.Millisecond)
	ObservePoll("transport_error", time.Second)
	ObservePoll("", time.Millisecond)
	ObserveRendered(2, time.Unix(1700000000, 0))

	body := scrape(t)
	for _, want := range []string{
		`sensorboard_polls_total{outcome="rendered"}`,
		`sensorboard_polls_total{outcome="transport_error"}`,
		`sensorboard_polls_total{outcome="unknown"}`,
		`sensorboard_poll_latency_seconds_bucket{outcome="rendered"`,
		"sensorboard_streams 2",
		"sensorboard_last_rendered_timestamp_seconds 1.7e+09",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
