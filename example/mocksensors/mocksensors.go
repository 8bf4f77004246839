// Package mocksensors simulates a measurement server for demos and manual
// testing.
//
// Every stream performs a random walk. Each request advances the walk by one
// step and answers with the current state:
//
//	/info     per-channel summaries (channels variant)
//	/sensors  per-sensor summaries (sensors variant)
//	/latest   latest sample per sensor (samples variant, path: /latest)
//
// Summaries cover the last few points only. The "door" sensor stays silent
// for its first steps, so its summary has a null last sample and null
// statistics until then.
package mocksensors

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	// retained is how many points each summary covers.
	retained = 30

	// silentSteps is how long the door sensor reports nothing.
	silentSteps = 5
)

type point struct {
	time  int64
	value float64
}

type stream struct {
	name   string
	value  float64
	spread float64
	silent int
	points []point
}

func (s *stream) step(now time.Time, rng *rand.Rand) {
	if s.silent > 0 {
		s.silent--
		return
	}
	s.value += rng.NormFloat64() * s.spread
	s.points = append(s.points, point{time: now.Unix(), value: s.value})
	if len(s.points) > retained {
		s.points = s.points[len(s.points)-retained:]
	}
}

// Server is a simulated measurement server. Safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	channels []*stream
	sensors  []*stream
	rng      *rand.Rand
	now      func() time.Time
}

// New creates a Server with a fixed set of channels and sensors.
func New() *Server {
	return &Server{
		channels: []*stream{
			{name: "ch0", value: 12, spread: 0.5},
			{name: "ch1", value: 3.3, spread: 0.05},
		},
		sensors: []*stream{
			{name: "greenhouse", value: 21.5, spread: 0.3},
			{name: "outdoor", value: 4, spread: 0.6},
			{name: "door", value: 0, spread: 1, silent: silentSteps},
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Handler returns the HTTP handler serving the snapshot routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, s.channels, true)
	})
	mux.HandleFunc("GET /sensors", func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, s.sensors, true)
	})
	mux.HandleFunc("GET /latest", func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, s.sensors, false)
	})
	return mux
}

func (s *Server) serve(w http.ResponseWriter, streams []*stream, summary bool) {
	w.Header().Set("Content-Type", "application/json")
	out := jsoniter.NewStream(jsoniter.ConfigDefault, w, 512)

	s.mu.Lock()
	now := s.now()
	for _, st := range s.channels {
		st.step(now, s.rng)
	}
	for _, st := range s.sensors {
		st.step(now, s.rng)
	}

	// keys are written in declaration order
	out.WriteObjectStart()
	first := true
	for _, st := range streams {
		if !summary && len(st.points) == 0 {
			// a sample needs a point
			continue
		}
		if !first {
			out.WriteMore()
		}
		first = false
		out.WriteObjectField(st.name)
		if summary {
			writeSummary(out, st)
		} else {
			writePoint(out, st.points[len(st.points)-1])
		}
	}
	out.WriteObjectEnd()
	s.mu.Unlock()

	_ = out.Flush()
}

func writePoint(out *jsoniter.Stream, p point) {
	out.WriteObjectStart()
	out.WriteObjectField("time")
	out.WriteInt64(p.time)
	out.WriteMore()
	out.WriteObjectField("value")
	out.WriteFloat64(p.value)
	out.WriteObjectEnd()
}

func writeSummary(out *jsoniter.Stream, st *stream) {
	out.WriteObjectStart()
	out.WriteObjectField("last")
	if len(st.points) == 0 {
		out.WriteNil()
		for _, key := range []string{"min", "max", "mean"} {
			out.WriteMore()
			out.WriteObjectField(key)
			out.WriteNil()
		}
		out.WriteObjectEnd()
		return
	}

	writePoint(out, st.points[len(st.points)-1])

	lo, hi, sum := st.points[0].value, st.points[0].value, 0.0
	for _, p := range st.points {
		lo = min(lo, p.value)
		hi = max(hi, p.value)
		sum += p.value
	}
	out.WriteMore()
	out.WriteObjectField("min")
	out.WriteFloat64(lo)
	out.WriteMore()
	out.WriteObjectField("max")
	out.WriteFloat64(hi)
	out.WriteMore()
	out.WriteObjectField("mean")
	out.WriteFloat64(sum / float64(len(st.points)))
	out.WriteObjectEnd()
}
