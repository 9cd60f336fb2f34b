// Package stats keeps per-method RPC latency samples for the end-of-run
// diagnostics.
package stats

import (
	"math"
	"slices"
	"sort"
	"sync"
	"time"
)

// TailLatency summarises the samples of one RPC method.
type TailLatency struct {
	Method        string
	Calls         int
	P50, P95, Max time.Duration
	Total         time.Duration
}

// Recorder collects call latencies keyed by RPC method. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	samples map[string][]time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{samples: make(map[string][]time.Duration)}
}

func (r *Recorder) Record(method string, d time.Duration) {
	r.mu.Lock()
	r.samples[method] = append(r.samples[method], d)
	r.mu.Unlock()
}

// Summary returns one TailLatency per method, sorted by method name.
func (r *Recorder) Summary() []TailLatency {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TailLatency, 0, len(r.samples))
	for method, samples := range r.samples {
		out = append(out, Calculate(method, samples))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// Calculate computes the tail latency of samples without modifying them.
func Calculate(method string, samples []time.Duration) TailLatency {
	t := TailLatency{Method: method, Calls: len(samples)}
	if len(samples) == 0 {
		return t
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	for _, d := range sorted {
		t.Total += d
	}
	t.P50 = Percentile(sorted, 0.50)
	t.P95 = Percentile(sorted, 0.95)
	t.Max = sorted[len(sorted)-1]
	return t
}

// Percentile uses the nearest-rank method on an ascending slice, so with few
// samples the high percentiles equal the maximum.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := int(math.Ceil(float64(n)*p)) - 1
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
