package stats

import (
	"sync"
	"testing"
	"time"
)

func ms(v ...int) []time.Duration {
	out := make([]time.Duration, len(v))
	for i, x := range v {
		out[i] = time.Duration(x) * time.Millisecond
	}
	return out
}

func TestPercentile(t *testing.T) {
	sorted := ms(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1 * time.Millisecond},
		{0.5, 5 * time.Millisecond},
		{0.95, 10 * time.Millisecond},
		{1, 10 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); got != tt.want {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil) = %v", got)
	}
}

func TestCalculateDoesNotReorderInput(t *testing.T) {
	samples := ms(30, 10, 20)
	got := Calculate("state_getStorage", samples)

	if got.Calls != 3 || got.P50 != 20*time.Millisecond || got.Max != 30*time.Millisecond {
		t.Errorf("Calculate() = %+v", got)
	}
	if got.Total != 60*time.Millisecond {
		t.Errorf("Total = %v, want 60ms", got.Total)
	}
	if samples[0] != 30*time.Millisecond {
		t.Error("input slice was sorted in place")
	}
}

func TestRecorderSummary(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("state_getStorage", time.Millisecond)
		}()
	}
	wg.Wait()
	r.Record("chain_getBlockHash", 2*time.Millisecond)

	sum := r.Summary()
	if len(sum) != 2 {
		t.Fatalf("Summary() has %d methods, want 2", len(sum))
	}
	if sum[0].Method != "chain_getBlockHash" || sum[1].Method != "state_getStorage" {
		t.Errorf("methods not sorted: %s, %s", sum[0].Method, sum[1].Method)
	}
	if sum[1].Calls != 50 {
		t.Errorf("state_getStorage calls = %d, want 50", sum[1].Calls)
	}
}
