package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	j := NoopJoinHooks{}
	j.OnLayerStart(ctx, "triangles", 0, 10)
	j.OnLayerComplete(ctx, "triangles", 0, LayerSummary{Prefixes: 10}, time.Second)
	j.OnQueryComplete(ctx, "triangles", 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "motif")
	c.OnCacheMiss(ctx, "motif")
	c.OnCacheSet(ctx, "motif", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Join().(NoopJoinHooks); !ok {
		t.Error("Join() should return NoopJoinHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customJoin := &testJoinHooks{}
	SetJoinHooks(customJoin)
	if Join() != customJoin {
		t.Error("SetJoinHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Join().(NoopJoinHooks); !ok {
		t.Error("Reset() should restore NoopJoinHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testJoinHooks{}
	SetJoinHooks(custom)
	SetJoinHooks(nil)

	if Join() != custom {
		t.Error("SetJoinHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusCounters(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus(prometheus.NewRegistry())

	p.OnLayerComplete(ctx, "tri", 1, LayerSummary{Prefixes: 5, Dropped: 2, Extended: 3, Proposed: 9, Candidates: 4}, time.Millisecond)
	p.OnLayerComplete(ctx, "tri", 1, LayerSummary{Prefixes: 1, Proposed: 1, Candidates: 1}, time.Millisecond)
	p.OnQueryComplete(ctx, "tri", 7, time.Second, nil)
	p.OnQueryComplete(ctx, "tri", 0, time.Second, errors.New("boom"))
	p.OnCacheHit(ctx, "motif")
	p.OnCacheMiss(ctx, "motif")
	p.OnCacheSet(ctx, "motif", 16)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"prefixes", p.layerPrefixes.WithLabelValues("tri", "1"), 6},
		{"dropped", p.layerDropped.WithLabelValues("tri", "1"), 2},
		{"proposed", p.layerProposed.WithLabelValues("tri", "1"), 10},
		{"candidates", p.layerCandidates.WithLabelValues("tri", "1"), 5},
		{"rows", p.queryRows.WithLabelValues("tri"), 7},
		{"errors", p.queryErrors.WithLabelValues("tri"), 1},
		{"hit", p.cacheEvents.WithLabelValues("motif", "hit"), 1},
		{"miss", p.cacheEvents.WithLabelValues("motif", "miss"), 1},
		{"bytes", p.cacheBytes.WithLabelValues("motif"), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())
	p.OnQueryComplete(context.Background(), "tri", 3, time.Second, nil)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	for path, want := range map[string]string{
		"/healthz": "ok",
		"/metrics": "gjoin_query_rows_total",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("GET %s: body missing %q", path, want)
		}
	}
}

type testJoinHooks struct{ NoopJoinHooks }
type testCacheHooks struct{ NoopCacheHooks }
