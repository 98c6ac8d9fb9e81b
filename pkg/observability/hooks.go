// Package observability provides hooks for metrics and logging.
//
// Libraries in this module never import a metrics backend. They call the
// registered hooks, and the binary decides what the hooks do: nothing by
// default, Prometheus collectors when `--metrics-addr` is set.
//
// # Usage
//
// Register hooks at startup, before any join runs:
//
//	func main() {
//	    m := observability.NewPrometheus(prometheus.NewRegistry())
//	    observability.SetJoinHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run commands
//	}
//
// Libraries emit events through the registry:
//
//	observability.Join().OnLayerStart(ctx, query, layer, len(prefixes))
//	// ... extend the layer ...
//	observability.Join().OnLayerComplete(ctx, query, layer, summary, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Join Hooks
// =============================================================================

// LayerSummary is the backend-neutral view of one layer on one worker.
type LayerSummary struct {
	Worker     int
	Prefixes   int    // prefixes entering the layer
	Dropped    int    // prefixes removed by a zero count or an empty intersection
	Extended   int    // prefixes leaving with candidates
	Proposed   uint64 // candidates proposed by owners
	Candidates uint64 // candidates surviving every intersection
}

// JoinHooks receives events from GenericJoin execution.
type JoinHooks interface {
	// OnLayerStart fires on every worker after the layer's exchange.
	OnLayerStart(ctx context.Context, query string, layer int, prefixes int)

	// OnLayerComplete fires on every worker once its layer is extended.
	OnLayerComplete(ctx context.Context, query string, layer int, s LayerSummary, duration time.Duration)

	// OnQueryComplete fires once per query run with the global row count.
	OnQueryComplete(ctx context.Context, query string, rows uint64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopJoinHooks is a no-op implementation of JoinHooks.
type NoopJoinHooks struct{}

func (NoopJoinHooks) OnLayerStart(context.Context, string, int, int) {}
func (NoopJoinHooks) OnLayerComplete(context.Context, string, int, LayerSummary, time.Duration) {
}
func (NoopJoinHooks) OnQueryComplete(context.Context, string, uint64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	joinHooks  JoinHooks  = NoopJoinHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetJoinHooks registers custom join hooks.
// This should be called once at startup before any query runs.
func SetJoinHooks(h JoinHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		joinHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Join returns the registered join hooks.
func Join() JoinHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return joinHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	joinHooks = NoopJoinHooks{}
	cacheHooks = NoopCacheHooks{}
}
