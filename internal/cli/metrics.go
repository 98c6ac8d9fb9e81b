package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/observability"
)

const metricsShutdownTimeout = 5 * time.Second

// validateListenAddr accepts "host:port" and ":port".
func validateListenAddr(addr string) error {
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid metrics address %q (want host:port or :port)", addr)
	}
	return nil
}

// withMetrics runs fn. When a metrics address is configured, the Prometheus
// hooks are installed and /metrics is served until fn returns.
func (c *CLI) withMetrics(ctx context.Context, fn func(context.Context) error) error {
	addr := c.Config.Metrics.Addr
	if addr == "" {
		return fn(ctx)
	}

	prom := observability.NewPrometheus(prometheus.NewRegistry())
	observability.SetJoinHooks(prom)
	observability.SetCacheHooks(prom)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              addr,
		Handler:           prom.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeIO, err, "metrics server on %s", addr)
		}
		return nil
	})
	g.Go(func() error {
		err := fn(gctx)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			c.Logger.Warn("metrics server shutdown", "err", serr)
		}
		return err
	})
	return g.Wait()
}
