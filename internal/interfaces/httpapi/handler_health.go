package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/riskibarqy/subway-lines/internal/usecase"
	"github.com/sourcegraph/conc/pool"
)

const readinessTimeout = 3 * time.Second

// ReadinessCheck checks one dependency, e.g. a database ping.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(h.readiness))
	p := pool.New().WithContext(ctx)
	for _, check := range h.readiness {
		p.Go(func(ctx context.Context) error {
			err := check.Check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[check.Name] = err.Error()
				return fmt.Errorf("%s: %w", check.Name, err)
			}
			results[check.Name] = "ok"
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": results,
	})
}
