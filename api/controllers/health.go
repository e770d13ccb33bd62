package controllers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency probed by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shirtshop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency concurrently. Nil pingers
// are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shirtshop-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			checks = map[string]string{}
			failed []string
		)
		g, gctx := errgroup.WithContext(ctx)
		for name, p := range deps {
			if p == nil {
				continue
			}
			g.Go(func() error {
				err := p.Ping(gctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					checks[name] = "down"
					failed = append(failed, name)
					return nil
				}
				checks[name] = "up"
				return nil
			})
		}
		_ = g.Wait()

		if len(failed) > 0 {
			sort.Strings(failed)
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeDependency, "dependencies unavailable").
				WithDetails(map[string]any{"checks": checks, "failed": failed}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
