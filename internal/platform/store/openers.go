package store

import (
	"context"
	"fmt"
	"time"

	chx "crashrelay/internal/platform/store/ch"
	"crashrelay/internal/platform/store/pg"
)

// ping retry knobs for a pool that is still coming up
const (
	pgPingAttempts = 20
	pgPingTimeout  = 3 * time.Second
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// openPG opens pg and wraps it with our sql adapter once the pool answers
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < pgPingAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", pgPingAttempts, lastErr)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
