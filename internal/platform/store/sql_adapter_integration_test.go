//go:build integration_pg

package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"crashrelay/internal/platform/testkit/containers"
)

func openIntegration(t *testing.T) (*Store, context.Context) {
	t.Helper()
	dsn := containers.Postgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	st, err := Open(ctx,
		Config{PG: PGConfig{Enabled: true, URL: dsn, MaxConns: 2, LogSQL: true}},
		WithLogger(zerolog.New(io.Discard)),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st, ctx
}

func TestPGAdapter_Integration_GuardQueryColumns(t *testing.T) {
	st, ctx := openIntegration(t)
	if err := st.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}

	q := st.PG
	if _, err := q.Exec(ctx, `create table uploads_t (id serial primary key, name text not null)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := q.Exec(ctx, `insert into uploads_t (name) values ($1), ($2)`, "report.json", "screenshot.png"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := Scalar[int](ctx, q, `select count(*) from uploads_t`)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v", n, err)
	}

	rs, err := q.Query(ctx, `select id, name from uploads_t order by id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rs.Close()
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "name" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestPGAdapter_Integration_TxCommitAndRollback(t *testing.T) {
	st, ctx := openIntegration(t)
	q := st.PG

	if _, err := q.Exec(ctx, `create table tx_t (val int not null)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := q.Tx(ctx, func(tx RowQuerier) error {
		return ExecOne(ctx, tx, `insert into tx_t (val) values (10)`)
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("rollback")
	err := q.Tx(ctx, func(tx RowQuerier) error {
		if err := ExecOne(ctx, tx, `insert into tx_t (val) values (20)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("rollback err = %v", err)
	}

	got, err := Many(ctx, q, func(r Row) (int, error) {
		var v int
		return v, r.Scan(&v)
	}, `select val from tx_t order by val`)
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if len(got) != 1 || got[0] != 10 {
		t.Fatalf("rows = %v, want [10]", got)
	}
}
