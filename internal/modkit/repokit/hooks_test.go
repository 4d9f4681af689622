package repokit

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakeTx runs fn against q and records pool level calls separately
type fakeTx struct {
	fakeQ
	q       *fakeQ
	txCalls int
}

func (f *fakeTx) Tx(_ context.Context, fn func(q Queryer) error) error {
	f.txCalls++
	return fn(f.q)
}

func TestWithBeginHooks_RunsHooksInOrderThenFn(t *testing.T) {
	t.Parallel()

	inner := &fakeTx{q: &fakeQ{}}
	var order []string
	hook := func(tag string) BeginHook {
		return func(_ context.Context, q Queryer) error {
			if q != inner.q {
				t.Fatalf("hook got a different Queryer")
			}
			order = append(order, tag)
			return nil
		}
	}

	tx := WithBeginHooks(inner, hook("a"), hook("b"))
	err := tx.Tx(context.Background(), func(Queryer) error {
		order = append(order, "fn")
		return nil
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if inner.txCalls != 1 || !reflect.DeepEqual(order, []string{"a", "b", "fn"}) {
		t.Fatalf("txCalls=%d order=%v", inner.txCalls, order)
	}
}

func TestWithBeginHooks_HookErrorShortCircuits(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tx := WithBeginHooks(&fakeTx{q: &fakeQ{}}, func(context.Context, Queryer) error { return boom })

	called := false
	err := tx.Tx(context.Background(), func(Queryer) error { called = true; return nil })
	if !errors.Is(err, boom) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestWithBeginHooks_DelegatesPoolCalls(t *testing.T) {
	t.Parallel()

	inner := &fakeTx{q: &fakeQ{}}
	tx := WithBeginHooks(inner)
	_, _ = tx.Exec(context.Background(), "exec")
	_, _ = tx.Query(context.Background(), "query")
	_ = tx.QueryRow(context.Background(), "row")

	if !reflect.DeepEqual(inner.sqls, []string{"exec", "query", "row"}) {
		t.Fatalf("delegated sqls = %v", inner.sqls)
	}
	if len(inner.q.sqls) != 0 {
		t.Fatalf("pool calls must not hit the tx queryer")
	}
}

func TestStatementTimeout(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	if err := StatementTimeout(1500*time.Millisecond)(context.Background(), q); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if len(q.sqls) != 1 || q.sqls[0] != "set local statement_timeout = 1500" {
		t.Fatalf("sqls = %v", q.sqls)
	}

	q = &fakeQ{}
	_ = StatementTimeout(0)(context.Background(), q)
	if len(q.sqls) != 0 {
		t.Fatalf("zero timeout must not issue a statement")
	}
}
