// Package modkit provides module wiring and core deps
package modkit

import (
	"crashrelay/internal/modkit/repokit"
	"crashrelay/internal/platform/config"
	"crashrelay/internal/platform/logger"
	"crashrelay/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is not configured
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// DepsFrom lifts an opened store into module deps; a nil store yields no backends
func DepsFrom(cfg config.Conf, log *logger.Logger, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st == nil {
		return d
	}
	if st.PG != nil {
		d.PG = st.PG
	}
	if st.CH != nil {
		d.CH = st.CH
	}
	return d
}
