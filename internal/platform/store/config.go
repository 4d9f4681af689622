package store

import "crashrelay/internal/platform/config"

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// ConfigFrom reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
// a backend is enabled when its DBURL is set
func ConfigFrom(root config.Conf, role string) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")

	pgURL := pgc.MayString("DBURL", "")
	chURL := chc.MayString("DBURL", "")
	return Config{
		PG: PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgc.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgc.MayInt("SLOW_MS", 500),
			LogSQL:      pgc.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "crashrelay",
			ClientTag:  role,
		},
	}
}
