package sentrysink

import (
	"time"

	"crashrelay/internal/platform/config"
)

// DefaultFlushTimeout bounds how long one request waits for delivery
const DefaultFlushTimeout = 30 * time.Second

// OptionsFrom reads SENTRY_* keys; the DSN is left empty when unset so validation reports it
func OptionsFrom(root config.Conf) Options {
	sc := root.Prefix("SENTRY_")
	return Options{
		DSN:          sc.MayString("DSN", ""),
		Environment:  sc.MayString("ENVIRONMENT", ""),
		ServerName:   sc.MayString("SERVER_NAME", ""),
		FlushTimeout: sc.MayDuration("FLUSH_TIMEOUT", DefaultFlushTimeout),
		Debug:        sc.MayBool("DEBUG", false),
	}
}
