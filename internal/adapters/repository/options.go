package repository

import "time"

// Option configures the SQL-backed stores.
type Option func(*sqlOptions)

type sqlOptions struct {
	maxConns       int32
	connectTimeout time.Duration
	now            func() time.Time
}

func defaultSQLOptions() sqlOptions {
	return sqlOptions{
		maxConns:       4,
		connectTimeout: 30 * time.Second,
		now:            time.Now,
	}
}

// WithMaxConns caps the postgres pool size.
func WithMaxConns(n int32) Option {
	return func(o *sqlOptions) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithConnectTimeout bounds how long OpenPostgres keeps retrying.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *sqlOptions) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// WithClock sets the time source for updated_at columns.
func WithClock(now func() time.Time) Option {
	return func(o *sqlOptions) {
		if now != nil {
			o.now = now
		}
	}
}
