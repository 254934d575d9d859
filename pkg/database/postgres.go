package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/classroom-core/pkg/config"
)

const applicationName = "classroomctl"

// DSN renders cfg as a lib/pq key/value connection string. Every value is quoted, so
// passwords may contain spaces or quotes.
func DSN(cfg config.DatabaseConfig) string {
	pairs := []struct{ key, value string }{
		{"host", cfg.Host},
		{"port", fmt.Sprint(cfg.Port)},
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", cfg.Name},
		{"sslmode", cfg.SSLMode},
		{"application_name", applicationName},
	}
	if secs := int(cfg.ConnectTimeout / time.Second); secs > 0 {
		pairs = append(pairs, struct{ key, value string }{"connect_timeout", fmt.Sprint(secs)})
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteValue(p.value))
	}
	return strings.Join(parts, " ")
}

func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// NewPostgres opens the pool backing the document slots and waits for a ping.
// The store issues one statement per slot write, so the pool stays small.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s/%s: %w", cfg.Host, cfg.Name, err)
	}
	return db, nil
}
