package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"autokudos/internal/adapters/storage"
	redisstore "autokudos/internal/adapters/storage/redis"
)

// Engine names accepted by Open.
const (
	EngineSQLite = "sqlite"
	EngineRedis  = "redis"
)

// OpenOptions selects and tunes the storage engine.
type OpenOptions struct {
	Engine    string
	DBPath    string
	SlowQuery time.Duration
	Redis     redisstore.Options
}

// Opened is a ready backend. Queries is nil for Redis.
type Opened struct {
	Stores  *Stores
	Queries *storage.TimedDB
	close   func() error
}

// Close releases the engine's connections.
func (o *Opened) Close() error {
	return o.close()
}

// Open connects to the configured engine, creates the SQLite schema when
// needed, and assembles Stores.
func Open(ctx context.Context, opts OpenOptions) (*Opened, error) {
	switch opts.Engine {
	case EngineRedis:
		client := redisstore.NewClient(opts.Redis)
		if err := client.Check(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		slog.Info("store_opened", "engine", EngineRedis, "addr", opts.Redis.Addr, "db", opts.Redis.DB)
		return &Opened{Stores: Redis(client), close: client.Close}, nil
	case EngineSQLite, "":
		return openSQLite(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown store engine %q", opts.Engine)
	}
}

func openSQLite(ctx context.Context, opts OpenOptions) (*Opened, error) {
	// WAL with a busy timeout lets the CLI run beside a live server.
	dsn := opts.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("store_opened", "engine", EngineSQLite, "path", opts.DBPath)

	timed := storage.NewTimedDB(db, opts.SlowQuery)
	return &Opened{Stores: SQLite(timed), Queries: timed, close: timed.Close}, nil
}
