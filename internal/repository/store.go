package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Supported STORE_DRIVER values
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig selects and addresses the durable store
type StoreConfig struct {
	Driver      string
	MongoURI    string
	MongoDB     string
	DatabaseURL string
}

// Store bundles the repositories of one backend
type Store struct {
	Users   UserRepo
	Results ResultRepo
	close   func(ctx context.Context) error
}

// Close releases the backend connection
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend and prepares its schema
func Open(ctx context.Context, cfg StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverMongo, "":
		return openMongo(ctx, cfg)
	case DriverPostgres, DriverSQLite:
		db, err := OpenSQL(ctx, cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// NewSQLStore wraps an open, migrated database
func NewSQLStore(db *sql.DB) *Store {
	return &Store{
		Users:   NewSQLUserRepo(db),
		Results: NewSQLResultRepo(db),
		close:   func(context.Context) error { return db.Close() },
	}
}

// OpenSQL opens driver ("postgres" or "sqlite"), pings it and migrates
func OpenSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := MigrateSQL(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("Connected to %s", driver)
	return db, nil
}

func openMongo(ctx context.Context, cfg StoreConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Println("Connected to MongoDB")

	db := client.Database(cfg.MongoDB)
	if err := ensureUserIndexes(ctx, db); err != nil {
		log.Printf("Warning: user indexes: %v", err)
	}
	if err := ensureResultIndexes(ctx, db); err != nil {
		log.Printf("Warning: result indexes: %v", err)
	}

	return &Store{
		Users:   NewUserRepo(db),
		Results: NewResultRepo(db),
		close:   client.Disconnect,
	}, nil
}
