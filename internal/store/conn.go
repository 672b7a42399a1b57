// Package store reads material requests from MongoDB and customer parts
// from MySQL. Neither store is ever written by this process.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/go-sql-driver/mysql"
)

// Conns owns the process-wide database handles. Each handle is created once
// on first use and reused by every subsequent call; concurrent first-callers
// block on the single in-flight connect instead of racing to open
// duplicates. A failed connect is not cached, so the next caller retries.
// Handles live until Close at shutdown.
type Conns struct {
	cfg config.Config

	mongoMu  sync.Mutex
	mongoDB  *mongo.Database
	mongoCli *mongo.Client

	sqlMu sync.Mutex
	sqlDB *sql.DB
}

// NewConns creates the connection holder. No connection is opened until a
// repository first asks for one.
func NewConns(cfg config.Config) *Conns {
	return &Conns{cfg: cfg}
}

// Mongo returns the shared MongoDB handle, connecting on first use.
func (c *Conns) Mongo(ctx context.Context) (*mongo.Database, error) {
	c.mongoMu.Lock()
	defer c.mongoMu.Unlock()

	if c.mongoDB != nil {
		return c.mongoDB, nil
	}

	opts := options.Client().
		ApplyURI(c.cfg.Mongo.URI()).
		SetReadPreference(readpref.SecondaryPreferred()).
		SetMaxPoolSize(10).
		SetMinPoolSize(5).
		SetSocketTimeout(45 * time.Second)

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := cli.Ping(ctx, readpref.SecondaryPreferred()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	c.mongoCli = cli
	c.mongoDB = cli.Database(c.cfg.Mongo.Database)
	return c.mongoDB, nil
}

// SQL returns the shared MySQL handle, connecting on first use.
func (c *Conns) SQL(ctx context.Context) (*sql.DB, error) {
	c.sqlMu.Lock()
	defer c.sqlMu.Unlock()

	if c.sqlDB != nil {
		return c.sqlDB, nil
	}

	db, err := sql.Open("mysql", c.cfg.MySQL.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}

	c.sqlDB = db
	return c.sqlDB, nil
}

// Close tears down whichever handles were actually opened.
func (c *Conns) Close(ctx context.Context) error {
	c.mongoMu.Lock()
	defer c.mongoMu.Unlock()
	c.sqlMu.Lock()
	defer c.sqlMu.Unlock()

	var firstErr error
	if c.mongoCli != nil {
		if err := c.mongoCli.Disconnect(ctx); err != nil {
			firstErr = err
		}
		c.mongoCli = nil
		c.mongoDB = nil
	}
	if c.sqlDB != nil {
		if err := c.sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.sqlDB = nil
	}
	return firstErr
}
