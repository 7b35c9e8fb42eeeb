package whatsapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow/store/sqlstore"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "pgx"
)

func normalizeDatastoreDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return driverSQLite
	case "postgresql", "postgres", "pgx":
		return driverPostgres
	default:
		return strings.ToLower(driver)
	}
}

// sqlstore needs the dialect name rather than the database/sql driver name.
func datastoreDialect(driver string) string {
	if driver == driverPostgres {
		return "postgres"
	}
	return driver
}

func normalizeDatastoreDSN(driver string, dsn string) string {
	if driver != driverPostgres {
		return dsn
	}
	appendParam := func(current string, key string, value string) string {
		if strings.Contains(current, key+"=") {
			return current
		}
		separator := "?"
		if strings.Contains(current, "?") {
			if strings.HasSuffix(current, "?") || strings.HasSuffix(current, "&") {
				separator = ""
			} else {
				separator = "&"
			}
		}
		return current + separator + key + "=" + value
	}
	dsn = appendParam(dsn, "statement_cache_capacity", "0")
	dsn = appendParam(dsn, "default_query_exec_mode", "simple_protocol")
	return dsn
}

// sqliteDSN places the session database inside the session folder, one file per session name.
func sqliteDSN(cfg Config) string {
	path := filepath.Join(cfg.SessionFolder, cfg.SessionName+".db")
	return "file:" + filepath.ToSlash(path) + "?_foreign_keys=on"
}

func openDatastore(ctx context.Context, cfg Config) (*sql.DB, *sqlstore.Container, error) {
	driver := normalizeDatastoreDriver(cfg.DatastoreType)

	var dsn string
	switch driver {
	case driverSQLite:
		if err := os.MkdirAll(cfg.SessionFolder, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create session folder: %w", err)
		}
		dsn = sqliteDSN(cfg)
	case driverPostgres:
		if strings.TrimSpace(cfg.DatastoreURI) == "" {
			return nil, nil, errors.New("WHATSAPP_DATASTORE_URI is required for the postgres datastore")
		}
		dsn = normalizeDatastoreDSN(driver, cfg.DatastoreURI)
	default:
		return nil, nil, fmt.Errorf("unsupported datastore driver %s", driver)
	}

	log.Session(cfg.SessionName, "datastore").Info("Initializing WhatsApp datastore with driver=" + driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open datastore: %w", err)
	}
	if driver == driverPostgres {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(3 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping datastore: %w", err)
	}

	container := sqlstore.NewWithDB(db, datastoreDialect(driver), log.WhatsMeow("Database"))
	if err := container.Upgrade(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("upgrade datastore schema: %w", err)
	}

	return db, container, nil
}
