package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDatastoreDriver(t *testing.T) {
	assert.Equal(t, driverSQLite, normalizeDatastoreDriver(""))
	assert.Equal(t, driverSQLite, normalizeDatastoreDriver("SQLite"))
	assert.Equal(t, driverPostgres, normalizeDatastoreDriver("postgresql"))
	assert.Equal(t, driverPostgres, normalizeDatastoreDriver("pgx"))
	assert.Equal(t, "mysql", normalizeDatastoreDriver("MySQL"))

	assert.Equal(t, "postgres", datastoreDialect(driverPostgres))
	assert.Equal(t, driverSQLite, datastoreDialect(driverSQLite))
}

func TestNormalizeDatastoreDSN(t *testing.T) {
	assert.Equal(t,
		"postgres://u:p@db/wa?statement_cache_capacity=0&default_query_exec_mode=simple_protocol",
		normalizeDatastoreDSN(driverPostgres, "postgres://u:p@db/wa"))
	assert.Equal(t,
		"postgres://u:p@db/wa?sslmode=disable&statement_cache_capacity=0&default_query_exec_mode=simple_protocol",
		normalizeDatastoreDSN(driverPostgres, "postgres://u:p@db/wa?sslmode=disable"))
	assert.Equal(t, "file:x.db", normalizeDatastoreDSN(driverSQLite, "file:x.db"))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := sqliteDSN(Config{SessionFolder: "session", SessionName: DefaultSessionName})
	assert.Equal(t, "file:session/whatsappgw-session.db?_foreign_keys=on", dsn)
}

func TestOpenDatastoreRejectsBadConfig(t *testing.T) {
	_, _, err := openDatastore(context.Background(), Config{DatastoreType: "postgres"})
	assert.ErrorContains(t, err, "WHATSAPP_DATASTORE_URI")

	_, _, err = openDatastore(context.Background(), Config{DatastoreType: "mysql"})
	assert.ErrorContains(t, err, "unsupported datastore driver")
}
