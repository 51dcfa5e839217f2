// Package testutil provides an in-memory consent database for tests
package testutil

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wso2/ob-consent-mgt/internal/database"
)

// NewLogger returns a logger that discards its output
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewSQLiteDB opens a private in-memory SQLite database with the consent schema applied.
// The database is closed when the test ends.
func NewSQLiteDB(t testing.TB) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_txlock=immediate&_foreign_keys=on", uuid.NewString())
	raw, err := sqlx.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)

	db := database.NewDB(raw, NewLogger())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ApplySchema(context.Background()))
	return db
}
