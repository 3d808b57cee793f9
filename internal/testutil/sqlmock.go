package testutil

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMockDB returns a sqlmock-backed database. Unmet expectations fail the test at cleanup.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

// CaptureArg is a sqlmock argument matcher that accepts any value and records it.
type CaptureArg struct {
	Value driver.Value
}

// Match implements sqlmock.Argument.
func (c *CaptureArg) Match(v driver.Value) bool {
	c.Value = v
	return true
}

// Bytes returns the captured value as a byte slice.
func (c *CaptureArg) Bytes() []byte {
	b, _ := c.Value.([]byte)
	return b
}
