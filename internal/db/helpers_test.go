//go:build cgo

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardofuncao/pamdb/internal/config"
)

const testDDL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT
);
INSERT INTO users (id, name, email) VALUES
	(1, 'alice', 'alice@example.com'),
	(2, 'bob', NULL),
	(3, 'carol', 'carol@example.com');
`

func testConfig(t *testing.T) *config.Database {
	t.Helper()
	cfg := &config.Database{DSN: filepath.Join(t.TempDir(), "test.db")}
	require.NoError(t, cfg.Normalize("test"))
	return cfg
}

// newTestConnection returns an open sqlite connection seeded with users.
func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	c, err := NewConnection(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.Exec(context.Background(), testDDL)
	require.NoError(t, err)
	return c
}
