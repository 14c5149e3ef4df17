package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN_Memory(t *testing.T) {
	a := formatDSN(MemoryPath)
	b := formatDSN("")

	assert.True(t, strings.HasPrefix(a, "file:adtrack-"))
	assert.Contains(t, a, "mode=memory")
	assert.NotContains(t, a, "journal_mode")
	assert.NotEqual(t, a, b, "each in-memory database must be private")
}

func TestFormatDSN_File(t *testing.T) {
	dsn := formatDSN("file:data/links.db")
	assert.True(t, strings.HasPrefix(dsn, "file:data/links.db?"))
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")
}

func TestOpen_AppliesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"links", "ads_history"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}

func TestOpen_FileIsReusable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = first.ExecContext(ctx, "INSERT INTO links (id, url, ads_count, added_at) VALUES ('a', 'http://a', 1, '2024-01-01T00:00:00Z')")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.QueryRowContext(ctx, "SELECT COUNT(*) FROM links").Scan(&count))
	assert.Equal(t, 1, count)
}
