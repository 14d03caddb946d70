package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_add_index.sql":  {Data: []byte("CREATE INDEX i ON t(a);")},
		"m/001_create_t.sql":   {Data: []byte("CREATE TABLE t (a TEXT);")},
		"m/README.md":          {Data: []byte("ignored")},
		"other/003_unused.sql": {Data: []byte("SELECT 1;")},
	}

	migrations, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_t", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestLoadMigrations_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "bad name", fsys: fstest.MapFS{"m/init.sql": {Data: []byte("")}}},
		{name: "duplicate version", fsys: fstest.MapFS{
			"m/001_a.sql": {Data: []byte("")},
			"m/1_b.sql":   {Data: []byte("")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys, "m")
			assert.Error(t, err)
		})
	}
}

func TestMigrator_Run(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, Config{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_create_t.sql": {Data: []byte("CREATE TABLE t (a TEXT);")},
		"m/002_seed.sql":     {Data: []byte("INSERT INTO t (a) VALUES ('x');")},
	}
	m := NewMigrator(db, zap.NewNop())

	n, err := m.Run(ctx, fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Run(ctx, fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "applied migrations are skipped")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, Config{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{"m/001_broken.sql": {Data: []byte("CREATE TABLE broken (;")}}
	_, err = NewMigrator(db, zap.NewNop()).Run(ctx, fsys, "m")
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 0, count)
}
