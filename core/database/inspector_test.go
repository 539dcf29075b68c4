package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_orders (id TEXT PRIMARY KEY, status TEXT, quantity INTEGER)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_orders")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "text", colMap["id"])
	assert.Equal(t, "text", colMap["status"])
	assert.Equal(t, "integer", colMap["quantity"])

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE test_orders (id TEXT PRIMARY KEY, Status TEXT)").Error)

	missing, err := MissingColumns(db, "test_orders", []string{"id", "status", "created_at"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"created_at"}, missing)

	missing, err = MissingColumns(db, "non_existent", []string{"id"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}
