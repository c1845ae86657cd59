package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)
	ctx := context.Background()

	val, ok, err := repo.Get(ctx, "agenda_items")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestKVRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "agenda_items", []byte(`[{"id":"a"}]`)))

	val, ok, err := repo.Get(ctx, "agenda_items")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(val))
}

func TestKVRepo_SetReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "agenda_session", []byte(`{"username":"old"}`)))
	require.NoError(t, repo.Set(ctx, "agenda_session", []byte(`{"username":"new"}`)))

	val, ok, err := repo.Get(ctx, "agenda_session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"new"}`, string(val))

	var count int
	require.NoError(t, db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestKVRepo_Unicode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)
	ctx := context.Background()

	value := []byte(`[{"title":"Rapat 📅 ñ"}]`)
	require.NoError(t, repo.Set(ctx, "agenda_items", value))

	val, ok, err := repo.Get(ctx, "agenda_items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, val)
}

func TestKVRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "agenda_session", []byte(`{}`)))
	require.NoError(t, repo.Delete(ctx, "agenda_session"))

	_, ok, err := repo.Get(ctx, "agenda_session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVRepo_DeleteMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepo(db)

	assert.NoError(t, repo.Delete(context.Background(), "nonexistent"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	err := RunMigrations(db.Writer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, err, "second run should be a no-op")
}
