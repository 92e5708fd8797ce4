package tasks

import (
	"context"
	"testing"

	"github.com/jrichmond93/ChatbotPOC/internal/database"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestRepository_ListSeeded(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []types.Task{
		{ID: 1, Title: "Learn React"},
		{ID: 2, Title: "Build Flask API", Completed: true},
		{ID: 3, Title: "Connect Frontend to Backend"},
	}, got)
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Write Go server")
	require.NoError(t, err)
	require.Equal(t, int64(4), created.ID)
	require.False(t, created.Completed)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestRepository_UpdatePartial(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	done := true
	got, err := repo.Update(ctx, 1, types.UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	require.Equal(t, types.Task{ID: 1, Title: "Learn React", Completed: true}, got)

	title := "Learn Go"
	got, err = repo.Update(ctx, 1, types.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, types.Task{ID: 1, Title: "Learn Go", Completed: true}, got)

	_, err = repo.Update(ctx, 99, types.UpdateTaskRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 2))
	_, err := repo.Get(ctx, 2)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, 2), ErrNotFound)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
