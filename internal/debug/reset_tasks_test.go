package debug

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrichmond93/ChatbotPOC/internal/database"
	"github.com/jrichmond93/ChatbotPOC/internal/tasks"
)

func TestResetTasks(t *testing.T) {
	db, err := database.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := tasks.NewRepository(db)
	_, err = repo.Create(ctx, "extra")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 1))

	require.NoError(t, ResetTasks(ctx, db.DB))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, "Learn React", got[0].Title)
	require.True(t, got[1].Completed)
}
