package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodiack/clair/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInsertMintsID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.Insert(ctx, "dev_ai_todos", store.Row{
		"title":  "Fix login bug",
		"status": "pending",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Text("id"))

	rows, err := st.Select(ctx, store.Query{Table: "dev_ai_todos"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.Text("id"), rows[0].Text("id"))
	assert.Equal(t, "Fix login bug", rows[0].Text("title"))
}

func TestInsertKeepsProvidedID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.Insert(ctx, "dev_projects", store.Row{
		"id":   "proj-1",
		"name": "NextBid Engine",
	})
	require.NoError(t, err)
	assert.Equal(t, "proj-1", created.Text("id"))
}

func TestSelectPredicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seed := []store.Row{
		{"id": "t1", "title": "One", "status": "pending", "project_path": "/repos/engine/api", "created_at": "2026-01-01T00:00:00Z"},
		{"id": "t2", "title": "Two", "status": "open", "project_path": "/repos/core/web", "created_at": "2026-01-02T00:00:00Z"},
		{"id": "t3", "title": "Three", "status": "flagged", "phase_id": "ph-1", "created_at": "2026-01-03T00:00:00Z"},
	}
	for _, row := range seed {
		_, err := st.Insert(ctx, "dev_ai_todos", row)
		require.NoError(t, err)
	}

	t.Run("eq", func(t *testing.T) {
		rows, err := st.Select(ctx, store.Query{
			Table: "dev_ai_todos",
			Where: []store.Cond{store.Eq("status", "open")},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "t2", rows[0].Text("id"))
	})

	t.Run("in", func(t *testing.T) {
		rows, err := st.Select(ctx, store.Query{
			Table: "dev_ai_todos",
			Where: []store.Cond{store.In("status", "open", "flagged")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("contains", func(t *testing.T) {
		rows, err := st.Select(ctx, store.Query{
			Table: "dev_ai_todos",
			Where: []store.Cond{store.Contains("project_path", "engine")},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "t1", rows[0].Text("id"))
	})

	t.Run("is null matches null and empty", func(t *testing.T) {
		rows, err := st.Select(ctx, store.Query{
			Table: "dev_ai_todos",
			Where: []store.Cond{store.IsNull("phase_id")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("order and limit", func(t *testing.T) {
		rows, err := st.Select(ctx, store.Query{
			Table:   "dev_ai_todos",
			OrderBy: "created_at",
			Desc:    true,
			Limit:   1,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "t3", rows[0].Text("id"))
	})

	t.Run("unknown column errors", func(t *testing.T) {
		_, err := st.Select(ctx, store.Query{
			Table:   "dev_ai_todos",
			Columns: []string{"id", "no_such_column"},
		})
		assert.Error(t, err)
	})
}

func TestUpdateGuardedByPredicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Insert(ctx, "dev_ai_todos", store.Row{"id": "t1", "title": "One", "status": "pending"})
	require.NoError(t, err)

	// Guard matches: row is updated
	n, err := st.Update(ctx, "dev_ai_todos", store.Row{"status": "open"}, []store.Cond{
		store.Eq("id", "t1"), store.Eq("status", "pending"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Guard no longer matches: overlapping rerun is a no-op
	n, err = st.Update(ctx, "dev_ai_todos", store.Row{"status": "open"}, []store.Cond{
		store.Eq("id", "t1"), store.Eq("status", "pending"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDeleteRequiresPredicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Insert(ctx, "dev_ai_todos", store.Row{"id": "t1", "title": "One"})
	require.NoError(t, err)

	_, err = st.Delete(ctx, "dev_ai_todos", nil)
	assert.Error(t, err)

	n, err := st.Delete(ctx, "dev_ai_todos", []store.Cond{store.Eq("id", "t1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
