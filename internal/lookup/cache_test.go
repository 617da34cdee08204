package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodiack/clair/internal/store"
	"github.com/kodiack/clair/internal/store/sqlite"
	"github.com/kodiack/clair/internal/types"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedProject(t *testing.T, st store.Store, id, name, slug, clientID, parentID string) {
	t.Helper()
	_, err := st.Insert(context.Background(), types.ProjectsTable, store.Row{
		"id": id, "name": name, "slug": slug, "client_id": clientID, "parent_id": parentID,
	})
	require.NoError(t, err)
}

func seedPhase(t *testing.T, st store.Store, id, projectID, name string, number int) {
	t.Helper()
	_, err := st.Insert(context.Background(), types.PhasesTable, store.Row{
		"id": id, "project_id": projectID, "name": name, "phase_number": number,
	})
	require.NoError(t, err)
}

func TestResolveProjectByNameAndSlug(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "p1", "NextBid Engine", "nextbid-engine", "c1", "")

	c := New(st, 0)

	tests := []struct {
		name string
		key  string
	}{
		{"exact name", "NextBid Engine"},
		{"lowercase name", "nextbid engine"},
		{"uppercase name", "NEXTBID ENGINE"},
		{"slug", "nextbid-engine"},
		{"padded", "  NextBid Engine "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.ResolveProject(ctx, tt.key)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "p1", p.ID)
			assert.Equal(t, "c1", p.ClientID)
		})
	}

	p, err := c.ResolveProject(ctx, "No Such Project")
	require.NoError(t, err)
	assert.Nil(t, p, "a resolution miss is not an error")
}

func TestResolveProjectServesFromCacheUntilInvalidated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "p1", "NextBid Engine", "", "", "")

	c := New(st, 0)

	_, err := c.ResolveProject(ctx, "nextbid engine")
	require.NoError(t, err)

	// Added after the cache was populated: invisible until invalidation
	seedProject(t, st, "p2", "NextTask", "", "", "")

	p, err := c.ResolveProject(ctx, "nexttask")
	require.NoError(t, err)
	assert.Nil(t, p)

	c.Invalidate()

	p, err = c.ResolveProject(ctx, "nexttask")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID)
}

func TestResolveProjectReloadsAfterTTL(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "p1", "NextBid Engine", "", "", "")

	c := New(st, time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	_, err := c.ResolveProject(ctx, "nextbid engine")
	require.NoError(t, err)

	seedProject(t, st, "p2", "NextTask", "", "", "")

	// Still fresh: the new project is not visible yet
	p, err := c.ResolveProject(ctx, "nexttask")
	require.NoError(t, err)
	assert.Nil(t, p)

	// Expired entries are treated as absent and trigger a reload
	current = current.Add(2 * time.Minute)
	p, err = c.ResolveProject(ctx, "nexttask")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID)
}

func TestResolvePhasesOrderedAndCached(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "parent", "Studios Platform", "", "", "")
	seedPhase(t, st, "ph2", "parent", "Code Development", 2)
	seedPhase(t, st, "ph1", "parent", "Core Platform", 1)

	c := New(st, 0)

	phases, err := c.ResolvePhases(ctx, "parent")
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, "Core Platform", phases[0].Name)
	assert.Equal(t, "Code Development", phases[1].Name)

	// Served from cache: a phase added afterwards stays invisible
	seedPhase(t, st, "ph3", "parent", "Creative/Graphics", 3)
	phases, err = c.ResolvePhases(ctx, "parent")
	require.NoError(t, err)
	assert.Len(t, phases, 2)
}

func TestResolvePhasesEmptyNotCached(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "parent", "Studios Platform", "", "", "")

	c := New(st, 0)

	phases, err := c.ResolvePhases(ctx, "parent")
	require.NoError(t, err)
	assert.Empty(t, phases)

	// A project that gains phases is picked up without invalidation
	seedPhase(t, st, "ph1", "parent", "Core Platform", 1)
	phases, err = c.ResolvePhases(ctx, "parent")
	require.NoError(t, err)
	assert.Len(t, phases, 1)
}

func TestPhasesScopedByProject(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedProject(t, st, "pa", "Umbrella A", "", "", "")
	seedProject(t, st, "pb", "Umbrella B", "", "", "")
	seedPhase(t, st, "ph-a", "pa", "Core Platform", 1)
	seedPhase(t, st, "ph-b", "pb", "Core Platform", 1)

	c := New(st, 0)

	phasesA, err := c.ResolvePhases(ctx, "pa")
	require.NoError(t, err)
	require.Len(t, phasesA, 1)
	assert.Equal(t, "ph-a", phasesA[0].ID)

	phasesB, err := c.ResolvePhases(ctx, "pb")
	require.NoError(t, err)
	require.Len(t, phasesB, 1)
	assert.Equal(t, "ph-b", phasesB[0].ID)
}
