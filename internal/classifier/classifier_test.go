package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodiack/clair/internal/catalog"
	"github.com/kodiack/clair/internal/lookup"
	"github.com/kodiack/clair/internal/store"
	"github.com/kodiack/clair/internal/store/sqlite"
	"github.com/kodiack/clair/internal/types"
)

func newFixture(t *testing.T) (store.Store, *catalog.Catalog, *Classifier) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cat := catalog.New()
	return st, cat, New(cat, lookup.New(st, 0))
}

func seedProject(t *testing.T, st store.Store, id, name string) {
	t.Helper()
	_, err := st.Insert(context.Background(), types.ProjectsTable, store.Row{
		"id": id, "name": name, "client_id": "client-" + id,
	})
	require.NoError(t, err)
}

func TestClassifyProjectHighestScoreWins(t *testing.T) {
	st, cat, c := newFixture(t)
	seedProject(t, st, "p1", "Billing")
	seedProject(t, st, "p2", "Auctions")

	// Billing is declared first and matches one pattern; Auctions
	// matches two and must win despite coming later
	cat.AddProjectRule([]string{"invoice"}, "Billing")
	cat.AddProjectRule([]string{"auction", "bidder"}, "Auctions")

	match, err := c.ClassifyProject(context.Background(),
		"Auction invoice mixup", "the bidder was charged twice")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "p2", match.ProjectID)
	assert.Equal(t, "Auctions", match.ProjectName)
	assert.Equal(t, "client-p2", match.ClientID)
	assert.Equal(t, "auction", match.MatchedPattern)
	require.NoError(t, match.Validate())
}

func TestClassifyProjectTieGoesToFirstRule(t *testing.T) {
	st, cat, c := newFixture(t)
	seedProject(t, st, "p1", "Billing")
	seedProject(t, st, "p2", "Auctions")

	cat.AddProjectRule([]string{"invoice"}, "Billing")
	cat.AddProjectRule([]string{"auction"}, "Auctions")

	match, err := c.ClassifyProject(context.Background(), "Auction invoice mixup", "")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Billing", match.ProjectName)
}

func TestClassifyProjectCaseInsensitive(t *testing.T) {
	st, cat, c := newFixture(t)
	seedProject(t, st, "p1", "Billing")
	cat.AddProjectRule([]string{"INVOICE"}, "Billing")

	match, err := c.ClassifyProject(context.Background(), "Fix Invoice totals", "")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "p1", match.ProjectID)
}

func TestClassifyProjectNoMatch(t *testing.T) {
	st, cat, c := newFixture(t)
	seedProject(t, st, "p1", "Billing")
	cat.AddProjectRule([]string{"invoice"}, "Billing")

	match, err := c.ClassifyProject(context.Background(), "Refactor build scripts", "")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestClassifyProjectUnresolvableLabelIsNoMatch(t *testing.T) {
	_, cat, c := newFixture(t)

	// The label has no backing row, so the win is discarded
	cat.AddProjectRule([]string{"invoice"}, "Ghost Project")

	match, err := c.ClassifyProject(context.Background(), "Fix invoice totals", "")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestClassifyProjectBodyCountsTowardScore(t *testing.T) {
	st, cat, c := newFixture(t)
	seedProject(t, st, "p1", "Billing")
	cat.AddProjectRule([]string{"invoice", "ledger"}, "Billing")

	match, err := c.ClassifyProject(context.Background(),
		"Month-end cleanup", "reconcile the ledger before closing")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "ledger", match.MatchedPattern)
}

func TestClassifyPhase(t *testing.T) {
	_, cat, c := newFixture(t)
	cat.AddPhaseRule([]string{"auth", "login", "session"}, "Core Platform")
	cat.AddPhaseRule([]string{"sprite", "texture"}, "Game Development")

	phases := []*types.Phase{
		{ID: "ph1", Name: "Core Platform"},
		{ID: "ph2", Name: "Game Development"},
	}

	got := c.ClassifyPhase("Fix login session drop", "", phases)
	require.NotNil(t, got)
	assert.Equal(t, "ph1", got.ID)

	got = c.ClassifyPhase("Compress sprite textures", "", phases)
	require.NotNil(t, got)
	assert.Equal(t, "ph2", got.ID)

	assert.Nil(t, c.ClassifyPhase("Update release notes", "", phases))
}

func TestClassifyPhaseOnlyConsidersCandidates(t *testing.T) {
	_, cat, c := newFixture(t)
	cat.AddPhaseRule([]string{"login"}, "Core Platform")

	// The matching phase exists in the catalog but not among this
	// project's candidates, so nothing is assigned
	phases := []*types.Phase{{ID: "ph2", Name: "Game Development"}}
	assert.Nil(t, c.ClassifyPhase("Fix login flow", "", phases))
}

func TestClassifyPhaseTieGoesToEarlierPhase(t *testing.T) {
	_, cat, c := newFixture(t)
	cat.AddPhaseRule([]string{"deploy"}, "Core Platform")
	cat.AddPhaseRule([]string{"deploy"}, "Web Development")

	phases := []*types.Phase{
		{ID: "ph1", Name: "Core Platform"},
		{ID: "ph2", Name: "Web Development"},
	}
	got := c.ClassifyPhase("Automate deploy checks", "", phases)
	require.NotNil(t, got)
	assert.Equal(t, "ph1", got.ID)
}
