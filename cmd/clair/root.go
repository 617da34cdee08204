package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodiack/clair/internal/catalog"
	"github.com/kodiack/clair/internal/classifier"
	"github.com/kodiack/clair/internal/lookup"
	"github.com/kodiack/clair/internal/merge"
	"github.com/kodiack/clair/internal/refine"
	"github.com/kodiack/clair/internal/router"
	"github.com/kodiack/clair/internal/store/sqlite"
)

var (
	dbPath       string
	patternsFile string
)

var rootCmd = &cobra.Command{
	Use:   "clair",
	Short: "Content-based classification, routing and dedup for captured work items",
	Long: `Clair is the final line of defense for content routing.

Captured work items (todos, bugs, knowledge notes, journal entries, ...)
land in nine destination tables with a pending status and, often, the
wrong project. Clair classifies each item's true owning project and
roadmap phase from its text, merges near-duplicates within a project,
and promotes pending items to their table's terminal status.

All operations are idempotent and safe to re-run against a live,
growing dataset.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".clair/clair.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&patternsFile, "patterns", "", "YAML rule pack appended to the built-in catalog")
}

// pipeline bundles the wired-up components behind the CLI commands
type pipeline struct {
	store   *sqlite.SQLiteStore
	catalog *catalog.Catalog
	cache   *lookup.Cache
	router  *router.Router
	merger  *merge.Merger
	refiner *refine.Refiner
}

// initPipeline opens the store and wires the catalog, cache,
// classifier, router, merger and refiner together. The caller owns the
// store and must Close it.
func initPipeline() (*pipeline, error) {
	st, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	cat := catalog.Default()
	if patternsFile != "" {
		if err := cat.LoadFile(patternsFile); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	cfg, err := merge.ConfigFromEnv()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	cache := lookup.New(st, lookup.DefaultTTL)
	cls := classifier.New(cat, cache)

	return &pipeline{
		store:   st,
		catalog: cat,
		cache:   cache,
		router:  router.New(st, cls, cache),
		merger:  merge.New(st, cfg),
		refiner: refine.New(st),
	}, nil
}

func (p *pipeline) Close() {
	_ = p.store.Close()
}
