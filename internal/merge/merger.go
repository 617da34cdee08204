// Package merge collapses near-duplicate items within a project. The
// earliest item in a similarity cluster becomes the primary and absorbs
// the later duplicates' descriptions; duplicates are moved to their
// table's merged terminal status with a back-reference to the primary.
// Nothing is ever deleted.
package merge

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kodiack/clair/internal/store"
)

// Statuses considered still active for merging. Completed and terminal
// items are left alone.
var (
	todoActiveStatuses = []string{"open", "pending", "in_progress", "flagged"}
	bugActiveStatuses  = []string{"open", "pending", "flagged"}
)

// Result reports one table's merge pass
type Result struct {
	// Merged is the number of duplicates absorbed into a primary
	Merged int `json:"merged"`
	// Checked is the number of active items scanned
	Checked int `json:"checked"`
}

// Validate checks if the merge result has valid values
func (r *Result) Validate() error {
	if r.Merged < 0 {
		return fmt.Errorf("merged cannot be negative (got %d)", r.Merged)
	}
	if r.Checked < 0 {
		return fmt.Errorf("checked cannot be negative (got %d)", r.Checked)
	}
	if r.Merged >= r.Checked && r.Merged > 0 {
		return fmt.Errorf("merged (%d) must be less than checked (%d): every cluster keeps a primary", r.Merged, r.Checked)
	}
	return nil
}

// CombinedResult reports a merge pass over both tables
type CombinedResult struct {
	Todos       *Result `json:"todos"`
	Bugs        *Result `json:"bugs"`
	TotalMerged int     `json:"total_merged"`
}

// Merger detects and collapses near-duplicate items
type Merger struct {
	store store.Store
	cfg   Config
}

// New creates a merger with the given configuration
func New(st store.Store, cfg Config) *Merger {
	return &Merger{store: st, cfg: cfg}
}

// MergeTodos merges similar active todos. Duplicates are marked
// completed.
func (m *Merger) MergeTodos(ctx context.Context) (*Result, error) {
	return m.mergeTable(ctx, "dev_ai_todos", todoActiveStatuses, m.cfg.TodoThreshold, m.cfg.TodoBatchLimit, "completed")
}

// MergeBugs merges similar active bugs. Duplicates are marked fixed.
func (m *Merger) MergeBugs(ctx context.Context) (*Result, error) {
	return m.mergeTable(ctx, "dev_ai_bugs", bugActiveStatuses, m.cfg.BugThreshold, m.cfg.BugBatchLimit, "fixed")
}

// MergeAll merges both tables and combines the counts
func (m *Merger) MergeAll(ctx context.Context) (*CombinedResult, error) {
	todos, err := m.MergeTodos(ctx)
	if err != nil {
		return nil, err
	}
	bugs, err := m.MergeBugs(ctx)
	if err != nil {
		return nil, err
	}
	return &CombinedResult{
		Todos:       todos,
		Bugs:        bugs,
		TotalMerged: todos.Merged + bugs.Merged,
	}, nil
}

// mergeTable runs the pairwise similarity scan over one table. The scan
// is O(n²) in batch size by design; batch limits bound the cost. This
// is a sliding-window cleanup over the oldest active items, not a
// global all-time dedup pass.
func (m *Merger) mergeTable(ctx context.Context, table string, activeStatuses []string, threshold float64, limit int, mergedStatus string) (*Result, error) {
	rows, err := m.store.Select(ctx, store.Query{
		Table:   table,
		Columns: []string{"id", "title", "description", "project_id", "status", "created_at"},
		Where:   []store.Cond{store.In("status", activeStatuses...)},
		OrderBy: "created_at",
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active items from %s: %w", table, err)
	}

	result := &Result{Checked: len(rows)}
	if len(rows) < 2 {
		return result, nil
	}

	absorbed := make(map[string]bool)

	for i := range rows {
		primary := rows[i]
		if absorbed[primary.Text("id")] {
			continue
		}

		var duplicates []store.Row
		for j := i + 1; j < len(rows); j++ {
			secondary := rows[j]
			if absorbed[secondary.Text("id")] {
				continue
			}
			// Duplicates only make sense within the same project
			if primary.Text("project_id") != secondary.Text("project_id") {
				continue
			}
			if Similarity(primary.Text("title"), secondary.Text("title")) >= threshold {
				duplicates = append(duplicates, secondary)
				absorbed[secondary.Text("id")] = true
			}
		}

		if len(duplicates) == 0 {
			continue
		}

		// Extend the primary's description with each duplicate's,
		// skipping content already present so repeated runs do not
		// grow it without bound
		combined := primary.Text("description")
		for _, dup := range duplicates {
			desc := dup.Text("description")
			if desc != "" && !strings.Contains(combined, desc) {
				combined += "\n\n---\n" + desc
			}
		}
		if len(combined) > m.cfg.MaxDescriptionLength {
			combined = combined[:m.cfg.MaxDescriptionLength]
		}

		primaryPatch := store.Row{
			"description": combined,
			"title":       fmt.Sprintf("%s (+%d merged)", primary.Text("title"), len(duplicates)),
		}
		primaryWhere := []store.Cond{
			store.Eq("id", primary.Text("id")),
			store.In("status", activeStatuses...),
		}
		if _, err := m.store.Update(ctx, table, primaryPatch, primaryWhere); err != nil {
			// The duplicates' content never reached the primary: leave
			// the whole cluster active for retry on the next run
			log.Printf("merge: failed to update primary %s/%s: %v", table, primary.Text("id"), err)
			for _, dup := range duplicates {
				delete(absorbed, dup.Text("id"))
			}
			continue
		}

		for _, dup := range duplicates {
			dupPatch := store.Row{
				"status":      mergedStatus,
				"description": dup.Text("description") + "\n\n[Merged into: " + primary.Text("title") + "]",
			}
			dupWhere := []store.Cond{
				store.Eq("id", dup.Text("id")),
				store.In("status", activeStatuses...),
			}
			if _, err := m.store.Update(ctx, table, dupPatch, dupWhere); err != nil {
				// Stays active; the next run re-detects and retries
				log.Printf("merge: failed to mark duplicate %s/%s: %v", table, dup.Text("id"), err)
				continue
			}
			result.Merged++
		}

		log.Printf("merge: %s/%s absorbed %d duplicate(s)", table, primary.Text("id"), len(duplicates))
	}

	return result, nil
}
