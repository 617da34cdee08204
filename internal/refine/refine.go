// Package refine promotes captured items from the intake status to
// their table-specific terminal status, filling table defaults along
// the way. The state machine is binary at this layer: pending in,
// terminal out. Promoted items no longer match the intake filter, so
// overlapping or repeated runs converge instead of colliding.
package refine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kodiack/clair/internal/store"
	"github.com/kodiack/clair/internal/types"
)

// DefaultBatchSize bounds how many intake items one cycle picks up per
// table. Anything left over is caught by the next cycle.
const DefaultBatchSize = 50

// Informal grouping sentinels written by the capture stage. A bug
// captured under "Bugs Fixed" is already resolved and goes straight to
// the fixed status; a journal entry under "Work Log" gets the work_log
// entry type instead of the generic default.
const (
	bucketBugsFixed = "Bugs Fixed"
	bucketWorkLog   = "Work Log"
)

// Result aggregates one full pipeline cycle
type Result struct {
	Refined int `json:"refined"`
	Errors  int `json:"errors"`
}

// TableResult reports one table's refinement pass
type TableResult struct {
	Refined int `json:"refined"`
	Errors  int `json:"errors"`
}

// Refiner runs the intake-to-terminal promotion over the destination
// tables.
type Refiner struct {
	store     store.Store
	batchSize int
	now       func() time.Time // overridable in tests
}

// New creates a refiner with the default batch size
func New(st store.Store) *Refiner {
	return &Refiner{store: st, batchSize: DefaultBatchSize, now: time.Now}
}

// RunOnce processes one pipeline cycle across every destination table
// and returns the aggregate counts. Per-table failures contribute to
// the error count without aborting sibling tables.
func (r *Refiner) RunOnce(ctx context.Context) *Result {
	result := &Result{}
	for _, spec := range types.Tables {
		tableResult := r.processTable(ctx, spec)
		result.Refined += tableResult.Refined
		result.Errors += tableResult.Errors

		if tableResult.Refined > 0 {
			log.Printf("refine: %s: %d item(s) refined to %q", spec.Name, tableResult.Refined, spec.FinalStatus)
		}
	}
	return result
}

// ProcessTable refines one table's intake items. Unknown table names
// are a caller error.
func (r *Refiner) ProcessTable(ctx context.Context, table string) (*TableResult, error) {
	spec, ok := types.TableByName(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}
	return r.processTable(ctx, spec), nil
}

func (r *Refiner) processTable(ctx context.Context, spec types.TableSpec) *TableResult {
	result := &TableResult{}

	columns := append([]string{"id"}, spec.ExtraColumns...)
	rows, err := r.store.Select(ctx, store.Query{
		Table:   spec.Name,
		Columns: columns,
		Where:   []store.Cond{store.Eq("status", types.StatusPending)},
		OrderBy: "created_at",
		Limit:   r.batchSize,
	})
	if err != nil {
		log.Printf("refine: failed to fetch pending items from %s: %v", spec.Name, err)
		result.Errors++
		return result
	}

	for _, item := range rows {
		patch := r.refineItem(spec, item)

		// Guard on the intake status so an overlapping run that already
		// promoted this item turns the write into a no-op
		where := []store.Cond{
			store.Eq("id", item.Text("id")),
			store.Eq("status", types.StatusPending),
		}
		if _, err := r.store.Update(ctx, spec.Name, patch, where); err != nil {
			log.Printf("refine: failed to update %s/%s: %v", spec.Name, item.Text("id"), err)
			result.Errors++
			continue
		}
		result.Refined++
	}

	return result
}

// refineItem builds the promotion patch for one item: terminal status,
// refinement timestamp, and table defaults applied only when the
// capture stage left the field unset.
func (r *Refiner) refineItem(spec types.TableSpec, item store.Row) store.Row {
	patch := store.Row{
		"status":     spec.FinalStatus,
		"refined_at": r.now().UTC().Format(time.RFC3339),
	}

	switch spec.Name {
	case "dev_ai_todos":
		if item.Text("priority") == "" {
			patch["priority"] = "medium"
		}
	case "dev_ai_bugs":
		if item.Text("severity") == "" {
			patch["severity"] = "medium"
		}
		if item.Text("bucket") == bucketBugsFixed {
			patch["status"] = "fixed"
		}
	case "dev_ai_knowledge":
		if item.Int("importance") == 0 {
			patch["importance"] = 5
		}
	case "dev_ai_docs":
		if item.Text("doc_type") == "" {
			patch["doc_type"] = "reference"
		}
	case "dev_ai_conventions":
		if item.Text("convention_type") == "" {
			patch["convention_type"] = "other"
		}
	case "dev_ai_journal":
		if item.Text("entry_type") == "" {
			patch["entry_type"] = "journal"
		}
		if item.Text("bucket") == bucketWorkLog {
			patch["entry_type"] = "work_log"
		}
	}

	return patch
}
