// Package router applies classification decisions across the nine
// heterogeneous destination tables. Every operation is idempotent and
// safe to re-run against a live, growing dataset: a second pass over
// unchanged data reroutes nothing.
package router

import (
	"context"
	"fmt"
	"log"

	"github.com/kodiack/clair/internal/classifier"
	"github.com/kodiack/clair/internal/lookup"
	"github.com/kodiack/clair/internal/store"
	"github.com/kodiack/clair/internal/types"
)

// Default batch limits. Callers requesting larger batches bear the full
// scan latency synchronously; there is no queueing.
const (
	DefaultRouteLimit     = 100
	DefaultPathRouteLimit = 500
)

// pathRouteTables are the tables scanned by RouteByPath. Path-targeted
// backfills only ever covered the capture-heavy tables.
var pathRouteTables = []string{"dev_ai_todos", "dev_ai_bugs", "dev_ai_knowledge"}

// Options control a routing scan
type Options struct {
	// Limit bounds how many items are fetched per table. Zero selects
	// the operation's default.
	Limit int
	// DryRun classifies and counts but issues no writes
	DryRun bool
}

// Router scans destination tables and rewrites project, client and
// phase references when classification disagrees with the current
// assignment.
type Router struct {
	store      store.Store
	classifier *classifier.Classifier
	cache      *lookup.Cache
}

// New creates a router over the given store, classifier and cache
func New(st store.Store, cls *classifier.Classifier, cache *lookup.Cache) *Router {
	return &Router{store: st, classifier: cls, cache: cache}
}

// ClassifyOne classifies a single title/body pair without mutating
// anything. Returns nil when the content matches no known project.
func (r *Router) ClassifyOne(ctx context.Context, title, body string) (*types.ProjectMatch, error) {
	return r.classifier.ClassifyProject(ctx, title, body)
}

// RouteTable scans up to Limit items in one destination table and
// rewrites the project and client references of any item whose content
// classifies to a different project. Unknown table names are a caller
// error; a fetch failure aborts this table only.
func (r *Router) RouteTable(ctx context.Context, table string, opts Options) (*RouteResult, error) {
	spec, ok := types.TableByName(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRouteLimit
	}

	rows, err := r.store.Select(ctx, store.Query{
		Table:   table,
		Columns: []string{"id", spec.TitleColumn, spec.BodyColumn, "project_id", "client_id"},
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items from %s: %w", table, err)
	}

	result := &RouteResult{}
	for _, item := range rows {
		result.Checked++

		match, err := r.classifier.ClassifyProject(ctx, item.Text(spec.TitleColumn), item.Text(spec.BodyColumn))
		if err != nil {
			log.Printf("router: classification failed for %s/%s: %v", table, item.Text("id"), err)
			continue
		}
		if match == nil || match.ProjectID == item.Text("project_id") {
			continue
		}

		log.Printf("router: rerouting %s/%s from project %q to %q (pattern %q)",
			table, item.Text("id"), item.Text("project_id"), match.ProjectName, match.MatchedPattern)

		if opts.DryRun {
			result.Rerouted++
			continue
		}

		patch := store.Row{"project_id": match.ProjectID, "client_id": match.ClientID}
		if _, err := r.store.Update(ctx, table, patch, []store.Cond{store.Eq("id", item.Text("id"))}); err != nil {
			// Item keeps its prior assignment; the next scan retries
			log.Printf("router: update failed for %s/%s: %v", table, item.Text("id"), err)
			continue
		}
		result.Rerouted++
	}

	return result, nil
}

// RouteAllTables runs RouteTable over the full fixed list of
// destination tables. A single table's failure is recorded in the
// result, not fatal to the batch.
func (r *Router) RouteAllTables(ctx context.Context, opts Options) (*RouteAllResult, error) {
	result := &RouteAllResult{
		Tables: make(map[string]*RouteResult),
		Errors: make(map[string]string),
	}

	for _, table := range types.TableNames() {
		tableResult, err := r.RouteTable(ctx, table, opts)
		if err != nil {
			log.Printf("router: table %s failed: %v", table, err)
			result.Errors[table] = err.Error()
			continue
		}
		result.Tables[table] = tableResult
		result.TotalRerouted += tableResult.Rerouted
	}

	return result, nil
}

// RouteByPath restricts the scan to items whose recorded origin path
// contains the given substring. Used for targeted backfills after a
// repository moves or a capture path was misconfigured.
func (r *Router) RouteByPath(ctx context.Context, pathSubstring string, opts Options) (*PathRouteResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPathRouteLimit
	}

	result := &PathRouteResult{Path: pathSubstring, DryRun: opts.DryRun}
	for _, table := range pathRouteTables {
		spec, _ := types.TableByName(table)

		rows, err := r.store.Select(ctx, store.Query{
			Table:   table,
			Columns: []string{"id", spec.TitleColumn, spec.BodyColumn, "project_id", "client_id"},
			Where:   []store.Cond{store.Contains("project_path", pathSubstring)},
			Limit:   limit,
		})
		if err != nil {
			log.Printf("router: path route fetch failed for %s: %v", table, err)
			continue
		}

		for _, item := range rows {
			match, err := r.classifier.ClassifyProject(ctx, item.Text(spec.TitleColumn), item.Text(spec.BodyColumn))
			if err != nil {
				log.Printf("router: classification failed for %s/%s: %v", table, item.Text("id"), err)
				continue
			}
			if match == nil || match.ProjectID == item.Text("project_id") {
				continue
			}
			if !opts.DryRun {
				patch := store.Row{"project_id": match.ProjectID, "client_id": match.ClientID}
				if _, err := r.store.Update(ctx, table, patch, []store.Cond{store.Eq("id", item.Text("id"))}); err != nil {
					log.Printf("router: update failed for %s/%s: %v", table, item.Text("id"), err)
					continue
				}
			}
			result.Rerouted++
		}
	}

	return result, nil
}

// AssignPhaseToItem links an item lacking a phase reference to the
// matching roadmap phase. Phases live on the parent project when the
// item's project has one; otherwise the item's own project is checked,
// which covers items filed directly under the phase-bearing umbrella
// project. No-op if the item already has a phase.
func (r *Router) AssignPhaseToItem(ctx context.Context, table string, item store.Row) (*PhaseAssignment, error) {
	if item.Text("phase_id") != "" {
		return nil, nil
	}
	projectID := item.Text("project_id")
	if projectID == "" {
		return nil, nil
	}

	owner, err := r.parentProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		owner = projectID
	}

	phases, err := r.cache.ResolvePhases(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, nil
	}

	title := item.Text("title")
	if title == "" {
		title = item.Text("name")
	}
	body := item.Text("description")
	if body == "" {
		body = item.Text("content")
	}

	phase := r.classifier.ClassifyPhase(title, body, phases)
	if phase == nil {
		return nil, nil
	}

	patch := store.Row{"phase_id": phase.ID}
	if _, err := r.store.Update(ctx, table, patch, []store.Cond{store.Eq("id", item.Text("id"))}); err != nil {
		return nil, fmt.Errorf("failed to assign phase to %s/%s: %w", table, item.Text("id"), err)
	}

	return &PhaseAssignment{ItemID: item.Text("id"), PhaseID: phase.ID, PhaseName: phase.Name}, nil
}

// RouteTodosToPhases scans todos with no phase reference and assigns
// each to the best-matching roadmap phase.
func (r *Router) RouteTodosToPhases(ctx context.Context, opts Options) (*PhaseRouteResult, error) {
	return r.routeToPhases(ctx, "dev_ai_todos", opts, false)
}

// RouteBugsToPhases is the bugs variant of RouteTodosToPhases. The bugs
// table may predate the phase_id column; a fetch failure is reported as
// skipped, not an error, so the batch keeps converging while the schema
// rollout catches up.
func (r *Router) RouteBugsToPhases(ctx context.Context, opts Options) (*PhaseRouteResult, error) {
	return r.routeToPhases(ctx, "dev_ai_bugs", opts, true)
}

// RouteAllToPhases routes both todos and bugs to phases.
func (r *Router) RouteAllToPhases(ctx context.Context, opts Options) (*PhaseRouteAllResult, error) {
	todos, err := r.RouteTodosToPhases(ctx, opts)
	if err != nil {
		return nil, err
	}
	bugs, err := r.RouteBugsToPhases(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &PhaseRouteAllResult{
		Todos:         todos,
		Bugs:          bugs,
		TotalAssigned: todos.Assigned + bugs.Assigned,
	}, nil
}

func (r *Router) routeToPhases(ctx context.Context, table string, opts Options, tolerateMissingColumn bool) (*PhaseRouteResult, error) {
	spec, _ := types.TableByName(table)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRouteLimit
	}

	rows, err := r.store.Select(ctx, store.Query{
		Table:   table,
		Columns: []string{"id", spec.TitleColumn, spec.BodyColumn, "project_id", "phase_id"},
		Where:   []store.Cond{store.IsNull("phase_id")},
		Limit:   limit,
	})
	if err != nil {
		if tolerateMissingColumn {
			log.Printf("router: phase routing skipped for %s (phase_id column may not exist): %v", table, err)
			return &PhaseRouteResult{Skipped: true}, nil
		}
		return nil, fmt.Errorf("failed to fetch unphased items from %s: %w", table, err)
	}

	result := &PhaseRouteResult{Total: len(rows)}
	for _, item := range rows {
		if item.Text("project_id") == "" {
			continue
		}
		assignment, err := r.AssignPhaseToItem(ctx, table, item)
		if err != nil {
			log.Printf("router: phase assignment failed for %s/%s: %v", table, item.Text("id"), err)
			continue
		}
		if assignment != nil {
			result.Assigned++
			log.Printf("router: %s/%s assigned to phase %q", table, assignment.ItemID, assignment.PhaseName)
		}
	}

	return result, nil
}

// parentProject returns the parent project id for a project, or ""
// when the project has no parent or does not exist.
func (r *Router) parentProject(ctx context.Context, projectID string) (string, error) {
	rows, err := r.store.Select(ctx, store.Query{
		Table:   types.ProjectsTable,
		Columns: []string{"id", "parent_id"},
		Where:   []store.Cond{store.Eq("id", projectID)},
		Limit:   1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Text("parent_id"), nil
}
