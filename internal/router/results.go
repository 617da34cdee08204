package router

import "fmt"

// RouteResult reports one table's routing scan
type RouteResult struct {
	// Checked is the number of items fetched and classified
	Checked int `json:"checked"`
	// Rerouted is the number of items whose project reference was
	// rewritten (or would have been, under dry run)
	Rerouted int `json:"rerouted"`
}

// Validate checks if the route result has valid values
func (r *RouteResult) Validate() error {
	if r.Checked < 0 {
		return fmt.Errorf("checked cannot be negative (got %d)", r.Checked)
	}
	if r.Rerouted < 0 {
		return fmt.Errorf("rerouted cannot be negative (got %d)", r.Rerouted)
	}
	if r.Rerouted > r.Checked {
		return fmt.Errorf("rerouted (%d) cannot exceed checked (%d)", r.Rerouted, r.Checked)
	}
	return nil
}

// RouteAllResult aggregates routing across every destination table.
// Tables that failed to fetch appear in Errors instead of Tables.
type RouteAllResult struct {
	Tables        map[string]*RouteResult `json:"tables"`
	Errors        map[string]string       `json:"errors,omitempty"`
	TotalRerouted int                     `json:"total_rerouted"`
}

// PathRouteResult reports a path-targeted backfill scan
type PathRouteResult struct {
	Path     string `json:"path"`
	Rerouted int    `json:"rerouted"`
	DryRun   bool   `json:"dry_run"`
}

// PhaseAssignment records one item being linked to a phase
type PhaseAssignment struct {
	ItemID    string `json:"item_id"`
	PhaseID   string `json:"phase_id"`
	PhaseName string `json:"phase_name"`
}

// PhaseRouteResult reports one table's phase-routing scan. Skipped is
// true when the table's phase column does not exist yet.
type PhaseRouteResult struct {
	Assigned int  `json:"assigned"`
	Total    int  `json:"total"`
	Skipped  bool `json:"skipped,omitempty"`
}

// PhaseRouteAllResult combines todo and bug phase routing
type PhaseRouteAllResult struct {
	Todos         *PhaseRouteResult `json:"todos"`
	Bugs          *PhaseRouteResult `json:"bugs"`
	TotalAssigned int               `json:"total_assigned"`
}
