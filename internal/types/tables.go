package types

// StatusPending is the intake status every captured item starts in.
// The refiner promotes items out of it; nothing moves an item back.
const StatusPending = "pending"

// Lookup table names shared by the cache and the router.
const (
	ProjectsTable = "dev_projects"
	PhasesTable   = "dev_project_phases"
)

// TableSpec describes one destination table: which columns hold the
// classifiable text, which status an item lands in after refinement,
// and which extra columns the refiner reads to fill defaults.
//
// The nine tables and their terminal statuses are a fixed contract
// with the capture stage and the dashboard; changing them breaks
// compatibility with existing data.
type TableSpec struct {
	Name        string
	TitleColumn string
	BodyColumn  string
	FinalStatus string
	// ExtraColumns are fetched during refinement so defaults are only
	// applied when the capture stage left the field unset.
	ExtraColumns []string
}

// Tables is the fixed list of destination tables, in processing order.
var Tables = []TableSpec{
	{Name: "dev_ai_todos", TitleColumn: "title", BodyColumn: "description", FinalStatus: "open", ExtraColumns: []string{"bucket", "priority"}},
	{Name: "dev_ai_bugs", TitleColumn: "title", BodyColumn: "description", FinalStatus: "open", ExtraColumns: []string{"bucket", "severity"}},
	{Name: "dev_ai_knowledge", TitleColumn: "title", BodyColumn: "content", FinalStatus: "published", ExtraColumns: []string{"importance"}},
	{Name: "dev_ai_decisions", TitleColumn: "title", BodyColumn: "description", FinalStatus: "decided"},
	{Name: "dev_ai_lessons", TitleColumn: "title", BodyColumn: "description", FinalStatus: "published"},
	{Name: "dev_ai_docs", TitleColumn: "title", BodyColumn: "content", FinalStatus: "draft", ExtraColumns: []string{"doc_type"}},
	{Name: "dev_ai_conventions", TitleColumn: "name", BodyColumn: "description", FinalStatus: "active", ExtraColumns: []string{"convention_type"}},
	{Name: "dev_ai_journal", TitleColumn: "title", BodyColumn: "content", FinalStatus: "published", ExtraColumns: []string{"bucket", "entry_type"}},
	{Name: "dev_ai_snippets", TitleColumn: "name", BodyColumn: "content", FinalStatus: "published"},
}

// TableByName looks up the spec for a destination table.
// The second return value is false for unknown tables.
func TableByName(name string) (TableSpec, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSpec{}, false
}

// TableNames returns the destination table names in processing order.
func TableNames() []string {
	names := make([]string, len(Tables))
	for i, t := range Tables {
		names[i] = t.Name
	}
	return names
}
