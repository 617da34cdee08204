package types

import "fmt"

// Project is an organizational unit that items are routed to.
// Projects form a two-level hierarchy: a parent "umbrella" project
// owns the roadmap phases shared by its children.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

// Phase is an ordered roadmap stage owned by exactly one project.
// Phase names must be unique within a project so that pattern-based
// phase matching is unambiguous.
type Phase struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Number    int    `json:"phase_number,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ProjectMatch is the result of content-based project classification.
// MatchedPattern records which keyword pattern won, for auditability.
type ProjectMatch struct {
	ProjectID      string `json:"project_id"`
	ProjectName    string `json:"project_name"`
	ClientID       string `json:"client_id,omitempty"`
	MatchedPattern string `json:"matched_pattern"`
}

// Validate checks if the project match has valid field values
func (m *ProjectMatch) Validate() error {
	if m.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if m.ProjectName == "" {
		return fmt.Errorf("project_name is required")
	}
	if m.MatchedPattern == "" {
		return fmt.Errorf("matched_pattern is required")
	}
	return nil
}
