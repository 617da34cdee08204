// Package catalog holds the keyword rule sets that drive content
// classification. Rules are data, not code: the built-in sets below can
// be extended at runtime (append-only) or from YAML rule packs, and a
// restart resets to the built-ins.
package catalog

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rule maps a set of literal lowercase substrings to a target label:
// a project display name for project rules, a phase name for phase
// rules. Multiple rules may share a label; their patterns accumulate.
type Rule struct {
	Patterns []string `yaml:"patterns"`
	Label    string   `yaml:"label"`
}

// Catalog is an ordered, append-only collection of project-routing and
// phase-routing rules. Appends take effect for the next classification
// call; there is no removal operation.
type Catalog struct {
	mu           sync.RWMutex
	projectRules []Rule
	phaseRules   []Rule
}

// New returns an empty catalog
func New() *Catalog {
	return &Catalog{}
}

// Default returns a catalog seeded with the built-in rule sets.
func Default() *Catalog {
	c := &Catalog{}
	c.projectRules = append(c.projectRules, builtinProjectRules...)
	c.phaseRules = append(c.phaseRules, builtinPhaseRules...)
	return c
}

// AddProjectRule appends a project-routing rule. Patterns are stored
// lowercased; matching is substring containment.
func (c *Catalog) AddProjectRule(patterns []string, projectName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectRules = append(c.projectRules, Rule{Patterns: lowered(patterns), Label: projectName})
}

// AddPhaseRule appends a phase-routing rule keyed by phase name.
func (c *Catalog) AddPhaseRule(patterns []string, phaseName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phaseRules = append(c.phaseRules, Rule{Patterns: lowered(patterns), Label: phaseName})
}

// ProjectRules returns a snapshot of the project rules in catalog order.
func (c *Catalog) ProjectRules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rules := make([]Rule, len(c.projectRules))
	copy(rules, c.projectRules)
	return rules
}

// PhasePatterns returns every pattern registered for the given phase
// name, in catalog order. Returns nil when no rule targets the phase.
func (c *Catalog) PhasePatterns(phaseName string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var patterns []string
	for _, r := range c.phaseRules {
		if r.Label == phaseName {
			patterns = append(patterns, r.Patterns...)
		}
	}
	return patterns
}

// rulePack is the YAML layout of an on-disk rule file
type rulePack struct {
	Projects []Rule `yaml:"projects"`
	Phases   []Rule `yaml:"phases"`
}

// LoadFile appends the rules from a YAML rule pack to the catalog.
// The file lists project and phase rules:
//
//	projects:
//	  - label: NextBid Engine
//	    patterns: ["bid pipeline", "settlement"]
//	phases:
//	  - label: Core Platform
//	    patterns: ["sso", "tenant"]
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rule pack: %w", err)
	}

	var pack rulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("failed to parse rule pack %s: %w", path, err)
	}

	for _, r := range pack.Projects {
		if r.Label == "" || len(r.Patterns) == 0 {
			return fmt.Errorf("rule pack %s: project rule needs a label and patterns", path)
		}
		c.AddProjectRule(r.Patterns, r.Label)
	}
	for _, r := range pack.Phases {
		if r.Label == "" || len(r.Patterns) == 0 {
			return fmt.Errorf("rule pack %s: phase rule needs a label and patterns", path)
		}
		c.AddPhaseRule(r.Patterns, r.Label)
	}
	return nil
}

func lowered(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}
