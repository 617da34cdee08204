// Package classifier scores item text against the pattern catalog to
// decide which project or phase a record is really about.
//
// Both algorithms share a design: lowercase the title and body into one
// search text, score every candidate label by how many of its patterns
// appear as substrings, and pick the strictly highest score. Ties go to
// the first label in catalog order, and a zero score for every label
// means "no classification" rather than an error. This is a
// deterministic heuristic overlay, the final line of defense when the
// capture stage filed something under the wrong project.
package classifier

import (
	"context"
	"strings"

	"github.com/kodiack/clair/internal/catalog"
	"github.com/kodiack/clair/internal/lookup"
	"github.com/kodiack/clair/internal/types"
)

// Classifier scores content against the catalog, resolving winning
// project labels through the lookup cache.
type Classifier struct {
	catalog *catalog.Catalog
	cache   *lookup.Cache
}

// New creates a classifier over the given catalog and cache
func New(cat *catalog.Catalog, cache *lookup.Cache) *Classifier {
	return &Classifier{catalog: cat, cache: cache}
}

// ClassifyProject detects which project the content is really about.
// A winning label that does not resolve to an existing project is
// treated as no match, so stale rules cannot route items into the void.
func (c *Classifier) ClassifyProject(ctx context.Context, title, body string) (*types.ProjectMatch, error) {
	text := searchText(title, body)

	type tally struct {
		score        int
		firstPattern string
	}
	scores := make(map[string]*tally)
	var order []string

	// Scan every rule; rules are not short-circuited so the highest
	// scoring label wins, not the first match
	for _, rule := range c.catalog.ProjectRules() {
		t := scores[rule.Label]
		if t == nil {
			t = &tally{}
			scores[rule.Label] = t
			order = append(order, rule.Label)
		}
		for _, pattern := range rule.Patterns {
			if strings.Contains(text, pattern) {
				t.score++
				if t.firstPattern == "" {
					t.firstPattern = pattern
				}
			}
		}
	}

	var bestLabel string
	best := 0
	for _, label := range order {
		if t := scores[label]; t.score > best {
			best = t.score
			bestLabel = label
		}
	}
	if best == 0 {
		return nil, nil
	}

	project, err := c.cache.ResolveProject(ctx, bestLabel)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	return &types.ProjectMatch{
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		ClientID:       project.ClientID,
		MatchedPattern: scores[bestLabel].firstPattern,
	}, nil
}

// ClassifyPhase detects which of the given phases the content belongs
// to. Candidates are only the phases supplied by the caller, so two
// projects can reuse a phase name without cross-assignment. Returns nil
// when no phase scores above zero.
func (c *Classifier) ClassifyPhase(title, body string, phases []*types.Phase) *types.Phase {
	text := searchText(title, body)

	var best *types.Phase
	bestScore := 0
	for _, phase := range phases {
		patterns := c.catalog.PhasePatterns(phase.Name)
		if len(patterns) == 0 {
			continue
		}

		score := 0
		for _, pattern := range patterns {
			if strings.Contains(text, pattern) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = phase
		}
	}
	return best
}

func searchText(title, body string) string {
	return strings.ToLower(title + " " + body)
}
