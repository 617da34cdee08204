// Package lookup provides the TTL-bounded project and phase resolution
// cache that backs classification. A miss or an expired entry triggers a
// synchronous reload that replaces the cached map wholesale, so readers
// never observe a partially populated cache. Concurrent callers may each
// issue a redundant reload; that is an accepted cost, not a correctness
// risk, because reloads are idempotent reads.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kodiack/clair/internal/store"
	"github.com/kodiack/clair/internal/types"
)

// DefaultTTL is how long a (re)populated cache stays valid.
const DefaultTTL = 5 * time.Minute

// Cache resolves projects by lowercase name or slug and phases by
// parent project id. Both maps share one expiry timestamp.
type Cache struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time // overridable in tests

	mu       sync.RWMutex
	projects map[string]*types.Project
	phases   map[string][]*types.Phase
	expiry   time.Time
}

// New creates a cache over the given store. A non-positive ttl selects
// DefaultTTL.
func New(st store.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  st,
		ttl:    ttl,
		now:    time.Now,
		phases: make(map[string][]*types.Phase),
	}
}

// ResolveProject resolves a project by display name or slug,
// case-insensitively. Returns (nil, nil) when no project matches; a
// resolution miss is not an error.
func (c *Cache) ResolveProject(ctx context.Context, nameOrSlug string) (*types.Project, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrSlug))

	c.mu.RLock()
	if c.projects != nil && c.now().Before(c.expiry) {
		p := c.projects[key]
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	projects, err := c.fetchProjects(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !c.now().Before(c.expiry) {
		// Expired entries are absent entries: drop stale phases along
		// with the project map they were loaded against
		c.phases = make(map[string][]*types.Phase)
	}
	c.projects = projects
	c.expiry = c.now().Add(c.ttl)
	p := c.projects[key]
	c.mu.Unlock()

	return p, nil
}

// ResolvePhases returns the phases owned by the given project, ordered
// by phase number. Empty results are returned but not cached, so a
// project that gains phases is picked up on the next call.
func (c *Cache) ResolvePhases(ctx context.Context, projectID string) ([]*types.Phase, error) {
	c.mu.RLock()
	if phases, ok := c.phases[projectID]; ok && c.now().Before(c.expiry) {
		c.mu.RUnlock()
		return phases, nil
	}
	c.mu.RUnlock()

	phases, err := c.fetchPhases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	if !c.now().Before(c.expiry) {
		c.projects = nil
		c.phases = make(map[string][]*types.Phase)
	}
	c.phases[projectID] = phases
	c.expiry = c.now().Add(c.ttl)
	c.mu.Unlock()

	return phases, nil
}

// Invalidate clears both maps and forces the next call to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = nil
	c.phases = make(map[string][]*types.Phase)
	c.expiry = time.Time{}
}

// fetchProjects loads the full project table into a lookup map keyed by
// lowercase name and, when present, lowercase slug.
func (c *Cache) fetchProjects(ctx context.Context) (map[string]*types.Project, error) {
	rows, err := c.store.Select(ctx, store.Query{
		Table:   types.ProjectsTable,
		Columns: []string{"id", "name", "slug", "client_id", "parent_id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	projects := make(map[string]*types.Project, len(rows)*2)
	for _, row := range rows {
		p := &types.Project{
			ID:       row.Text("id"),
			Name:     row.Text("name"),
			Slug:     row.Text("slug"),
			ClientID: row.Text("client_id"),
			ParentID: row.Text("parent_id"),
		}
		projects[strings.ToLower(p.Name)] = p
		if p.Slug != "" {
			projects[strings.ToLower(p.Slug)] = p
		}
	}
	return projects, nil
}

func (c *Cache) fetchPhases(ctx context.Context, projectID string) ([]*types.Phase, error) {
	rows, err := c.store.Select(ctx, store.Query{
		Table:   types.PhasesTable,
		Columns: []string{"id", "name", "project_id", "phase_number", "status"},
		Where:   []store.Cond{store.Eq("project_id", projectID)},
		OrderBy: "phase_number",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load phases for project %s: %w", projectID, err)
	}

	phases := make([]*types.Phase, 0, len(rows))
	for _, row := range rows {
		phases = append(phases, &types.Phase{
			ID:        row.Text("id"),
			ProjectID: row.Text("project_id"),
			Name:      row.Text("name"),
			Number:    row.Int("phase_number"),
			Status:    row.Text("status"),
		})
	}
	return phases, nil
}
