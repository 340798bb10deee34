// Package skills maps free-text skill mentions to canonical catalog entries.
package skills

import (
	"sort"
	"strings"

	"github.com/saisrinu135/cleverhire/internal/model"
)

// Catalog is an immutable in-memory snapshot of the skill catalog. Lookups
// are case-insensitive over both names and aliases. Snapshots are replaced
// wholesale on refresh, never mutated.
type Catalog struct {
	byAlias map[string]model.Skill // lowercased name/alias → entry
	entries []model.Skill          // sorted by name length, then id
}

// NewCatalog builds a snapshot from catalog rows.
func NewCatalog(rows []model.Skill) *Catalog {
	c := &Catalog{
		byAlias: make(map[string]model.Skill, len(rows)*2),
		entries: make([]model.Skill, len(rows)),
	}
	copy(c.entries, rows)

	// Deterministic order for fuzzy tie-breaking: shortest catalog name
	// first, then lexicographic id.
	sort.Slice(c.entries, func(i, j int) bool {
		a, b := c.entries[i], c.entries[j]
		if len(a.Name) != len(b.Name) {
			return len(a.Name) < len(b.Name)
		}
		return a.ID < b.ID
	})

	for _, s := range c.entries {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if _, taken := c.byAlias[key]; !taken && key != "" {
			c.byAlias[key] = s
		}
		for _, alias := range s.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if _, taken := c.byAlias[key]; !taken && key != "" {
				c.byAlias[key] = s
			}
		}
	}
	return c
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Exact returns the entry whose name or alias equals mention,
// case-insensitively.
func (c *Catalog) Exact(mention string) (model.Skill, bool) {
	s, ok := c.byAlias[strings.ToLower(strings.TrimSpace(mention))]
	return s, ok
}

// Entries returns the snapshot's entries in tie-break order. The slice must
// not be modified.
func (c *Catalog) Entries() []model.Skill { return c.entries }
