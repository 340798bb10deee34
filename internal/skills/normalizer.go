package skills

import (
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxDistance is the normalized edit-distance floor for fuzzy matches.
const DefaultMaxDistance = 0.2

// Normalizer resolves free-text skill mentions to canonical skill ids.
//
// Resolution order: case-insensitive exact match against catalog names and
// aliases, then an edit-distance pass against catalog names with a similarity
// floor. Ties break by shortest catalog name, then lexicographic id, so the
// result is deterministic for a given snapshot. A miss is not an error — the
// mention is simply unmatched.
//
// The catalog snapshot may be swapped at runtime (the cron sweep reloads it);
// all methods are safe for concurrent use.
type Normalizer struct {
	mu      sync.RWMutex
	catalog *Catalog
	maxDist float64
}

// NewNormalizer returns a Normalizer over the given snapshot.
func NewNormalizer(catalog *Catalog, maxDist float64) *Normalizer {
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}
	return &Normalizer{catalog: catalog, maxDist: maxDist}
}

// SetCatalog swaps in a fresh catalog snapshot.
func (n *Normalizer) SetCatalog(c *Catalog) {
	n.mu.Lock()
	n.catalog = c
	n.mu.Unlock()
}

// snapshot returns the current catalog.
func (n *Normalizer) snapshot() *Catalog {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.catalog
}

// Normalize maps one mention to a canonical skill id. ok is false when the
// catalog has no acceptable match.
func (n *Normalizer) Normalize(mention string) (id string, ok bool) {
	mention = strings.TrimSpace(mention)
	if mention == "" {
		return "", false
	}
	cat := n.snapshot()

	if s, ok := cat.Exact(mention); ok {
		return s.ID, true
	}

	// Fuzzy pass over catalog names. Entries are pre-sorted shortest-name
	// first then by id, so taking the first entry at the minimum distance
	// implements the tie-break rule.
	lower := strings.ToLower(mention)
	bestID := ""
	bestNorm := n.maxDist
	for _, s := range cat.Entries() {
		name := strings.ToLower(s.Name)
		d := levenshtein.ComputeDistance(lower, name)
		longest := len([]rune(lower))
		if l := len([]rune(name)); l > longest {
			longest = l
		}
		if longest == 0 {
			continue
		}
		norm := float64(d) / float64(longest)
		if norm < bestNorm || (norm == bestNorm && bestID == "") {
			bestNorm = norm
			bestID = s.ID
		}
	}
	if bestID == "" {
		return "", false
	}
	return bestID, true
}

// NormalizeAll maps a list of mentions to canonical ids, dropping misses and
// duplicates while preserving first-seen order.
func (n *Normalizer) NormalizeAll(mentions []string) []string {
	seen := make(map[string]bool, len(mentions))
	ids := make([]string, 0, len(mentions))
	for _, m := range mentions {
		id, ok := n.Normalize(m)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
