// Package alias implements the hand-curated name alias table. Aliases
// encode human-verified ground truth for author name variants the
// fuzzy heuristics get wrong (reordered names, initials, punctuation
// and transliteration differences), and therefore always take
// precedence over fuzzy matching.
package alias

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scholref/linkage/internal/namenorm"
)

// Table maps normalized name keys to person slugs. Keys are always
// stored in namenorm.Normalize form, the same normalization the
// matcher applies at lookup time.
type Table struct {
	entries map[string]string
}

// New builds a table from raw name → slug pairs. Names are normalized
// on the way in, so callers may supply them in any written form.
func New(pairs map[string]string) *Table {
	t := &Table{entries: make(map[string]string, len(pairs))}
	for name, slug := range pairs {
		t.entries[namenorm.Normalize(name)] = slug
	}
	return t
}

// Load reads an alias table from a YAML file of name → slug pairs.
// A missing file yields an empty table, not an error: most
// deployments start without curated aliases.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("reading alias table: %w", err)
	}

	var pairs map[string]string
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}

	return New(pairs), nil
}

// Lookup resolves a raw name to a person slug. The name is normalized
// before the lookup. The caller must still resolve the slug against
// the current roster: a stale alias is that caller's no-match, not an
// error here.
func (t *Table) Lookup(rawName string) (string, bool) {
	slug, ok := t.entries[namenorm.Normalize(rawName)]
	return slug, ok
}

// Len returns the number of alias entries.
func (t *Table) Len() int {
	return len(t.entries)
}
