// Package people holds the fixed roster of known people the matcher
// resolves authors against. The roster is configuration data: this
// code only reads it, never creates or mutates entries.
package people

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Identity is one roster entry. Slug is the canonical identity key
// used everywhere downstream.
type Identity struct {
	Slug          string `yaml:"slug" json:"slug"`
	CanonicalName string `yaml:"name" json:"name"`

	// ORCID, when present, is unique across the roster. Two entries
	// sharing one is a configuration defect with undefined matching
	// behavior, so LoadRoster rejects it.
	ORCID string `yaml:"orcid,omitempty" json:"orcid,omitempty"`
}

// Roster is an ordered list of identities. Order matters: the fuzzy
// matcher scans in roster order and returns the first hit.
type Roster []Identity

// BySlug returns the roster entry with the given slug.
func (r Roster) BySlug(slug string) (Identity, bool) {
	for _, p := range r {
		if p.Slug == slug {
			return p, true
		}
	}
	return Identity{}, false
}

// rosterFile is the YAML shape of a roster file.
type rosterFile struct {
	People []Identity `yaml:"people"`
}

// LoadRoster reads a roster from a YAML file and validates it: slugs
// must be present and unique, names must be present, and ORCIDs must
// be unique when set.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	seenSlug := make(map[string]bool)
	seenORCID := make(map[string]bool)
	for i, p := range f.People {
		if p.Slug == "" {
			return nil, fmt.Errorf("roster entry %d: missing slug", i+1)
		}
		if p.CanonicalName == "" {
			return nil, fmt.Errorf("roster entry %q: missing name", p.Slug)
		}
		if seenSlug[p.Slug] {
			return nil, fmt.Errorf("roster entry %q: duplicate slug", p.Slug)
		}
		seenSlug[p.Slug] = true
		if p.ORCID != "" {
			if seenORCID[p.ORCID] {
				return nil, fmt.Errorf("roster entry %q: ORCID %s already assigned", p.Slug, p.ORCID)
			}
			seenORCID[p.ORCID] = true
		}
	}

	return Roster(f.People), nil
}
