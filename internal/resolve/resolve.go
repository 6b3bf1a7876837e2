// Package resolve merges publication records from ordered source
// tiers into one multiply-keyed lookup.
package resolve

import (
	"github.com/scholref/linkage/internal/doi"
	"github.com/scholref/linkage/internal/record"
)

// Tier is one ordered source collection. Tiers earlier in the slice
// take strict precedence: a key claimed by an earlier tier (or an
// earlier record within the same tier) is never reassigned.
type Tier struct {
	Name    string
	Records []*record.Publication
}

// Tiers builds the standard three-tier ordering: individually curated
// records first, then the bibliographic aggregator snapshot, then the
// researcher-identity registry snapshot.
func Tiers(curated, aggregator, registry []*record.Publication) []Tier {
	return []Tier{
		{Name: "curated", Records: curated},
		{Name: "aggregator", Records: aggregator},
		{Name: "registry", Records: registry},
	}
}

// BuildLookup walks the tiers highest precedence first and returns a
// map where every historically valid identifier form points at its
// publication. For each record, the native identifier is claimed
// first, then the https://doi.org/ form of its DOI; records of the
// top tier additionally claim the legacy http://dx.doi.org/ form.
// Many keys may point at one shared *record.Publication.
//
// A record lacking both a native identifier and a DOI is simply not
// indexed; that is not an error. BuildLookup is a pure function of
// its arguments: the result is freshly constructed on every call and
// the caller owns its lifetime.
func BuildLookup(tiers []Tier) map[string]*record.Publication {
	lookup := make(map[string]*record.Publication)

	for ti, tier := range tiers {
		for _, rec := range tier.Records {
			if rec == nil {
				continue
			}

			if rec.CanonicalID != "" {
				claim(lookup, rec.CanonicalID, rec)
			}

			d := doi.Normalize(rec.DOI)
			if d == "" {
				continue
			}
			claim(lookup, doi.URL(d), rec)
			if ti == 0 {
				claim(lookup, doi.LegacyURL(d), rec)
			}

			// Records arriving without a native identifier adopt the
			// canonical DOI URL as their identifying key.
			if rec.CanonicalID == "" {
				rec.CanonicalID = doi.URL(d)
			}
		}
	}

	return lookup
}

// CanonicalRecords returns the deduplicated corpus in tier order: the
// records that won their own canonical key in the lookup. A record
// whose every key was claimed by a higher-precedence record describes
// the same work and is dropped; a record with no keys at all cannot
// be indexed and is dropped too.
func CanonicalRecords(tiers []Tier, lookup map[string]*record.Publication) []*record.Publication {
	var out []*record.Publication
	for _, tier := range tiers {
		for _, rec := range tier.Records {
			if rec == nil || rec.CanonicalID == "" {
				continue
			}
			if lookup[rec.CanonicalID] == rec {
				out = append(out, rec)
			}
		}
	}
	return out
}

// claim assigns key to rec unless an earlier record already holds it.
func claim(lookup map[string]*record.Publication, key string, rec *record.Publication) {
	if _, taken := lookup[key]; !taken {
		lookup[key] = rec
	}
}
