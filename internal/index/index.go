// Package index builds the bidirectional association between
// publications and roster people.
package index

import (
	"fmt"

	"github.com/scholref/linkage/internal/alias"
	"github.com/scholref/linkage/internal/match"
	"github.com/scholref/linkage/internal/people"
	"github.com/scholref/linkage/internal/record"
)

// PublicationToAuthors maps a publication's canonical ID to its
// resolved roster authors. A publication with no resolved authors has
// no entry at all: consumers test "has any known author" via map
// membership, so an empty slice value must never appear.
func PublicationToAuthors(pubs []*record.Publication, roster people.Roster, aliases *alias.Table) map[string][]people.Identity {
	out := make(map[string][]people.Identity)
	for _, pub := range pubs {
		if pub == nil || pub.CanonicalID == "" {
			continue
		}
		authors := match.PublicationAuthors(pub, roster, aliases)
		if len(authors) == 0 {
			continue
		}
		out[pub.CanonicalID] = authors
	}
	return out
}

// PersonToPublications maps a person slug to every publication where
// at least one raw author entry resolves to that person, applying the
// same match precedence the author matcher uses. People with no
// publications have no entry.
func PersonToPublications(pubs []*record.Publication, roster people.Roster, aliases *alias.Table) map[string][]*record.Publication {
	out := make(map[string][]*record.Publication)
	for _, p := range roster {
		for _, pub := range pubs {
			if pub == nil || pub.CanonicalID == "" {
				continue
			}
			if creditsPerson(pub, p.Slug, roster, aliases) {
				out[p.Slug] = append(out[p.Slug], pub)
			}
		}
	}
	return out
}

// creditsPerson reports whether any raw author of pub resolves to the
// given slug.
func creditsPerson(pub *record.Publication, slug string, roster people.Roster, aliases *alias.Table) bool {
	for _, a := range pub.Authors {
		if p, ok := match.Author(a, roster, aliases); ok && p.Slug == slug {
			return true
		}
	}
	return false
}

// Build computes both association maps and verifies they agree before
// returning them.
func Build(pubs []*record.Publication, roster people.Roster, aliases *alias.Table) (map[string][]people.Identity, map[string][]*record.Publication, error) {
	byPub := PublicationToAuthors(pubs, roster, aliases)
	byPerson := PersonToPublications(pubs, roster, aliases)
	if err := Verify(byPub, byPerson); err != nil {
		return nil, nil, err
	}
	return byPub, byPerson, nil
}

// Verify checks the two independently computed maps against each
// other: a person appears under a publication if and only if that
// publication appears under the person.
func Verify(byPub map[string][]people.Identity, byPerson map[string][]*record.Publication) error {
	for pubID, authors := range byPub {
		for _, p := range authors {
			if !containsPub(byPerson[p.Slug], pubID) {
				return fmt.Errorf("index mismatch: %s credits %s but %s does not list %s", pubID, p.Slug, p.Slug, pubID)
			}
		}
	}
	for slug, pubs := range byPerson {
		for _, pub := range pubs {
			if !containsPerson(byPub[pub.CanonicalID], slug) {
				return fmt.Errorf("index mismatch: %s lists %s but %s does not credit %s", slug, pub.CanonicalID, pub.CanonicalID, slug)
			}
		}
	}
	return nil
}

func containsPub(pubs []*record.Publication, id string) bool {
	for _, p := range pubs {
		if p.CanonicalID == id {
			return true
		}
	}
	return false
}

func containsPerson(authors []people.Identity, slug string) bool {
	for _, a := range authors {
		if a.Slug == slug {
			return true
		}
	}
	return false
}
