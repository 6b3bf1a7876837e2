package storage

import (
	"path/filepath"
	"testing"

	"github.com/scholref/linkage/internal/people"
	"github.com/scholref/linkage/internal/record"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testBatch() (map[string]*record.Publication, map[string][]people.Identity) {
	anderson := &record.Publication{
		CanonicalID: "anderson2001",
		Title:       "A new method",
		Year:        2001,
		DOI:         "10.1/A",
		Authors:     []record.Author{{Name: "M J Anderson", Position: 1}},
	}
	survey := &record.Publication{
		CanonicalID: "https://doi.org/10.2/B",
		Title:       "A survey",
		Year:        2015,
	}

	lookup := make(map[string]*record.Publication)
	for _, key := range []string{"anderson2001", "https://doi.org/10.1/A", "http://dx.doi.org/10.1/A"} {
		lookup[key] = anderson
	}
	lookup["https://doi.org/10.2/B"] = survey
	byPub := map[string][]people.Identity{
		"anderson2001": {
			{Slug: "marti-anderson", CanonicalName: "Marti Anderson"},
			{Slug: "mark-gahegan", CanonicalName: "Mark Gahegan"},
		},
	}
	return lookup, byPub
}

func TestRebuildAndResolveKey(t *testing.T) {
	db := openTestDB(t)
	lookup, byPub := testBatch()

	n, err := db.Rebuild(lookup, byPub)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	for _, key := range []string{"anderson2001", "https://doi.org/10.1/A", "http://dx.doi.org/10.1/A"} {
		pub, err := db.ResolveKey(key)
		if err != nil {
			t.Fatalf("ResolveKey(%q): %v", key, err)
		}
		if pub == nil || pub.CanonicalID != "anderson2001" {
			t.Errorf("ResolveKey(%q) = %+v", key, pub)
		}
	}

	pub, err := db.ResolveKey("nonexistent")
	if err != nil {
		t.Fatalf("ResolveKey: %v", err)
	}
	if pub != nil {
		t.Errorf("unclaimed key resolved to %+v", pub)
	}
}

func TestAuthorSlugsOrder(t *testing.T) {
	db := openTestDB(t)
	lookup, byPub := testBatch()
	if _, err := db.Rebuild(lookup, byPub); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	slugs, err := db.AuthorSlugs("anderson2001")
	if err != nil {
		t.Fatalf("AuthorSlugs: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "marti-anderson" || slugs[1] != "mark-gahegan" {
		t.Errorf("slugs = %v", slugs)
	}

	slugs, err = db.AuthorSlugs("https://doi.org/10.2/B")
	if err != nil {
		t.Fatalf("AuthorSlugs: %v", err)
	}
	if slugs != nil {
		t.Errorf("publication with no credits returned %v", slugs)
	}
}

func TestPublicationsOf(t *testing.T) {
	db := openTestDB(t)
	lookup, byPub := testBatch()
	if _, err := db.Rebuild(lookup, byPub); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	pubs, err := db.PublicationsOf("marti-anderson")
	if err != nil {
		t.Fatalf("PublicationsOf: %v", err)
	}
	if len(pubs) != 1 || pubs[0].CanonicalID != "anderson2001" {
		t.Errorf("pubs = %+v", pubs)
	}
	if len(pubs[0].Authors) != 1 || pubs[0].Authors[0].Name != "M J Anderson" {
		t.Errorf("authors not restored: %+v", pubs[0].Authors)
	}

	pubs, err = db.PublicationsOf("nobody")
	if err != nil {
		t.Fatalf("PublicationsOf: %v", err)
	}
	if pubs != nil {
		t.Errorf("unknown slug returned %+v", pubs)
	}
}

func TestRebuildReplacesPreviousBatch(t *testing.T) {
	db := openTestDB(t)
	lookup, byPub := testBatch()
	if _, err := db.Rebuild(lookup, byPub); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	solo := &record.Publication{CanonicalID: "solo", Title: "Replacement batch"}
	if _, err := db.Rebuild(map[string]*record.Publication{"solo": solo}, nil); err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}

	pubs, keys, credits, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if pubs != 1 || keys != 1 || credits != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/1/0", pubs, keys, credits)
	}
	if pub, _ := db.ResolveKey("anderson2001"); pub != nil {
		t.Error("previous batch keys must be gone after rebuild")
	}
}
