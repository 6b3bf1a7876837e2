package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCurated(t *testing.T) {
	data := []byte(`{
		"id": "anderson2001",
		"doi": "https://doi.org/10.1046/j.1442-9993.2001.01070.x",
		"title": "A new method for non-parametric multivariate analysis",
		"year": "2001",
		"venue": "Austral Ecology",
		"authors": [
			{"name": "Marti J. Anderson", "orcid": "https://orcid.org/0000-0002-1825-0097"}
		]
	}`)

	pub, err := ParseCurated(data)
	if err != nil {
		t.Fatalf("ParseCurated: %v", err)
	}
	if pub.CanonicalID != "anderson2001" {
		t.Errorf("CanonicalID = %q", pub.CanonicalID)
	}
	if pub.DOI != "10.1046/j.1442-9993.2001.01070.x" {
		t.Errorf("DOI not normalized: %q", pub.DOI)
	}
	if pub.Year != 2001 {
		t.Errorf("Year = %d", pub.Year)
	}
	if len(pub.Authors) != 1 {
		t.Fatalf("authors = %+v", pub.Authors)
	}
	if pub.Authors[0].ORCID != "0000-0002-1825-0097" {
		t.Errorf("ORCID not stripped: %q", pub.Authors[0].ORCID)
	}
	if pub.Authors[0].Position != 1 {
		t.Errorf("Position = %d, want defaulted 1", pub.Authors[0].Position)
	}
}

func TestParseCuratedNumericYear(t *testing.T) {
	pub, err := ParseCurated([]byte(`{"id": "x", "title": "T", "year": 2020}`))
	if err != nil {
		t.Fatalf("ParseCurated: %v", err)
	}
	if pub.Year != 2020 {
		t.Errorf("Year = %d", pub.Year)
	}
}

func TestParseCuratedValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "no identifiers",
			data:    `{"title": "T"}`,
			wantErr: "id or a doi",
		},
		{
			name:    "no title",
			data:    `{"id": "x"}`,
			wantErr: "missing title",
		},
		{
			name:    "malformed json",
			data:    `{"id":`,
			wantErr: "parsing curated record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCurated([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadCuratedDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.json":   `{"id": "second", "title": "B"}`,
		"a.json":   `{"id": "first", "title": "A"}`,
		"bad.json": `not json at all`,
		"skip.txt": `not a record file`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	pubs, errs := ReadCuratedDir(dir)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly the bad file", errs)
	}
	if !strings.Contains(errs[0].Error(), "bad.json") {
		t.Errorf("err = %v, want naming bad.json", errs[0])
	}
	if len(pubs) != 2 || pubs[0].CanonicalID != "first" || pubs[1].CanonicalID != "second" {
		t.Errorf("pubs out of lexical order: %+v", pubs)
	}
}

func TestParseAggregatorWork(t *testing.T) {
	line := []byte(`{
		"DOI": "10.1046/j.1442-9993.2001.01070.x",
		"title": ["A new method for non-parametric multivariate analysis"],
		"container-title": ["Austral Ecology"],
		"URL": "http://dx.doi.org/10.1046/j.1442-9993.2001.01070.x",
		"issued": {"date-parts": [[2001, 2]]},
		"author": [
			{"given": "Marti J.", "family": "Anderson", "ORCID": "http://orcid.org/0000-0002-1825-0097", "sequence": "first"},
			{"name": "Some Consortium", "sequence": "additional"}
		]
	}`)

	pub, err := ParseAggregatorWork(line)
	if err != nil {
		t.Fatalf("ParseAggregatorWork: %v", err)
	}
	if pub.CanonicalID != "" {
		t.Errorf("snapshot records carry no native id, got %q", pub.CanonicalID)
	}
	if pub.Venue != "Austral Ecology" || pub.Year != 2001 {
		t.Errorf("venue/year = %q/%d", pub.Venue, pub.Year)
	}
	if len(pub.Authors) != 2 {
		t.Fatalf("authors = %+v", pub.Authors)
	}
	if pub.Authors[0].Name != "Marti J. Anderson" {
		t.Errorf("joined name = %q", pub.Authors[0].Name)
	}
	if pub.Authors[0].ORCID != "0000-0002-1825-0097" {
		t.Errorf("ORCID = %q", pub.Authors[0].ORCID)
	}
	if pub.Authors[1].Name != "Some Consortium" || pub.Authors[1].Position != 2 {
		t.Errorf("literal name entry = %+v", pub.Authors[1])
	}
}

func TestParseRegistryWork(t *testing.T) {
	t.Run("with contributors", func(t *testing.T) {
		pub, err := ParseRegistryWork([]byte(`{
			"put_code": 12345,
			"researcher": "Marti Anderson",
			"orcid": "0000-0002-1825-0097",
			"title": "Registry work",
			"journal": "Some Journal",
			"year": "2015",
			"doi": "doi:10.5/REG",
			"authors": [{"name": "Marti Anderson", "orcid": "0000-0002-1825-0097"}]
		}`))
		if err != nil {
			t.Fatalf("ParseRegistryWork: %v", err)
		}
		if pub.DOI != "10.5/REG" {
			t.Errorf("DOI = %q", pub.DOI)
		}
		if len(pub.Authors) != 1 || pub.Authors[0].SourceID != "12345" {
			t.Errorf("authors = %+v", pub.Authors)
		}
	})

	t.Run("falls back to the exporting researcher", func(t *testing.T) {
		pub, err := ParseRegistryWork([]byte(`{
			"put_code": "67890",
			"researcher": "Marti Anderson",
			"orcid": "0000-0002-1825-0097",
			"title": "Summary-only work",
			"year": 2018
		}`))
		if err != nil {
			t.Fatalf("ParseRegistryWork: %v", err)
		}
		if len(pub.Authors) != 1 {
			t.Fatalf("authors = %+v", pub.Authors)
		}
		a := pub.Authors[0]
		if a.Name != "Marti Anderson" || a.ORCID != "0000-0002-1825-0097" || a.Position != 1 {
			t.Errorf("fallback author = %+v", a)
		}
	})
}

func TestReadSnapshotSkipsBadLines(t *testing.T) {
	input := strings.NewReader(`{"title": ["First work"], "DOI": "10.1/A"}
this line is not JSON

{"title": ["Second work"], "DOI": "10.1/B"}
{"DOI": "10.1/C"}
`)

	pubs, errs := ReadSnapshot(input, ParseAggregatorWork)
	if len(pubs) != 2 {
		t.Fatalf("pubs = %d, want 2", len(pubs))
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want bad JSON and missing title", errs)
	}
	if !strings.Contains(errs[0].Error(), "line 2") {
		t.Errorf("err = %v, want line number 2", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "line 5") {
		t.Errorf("err = %v, want line number 5", errs[1])
	}
}

func TestReadSnapshotFileMissing(t *testing.T) {
	pubs, errs := ReadSnapshotFile(filepath.Join(t.TempDir(), "nope.jsonl"), ParseAggregatorWork)
	if pubs != nil || errs != nil {
		t.Errorf("missing snapshot should be an empty tier, got %v / %v", pubs, errs)
	}
}
