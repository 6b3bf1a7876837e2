// Package ingest parses the three raw source tiers into publication
// records: individually curated JSON documents, a bibliographic
// aggregator JSONL snapshot, and a researcher-identity registry JSONL
// snapshot.
//
// Parsing is best effort throughout. A record that cannot be parsed
// is skipped and reported in the returned error slice; the rest of
// its tier is always processed. No parse failure aborts a batch.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/scholref/linkage/internal/doi"
	"github.com/scholref/linkage/internal/record"
)

// MaxLineCapacity bounds a single snapshot line (1MB). Aggregator
// records with very long reference lists stay well under this.
const MaxLineCapacity = 1024 * 1024

// FlexibleString unmarshals from either a JSON string or number.
// Curated records written by hand routinely carry years both ways.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(strconv.FormatInt(n, 10))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// curatedDoc is the shape of one hand-maintained publication file.
type curatedDoc struct {
	ID      string         `json:"id"`
	DOI     string         `json:"doi"`
	Title   string         `json:"title"`
	Year    FlexibleString `json:"year"`
	Venue   string         `json:"venue"`
	URL     string         `json:"url"`
	Authors []struct {
		Name     string `json:"name"`
		ORCID    string `json:"orcid"`
		SourceID string `json:"source_id"`
		Position int    `json:"position"`
	} `json:"authors"`
}

// ParseCurated parses one curated publication document.
func ParseCurated(data []byte) (*record.Publication, error) {
	var doc curatedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing curated record: %w", err)
	}
	if doc.ID == "" && doc.DOI == "" {
		return nil, fmt.Errorf("curated record needs an id or a doi")
	}
	if doc.Title == "" {
		return nil, fmt.Errorf("curated record missing title")
	}

	pub := &record.Publication{
		CanonicalID: doc.ID,
		Title:       doc.Title,
		Venue:       doc.Venue,
		DOI:         doi.Normalize(doc.DOI),
		BestURL:     doc.URL,
	}
	if y, err := strconv.Atoi(doc.Year.String()); err == nil {
		pub.Year = y
	}
	for i, a := range doc.Authors {
		if a.Name == "" {
			continue
		}
		pos := a.Position
		if pos == 0 {
			pos = i + 1
		}
		pub.Authors = append(pub.Authors, record.Author{
			Name:     a.Name,
			ORCID:    normalizeORCID(a.ORCID),
			SourceID: a.SourceID,
			Position: pos,
		})
	}
	return pub, nil
}

// ReadCuratedDir parses every .json file in dir, in lexical order so
// tier-internal precedence is stable across runs. Unreadable or
// malformed files are reported and skipped.
func ReadCuratedDir(dir string) ([]*record.Publication, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("reading curated dir: %w", err)}
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var pubs []*record.Publication
	var errs []error
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		pub, err := ParseCurated(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		pubs = append(pubs, pub)
	}
	return pubs, errs
}

// aggregatorWork is one line of the aggregator snapshot, in the
// Crossref works shape.
type aggregatorWork struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	URL            string   `json:"URL"`
	Issued         struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	Author []struct {
		Given    string `json:"given"`
		Family   string `json:"family"`
		Name     string `json:"name"`
		ORCID    string `json:"ORCID"`
		Sequence string `json:"sequence"`
	} `json:"author"`
}

// ParseAggregatorWork parses one aggregator snapshot line.
func ParseAggregatorWork(line []byte) (*record.Publication, error) {
	var w aggregatorWork
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, fmt.Errorf("parsing aggregator record: %w", err)
	}
	if len(w.Title) == 0 || w.Title[0] == "" {
		return nil, fmt.Errorf("aggregator record missing title")
	}

	pub := &record.Publication{
		Title:   w.Title[0],
		DOI:     doi.Normalize(w.DOI),
		BestURL: w.URL,
	}
	if len(w.ContainerTitle) > 0 {
		pub.Venue = w.ContainerTitle[0]
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		pub.Year = w.Issued.DateParts[0][0]
	}
	for i, a := range w.Author {
		name := a.Name
		if name == "" {
			name = strings.TrimSpace(a.Given + " " + a.Family)
		}
		if name == "" {
			continue
		}
		pub.Authors = append(pub.Authors, record.Author{
			Name:     name,
			ORCID:    normalizeORCID(a.ORCID),
			Position: i + 1,
		})
	}
	return pub, nil
}

// registryWork is one line of the registry snapshot: a flattened
// work summary as exported per researcher.
type registryWork struct {
	PutCode FlexibleString `json:"put_code"`
	// Researcher and ORCID identify who the work summary was
	// exported for.
	Researcher string         `json:"researcher"`
	ORCID      string         `json:"orcid"`
	Title      string         `json:"title"`
	Journal    string         `json:"journal"`
	Year       FlexibleString `json:"year"`
	DOI        string         `json:"doi"`
	URL        string         `json:"url"`
	Authors    []struct {
		Name  string `json:"name"`
		ORCID string `json:"orcid"`
	} `json:"authors"`
}

// ParseRegistryWork parses one registry snapshot line. When the work
// carries no contributor list of its own, the researcher it was
// exported for is credited as sole listed author.
func ParseRegistryWork(line []byte) (*record.Publication, error) {
	var w registryWork
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, fmt.Errorf("parsing registry record: %w", err)
	}
	if w.Title == "" {
		return nil, fmt.Errorf("registry record missing title")
	}

	pub := &record.Publication{
		Title:   w.Title,
		Venue:   w.Journal,
		DOI:     doi.Normalize(w.DOI),
		BestURL: w.URL,
	}
	if y, err := strconv.Atoi(w.Year.String()); err == nil {
		pub.Year = y
	}
	for i, a := range w.Authors {
		if a.Name == "" {
			continue
		}
		pub.Authors = append(pub.Authors, record.Author{
			Name:     a.Name,
			ORCID:    normalizeORCID(a.ORCID),
			SourceID: w.PutCode.String(),
			Position: i + 1,
		})
	}
	if len(pub.Authors) == 0 && w.Researcher != "" {
		pub.Authors = append(pub.Authors, record.Author{
			Name:     w.Researcher,
			ORCID:    normalizeORCID(w.ORCID),
			SourceID: w.PutCode.String(),
			Position: 1,
		})
	}
	return pub, nil
}

// ReadSnapshot parses a JSONL snapshot with the given per-line
// parser. Empty lines are skipped; malformed lines are reported with
// their line number and skipped.
func ReadSnapshot(r io.Reader, parse func([]byte) (*record.Publication, error)) ([]*record.Publication, []error) {
	var pubs []*record.Publication
	var errs []error

	scanner := bufio.NewScanner(r)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		pub, err := parse(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}
		pubs = append(pubs, pub)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading snapshot: %w", err))
	}

	return pubs, errs
}

// ReadSnapshotFile is ReadSnapshot over a file path. A missing file
// yields an empty tier, not an error: snapshots are refreshed out of
// band and may not exist yet.
func ReadSnapshotFile(path string, parse func([]byte) (*record.Publication, error)) ([]*record.Publication, []error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("opening snapshot: %w", err)}
	}
	defer f.Close()
	return ReadSnapshot(f, parse)
}

// normalizeORCID strips the registry URL wrapper some sources put
// around ORCID values, keeping the bare 16-digit grouped form.
func normalizeORCID(raw string) string {
	s := strings.TrimSpace(raw)
	for _, p := range []string{"https://orcid.org/", "http://orcid.org/"} {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}
