// Package storage persists resolved publication data in JSONL and an
// ephemeral SQLite cache. JSONL files are the durable, diffable form;
// the SQLite database is derived data, rebuilt from scratch whenever
// the sources change.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scholref/linkage/internal/record"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL
// lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadPublications reads all publications from a JSONL file. A
// missing file yields an empty slice.
func ReadPublications(path string) ([]*record.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	var pubs []*record.Publication
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pub record.Publication
		if err := json.Unmarshal(line, &pub); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, &pub)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications file: %w", err)
	}

	return pubs, nil
}

// WritePublications writes publications to a JSONL file, replacing
// existing content.
func WritePublications(path string, pubs []*record.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating publications file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, pub := range pubs {
		data, err := json.Marshal(pub)
		if err != nil {
			return fmt.Errorf("encoding publication %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing publication %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing publications file: %w", err)
	}

	return nil
}
