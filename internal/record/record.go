// Package record defines the core domain types for publications and
// their raw author entries.
package record

// Author is one author entry exactly as a source attached it to a
// publication. Names are free text and frequently inconsistent across
// sources; the optional ORCID is the only reliable signal when present.
type Author struct {
	Name     string `json:"name"`                // As supplied by the source, never empty
	ORCID    string `json:"orcid,omitempty"`     // Persistent identifier (16-digit grouped form)
	SourceID string `json:"source_id,omitempty"` // Source-system author ID, not used for matching
	Position int    `json:"position,omitempty"`  // 1-based ordinal in the author list, 0 if unknown
}

// Publication represents one scholarly work after merging source records.
// CanonicalID is fixed for the duration of a run once assigned.
type Publication struct {
	CanonicalID string `json:"canonical_id"`
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	Venue       string `json:"venue,omitempty"`

	// DOI holds the normalized form (no protocol or resolver host prefix).
	DOI     string `json:"doi,omitempty"`
	BestURL string `json:"best_url,omitempty"`

	// Authors preserves the source's author order.
	Authors []Author `json:"authors,omitempty"`
}
