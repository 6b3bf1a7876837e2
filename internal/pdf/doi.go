// Package pdf extracts DOIs from PDF files to seed curated records.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/scholref/linkage/internal/doi"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiSearchPages limits the scan: the DOI is almost always on the
// first page, occasionally in a footer of the next two.
const doiSearchPages = 3

// ExtractDOI extracts a DOI from a PDF file, returning it in
// normalized form. Returns the empty string when no DOI is found,
// which is not an error.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := doiSearchPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if d := FindDOI(text); d != "" {
			return d, nil
		}
	}

	return "", nil
}

// FindDOI finds the first DOI in free text and returns it normalized.
// Text extraction glues neighboring characters onto DOIs, so trailing
// punctuation and common layout artifacts are stripped.
func FindDOI(text string) string {
	m := doiPattern.FindString(text)
	if m == "" {
		return ""
	}
	return doi.Normalize(cleanMatch(m))
}

func cleanMatch(m string) string {
	// Punctuation following a DOI in running text is never part of it.
	return strings.TrimRight(m, ".,;:)")
}
