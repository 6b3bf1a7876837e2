// Package namenorm canonicalizes free-text person names for
// comparison. Both the alias table and the fuzzy author matcher go
// through Normalize, so there is exactly one definition of what two
// "equal" names look like.
package namenorm

import "strings"

// honorifics are stripped as whole words after punctuation removal.
var honorifics = map[string]bool{
	"dr":        true,
	"prof":      true,
	"professor": true,
}

// Normalize lower-cases a name, removes periods and commas, drops
// honorific tokens, and collapses runs of whitespace to single spaces.
// It is pure and total: empty input yields empty output.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, ",", " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if honorifics[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// LastName extracts the surname token from a raw name. A comma splits
// "Last, First" forms: everything before the first comma is the
// surname. Without a comma the final whitespace-separated token is
// used. The result is normalized.
//
// Compound surnames without a comma ("van der Berg") are not handled;
// only the final token is taken.
func LastName(name string) string {
	if idx := strings.Index(name, ","); idx >= 0 {
		return Normalize(name[:idx])
	}
	fields := strings.Fields(Normalize(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// GivenLead returns the first character of the given-name portion of a
// raw name, comma-aware: for "Last, First" forms the portion after the
// comma supplies the lead, otherwise the first normalized token does.
// Returns the empty string when no given-name portion exists.
func GivenLead(name string) string {
	s := name
	if idx := strings.Index(name, ","); idx >= 0 {
		s = name[idx+1:]
	}
	fields := strings.Fields(Normalize(s))
	if len(fields) == 0 {
		return ""
	}
	r := []rune(fields[0])
	return string(r[:1])
}
