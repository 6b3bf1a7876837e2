// Package match resolves raw author entries to roster identities.
//
// Matching is an ordered decision procedure: an exact persistent
// identifier match wins outright, then a curated alias hit, then a
// sequence of fuzzy name heuristics applied over the roster in its
// given order. The first rule that succeeds ends the procedure, so a
// fixed roster order yields fixed results; reordering the roster can
// change which of several plausible candidates wins under the fuzzy
// rules, which is part of the documented contract.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/scholref/linkage/internal/alias"
	"github.com/scholref/linkage/internal/namenorm"
	"github.com/scholref/linkage/internal/people"
	"github.com/scholref/linkage/internal/record"
)

// Rule identifies which step of the decision procedure matched.
type Rule string

const (
	RuleORCID       Rule = "orcid"       // persistent identifier equality
	RuleAlias       Rule = "alias"       // curated alias table hit
	RuleExact       Rule = "exact"       // normalized names equal
	RuleSubstring   Rule = "substring"   // containment with equal last names
	RuleLastName    Rule = "last-name"   // equal last names plus given-name lead
	RulePermutation Rule = "permutation" // two-token reorder, optional truncation
)

// Result describes a successful match and how it was made.
type Result struct {
	Person people.Identity
	Rule   Rule

	// Ambiguous lists other roster entries that also satisfy some
	// fuzzy rule for the same author name. Only populated for fuzzy
	// matches; an ORCID or alias match is authoritative.
	Ambiguous []people.Identity
}

// Author resolves one raw author entry against the roster. The second
// return is false when nothing matched, which is a normal outcome,
// not an error. aliases may be nil when no curated table exists.
func Author(a record.Author, roster people.Roster, aliases *alias.Table) (people.Identity, bool) {
	res, ok := AuthorDetailed(a, roster, aliases)
	return res.Person, ok
}

// AuthorDetailed is Author plus the rule that fired and any other
// fuzzy candidates, for callers that want to surface ambiguity
// instead of silently taking the first roster hit.
func AuthorDetailed(a record.Author, roster people.Roster, aliases *alias.Table) (Result, bool) {
	// Persistent identifier equality is the most reliable signal and
	// is always checked first, even when the names share nothing.
	if a.ORCID != "" {
		for _, p := range roster {
			if p.ORCID == a.ORCID {
				return Result{Person: p, Rule: RuleORCID}, true
			}
		}
	}

	// A curated alias is human-verified ground truth. A stale alias
	// (slug no longer on the roster) falls through to the heuristics.
	if aliases != nil {
		if slug, ok := aliases.Lookup(a.Name); ok {
			if p, ok := roster.BySlug(slug); ok {
				return Result{Person: p, Rule: RuleAlias}, true
			}
		}
	}

	var res Result
	found := false
	for _, p := range roster {
		rule := fuzzyRule(a.Name, p.CanonicalName)
		if rule == "" {
			continue
		}
		if !found {
			res = Result{Person: p, Rule: rule}
			found = true
			continue
		}
		if p.Slug != res.Person.Slug {
			res.Ambiguous = append(res.Ambiguous, p)
		}
	}
	return res, found
}

// fuzzyRule applies the ordered name heuristics between one raw
// author name and one roster name, returning the first rule that
// holds or "" when none do.
func fuzzyRule(authorName, rosterName string) Rule {
	an := namenorm.Normalize(authorName)
	rn := namenorm.Normalize(rosterName)
	if an == "" || rn == "" {
		return ""
	}

	if an == rn {
		return RuleExact
	}

	aLast := namenorm.LastName(authorName)
	rLast := namenorm.LastName(rosterName)
	sameLast := aLast != "" && aLast == rLast

	// Containment handles abbreviated given names, anchored on the
	// surname so "Yu" cannot claim "Yujia".
	if sameLast && (strings.Contains(an, rn) || strings.Contains(rn, an)) {
		return RuleSubstring
	}

	// Initials-only given names. Surnames of one or two characters
	// are too collision-prone to match on, so those never fire here.
	if sameLast && utf8.RuneCountInString(aLast) > 2 {
		aLead := namenorm.GivenLead(authorName)
		if aLead != "" && aLead == namenorm.GivenLead(rosterName) {
			return RuleLastName
		}
	}

	if permuted(an, rn) {
		return RulePermutation
	}

	return ""
}

// permuted reports whether two normalized names are each exactly two
// tokens and one is a reordering of the other, allowing the
// non-matching token pair to differ by truncation ("anderson m" vs
// "marti anderson").
func permuted(a, b string) bool {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) != 2 || len(bt) != 2 {
		return false
	}
	if at[0] == bt[1] && at[1] == bt[0] {
		return true
	}
	if at[0] == bt[1] && prefixRelated(at[1], bt[0]) {
		return true
	}
	if at[1] == bt[0] && prefixRelated(at[0], bt[1]) {
		return true
	}
	return false
}

// prefixRelated reports whether either string is a prefix of the other.
func prefixRelated(x, y string) bool {
	return strings.HasPrefix(x, y) || strings.HasPrefix(y, x)
}

// PublicationAuthors resolves every raw author of a publication, in
// author-list order, discarding non-matches and deduplicating by slug
// so a double-credited person appears once, at first-seen position.
func PublicationAuthors(pub *record.Publication, roster people.Roster, aliases *alias.Table) []people.Identity {
	var out []people.Identity
	seen := make(map[string]bool)
	for _, a := range pub.Authors {
		p, ok := Author(a, roster, aliases)
		if !ok || seen[p.Slug] {
			continue
		}
		seen[p.Slug] = true
		out = append(out, p)
	}
	return out
}
