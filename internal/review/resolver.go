package review

import (
	"strings"

	"github.com/siglab/publication-service/internal/domain"
)

// Resolution is the outcome of matching one batch of free-text author names
// against the member list.
type Resolution struct {
	// Members holds the matched members in input order, deduplicated.
	Members []domain.Member

	// Unresolved lists the names that matched no member, in input order.
	Unresolved []string
}

// resolveAuthors matches each free-text name against the member snapshot.
// Unresolved names are collected, never fatal: partial author resolution is
// allowed and surfaced to the operator for manual fixing.
func resolveAuthors(names []string, members []domain.Member) Resolution {
	var res Resolution
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		member, ok := matchMember(name, members)
		if !ok {
			res.Unresolved = append(res.Unresolved, name)
			continue
		}
		// Two spellings of the same person collapse to one link.
		if seen[member.ID] {
			continue
		}
		seen[member.ID] = true
		res.Members = append(res.Members, member)
	}
	return res
}

// matchMember finds the first member whose English or Chinese name matches
// the input. A name written as "Last, First" is also tried as "First Last"
// and "Last First". Matching is case-insensitive and allows containment in
// either direction, so "J. Smith" style abbreviations still catch
// substrings.
func matchMember(name string, members []domain.Member) (domain.Member, bool) {
	clean := strings.ToLower(strings.TrimSpace(name))
	if clean == "" {
		return domain.Member{}, false
	}

	candidates := []string{clean}
	if before, after, found := strings.Cut(clean, ","); found {
		first := strings.TrimSpace(after)
		last := strings.TrimSpace(before)
		if first != "" && last != "" {
			candidates = append(candidates, first+" "+last, last+" "+first)
		}
	}

	for _, member := range members {
		nameEN := strings.ToLower(strings.TrimSpace(member.NameEN))
		nameZH := strings.ToLower(strings.TrimSpace(member.NameZH))

		for _, candidate := range candidates {
			if nameEN != "" && namesOverlap(nameEN, candidate) {
				return member, true
			}
		}
		if nameZH != "" && namesOverlap(nameZH, clean) {
			return member, true
		}
	}
	return domain.Member{}, false
}

func namesOverlap(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
