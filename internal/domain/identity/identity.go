// Package identity derives canonical runner ids from raw name fields.
//
// A Resolver is constructed fresh per pipeline run and holds all naming
// state itself, so repeated runs over identical input allocate identical
// ids. Ids have the form "firstname.lastname"; when two distinct people
// normalize to the same id the later one (by source order) receives a
// numeric suffix: ".2", ".3", and so on.
package identity

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// germanFold maps letters that have a conventional ASCII digraph. These
// must be applied before generic diacritic stripping, which would turn
// "ü" into "u" instead of "ue".
var germanFold = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

// stripMarks removes combining marks left over after NFD decomposition,
// folding remaining diacritics ("é", "ç", ...) to base ASCII.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Resolution is the outcome of resolving one history occurrence.
type Resolution struct {
	ID        string
	Collision bool // true when a numeric suffix had to be allocated
}

// Resolver allocates runner ids and tracks which base ids are occupied.
type Resolver struct {
	// occupants[base] holds allocated ids in order; occupants[base][0]
	// is the bare id, later entries carry suffixes.
	occupants map[string][]string

	// primary[base] is the id of the first person to claim base.
	primary map[string]string

	// occurrence maps year|base|team to the id already resolved for
	// that context, so a runner covering several legs stays one person.
	occurrence map[string]string

	// teams maps year|base to the first team name that used base in
	// that year. A second team with the same name in the same year is
	// a distinct person.
	teams map[string]string
}

// NewResolver creates an empty resolver for one pipeline run.
func NewResolver() *Resolver {
	return &Resolver{
		occupants:  make(map[string][]string),
		primary:    make(map[string]string),
		occurrence: make(map[string]string),
		teams:      make(map[string]string),
	}
}

// Normalize converts a raw name pair to its canonical base id without
// touching resolver state: lower-cased, folded to ASCII, inner
// whitespace and hyphen runs collapsed to a single "-", the two parts
// joined with ".". A pair that is blank after normalization returns
// ErrBlankName.
func Normalize(first, last string) (string, error) {
	f := normalizePart(first)
	l := normalizePart(last)
	if f == "" || l == "" {
		return "", ErrBlankName
	}
	return f + "." + l, nil
}

func normalizePart(s string) string {
	s = germanFold.Replace(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '\'', r == '.':
			pendingSep = true
		}
		// Anything else (stray punctuation, symbols) is dropped.
	}
	return b.String()
}

// ResolveHistory resolves one history row occurrence to a runner id.
//
// Same normalized name on the same team in the same year is the same
// person. The same name on a different team in the same year is a
// second person and gets the next free suffix. Across years a name maps
// to its first claimant.
func (r *Resolver) ResolveHistory(year int, team, first, last string) (Resolution, error) {
	base, err := Normalize(first, last)
	if err != nil {
		return Resolution{}, err
	}

	occKey := fmt.Sprintf("%d|%s|%s", year, base, team)
	if id, ok := r.occurrence[occKey]; ok {
		return Resolution{ID: id}, nil
	}

	teamKey := fmt.Sprintf("%d|%s", year, base)
	firstTeam, seenThisYear := r.teams[teamKey]

	var res Resolution
	switch {
	case !seenThisYear && r.primary[base] != "":
		// Known person, first appearance this year.
		res = Resolution{ID: r.primary[base]}
	case !seenThisYear:
		// Brand new name.
		res = Resolution{ID: r.claim(base)}
	case firstTeam != team:
		// Same name, same year, different team: a second person.
		res = Resolution{ID: r.claim(base), Collision: true}
	default:
		// Unreachable: same team occurrences hit the occurrence map.
		res = Resolution{ID: r.primary[base]}
	}

	if !seenThisYear {
		r.teams[teamKey] = team
	}
	r.occurrence[occKey] = res.ID
	return res, nil
}

// ResolveContact derives the join key for a contacts row that carries no
// explicit runner id. It returns the primary claimant of the normalized
// name when one exists, otherwise the bare base id (an orphan
// candidate).
func (r *Resolver) ResolveContact(first, last string) (string, error) {
	base, err := Normalize(first, last)
	if err != nil {
		return "", err
	}
	if id, ok := r.primary[base]; ok {
		return id, nil
	}
	return base, nil
}

// claim allocates the next free id for base: the bare base for the
// first claimant, "base.N" (N >= 2) afterwards.
func (r *Resolver) claim(base string) string {
	n := len(r.occupants[base])
	id := base
	if n > 0 {
		id = fmt.Sprintf("%s.%d", base, n+1)
	}
	r.occupants[base] = append(r.occupants[base], id)
	if n == 0 {
		r.primary[base] = id
	}
	return id
}
