// Package screening checks free-text fields of campus listings against a
// flagged-term list before they are accepted. The board is open to every
// authenticated account, so obvious spam and scam phrasing is rejected at
// submission time rather than moderated after the fact.
package screening

import (
	"fmt"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/greencampus/greencampus/internal/app/models"
)

// defaultFlaggedTerms is the starter list. Operators extend it per campus
// via NewScreener.
var defaultFlaggedTerms = []string{
	"free money",
	"crypto giveaway",
	"click this link",
	"wire transfer",
	"guaranteed prize",
	"bank details",
	"lottery winner",
	"work from home scheme",
}

type Screener struct {
	matcher ahocorasick.AhoCorasick
	terms   []string
}

// NewScreener builds a case-insensitive whole-word matcher over the given
// terms. An empty list falls back to the default set.
func NewScreener(terms []string) *Screener {
	if len(terms) == 0 {
		terms = defaultFlaggedTerms
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &Screener{
		matcher: builder.Build(terms),
		terms:   terms,
	}
}

// Check returns a validation error naming the first flagged term found in
// any of the given fields, or nil when all fields are clean.
func (s *Screener) Check(fields ...string) error {
	for _, field := range fields {
		if field == "" {
			continue
		}
		matches := s.matcher.FindAll(field)
		if len(matches) > 0 {
			term := s.terms[matches[0].Pattern()]
			return fmt.Errorf("%w: %q", models.ErrFlaggedContent, term)
		}
	}
	return nil
}
