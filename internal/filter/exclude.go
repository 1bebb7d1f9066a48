package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Rules configures which cards are dropped before extraction.
type Rules struct {
	//Markers are matched as whole words anywhere in the card text (e.g. "Promoted")
	Markers []string `yaml:"markers"`
	//TitleKeywords are matched as whole words in the card title (e.g. "intern")
	TitleKeywords []string `yaml:"title_keywords"`
	//MaxAge drops cards whose posted date is older; zero disables the check
	MaxAge time.Duration `yaml:"max_age"`
}

// Excluder evaluates the exclusion predicates. Its checks are cheap string
// matches so a card can be rejected before any field is extracted.
type Excluder struct {
	markerRe *regexp.Regexp
	titleRe  *regexp.Regexp
	maxAge   time.Duration
	now      func() time.Time
}

func NewExcluder(rules Rules) *Excluder {
	return &Excluder{
		markerRe: wordRegex(rules.Markers),
		titleRe:  wordRegex(rules.TitleKeywords),
		maxAge:   rules.MaxAge,
		now:      time.Now,
	}
}

// MatchCard checks the full card text against the markers.
func (e *Excluder) MatchCard(text string) (string, bool) {
	if e.markerRe == nil {
		return "", false
	}
	if m := e.markerRe.FindString(NormalizeText(text)); m != "" {
		return fmt.Sprintf("marker %q", m), true
	}
	return "", false
}

// MatchTitle checks the title against the exclusion keywords.
func (e *Excluder) MatchTitle(title string) (string, bool) {
	if e.titleRe == nil {
		return "", false
	}
	if m := e.titleRe.FindString(NormalizeText(title)); m != "" {
		return fmt.Sprintf("title keyword %q", m), true
	}
	return "", false
}

// MatchPosted checks the posted date against MaxAge.
// Unparseable dates never exclude a card.
func (e *Excluder) MatchPosted(posted string) (string, bool) {
	if e.maxAge <= 0 || posted == "" {
		return "", false
	}
	if IsRecent(posted, e.now(), e.maxAge) {
		return "", false
	}
	return fmt.Sprintf("posted %s", posted), true
}

// wordRegex builds one case-insensitive whole-word alternation from terms.
// Terms are normalized and deduplicated; nil means nothing to match.
func wordRegex(terms []string) *regexp.Regexp {
	set := mapset.NewSet[string]()
	for _, term := range terms {
		if n := NormalizeText(term); n != "" {
			set.Add(n)
		}
	}
	if set.Cardinality() == 0 {
		return nil
	}

	quoted := set.ToSlice()
	sort.Strings(quoted)
	for i, q := range quoted {
		quoted[i] = regexp.QuoteMeta(q)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
