package linkedin

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"legitapply/internal/filter"
	"legitapply/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// workplaceRegex pulls "(Remote)" style suffixes off the location line.
var workplaceRegex = regexp.MustCompile(`(?i)\s*\((remote|hybrid|on-site|onsite)\)\s*$`)

type Extractor struct {
	sel      Selectors
	excluder *filter.Excluder
	verbose  bool
}

func NewExtractor(sel Selectors, excluder *filter.Excluder, verbose bool) *Extractor {
	return &Extractor{sel: sel, excluder: excluder, verbose: verbose}
}

type Extraction struct {
	Postings []scraper.Posting
	//Cards is how many cards were examined, skipped ones included
	Cards   int
	Skipped int
}

// Extract maps the cards of a rendered search page to postings, in page order.
// At most limit cards are examined; limit <= 0 means all of them.
func (x *Extractor) Extract(doc *goquery.Document, q scraper.Query, limit int) Extraction {
	var out Extraction
	doc.Find(x.sel.Card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && out.Cards >= limit {
			return false
		}
		out.Cards++

		posting, reason, ok := x.extractCard(card, q)
		if !ok {
			out.Skipped++
			log.Printf("      🚫 Skipped card %d: %s", i+1, reason)
			return true
		}
		out.Postings = append(out.Postings, posting)
		return true
	})
	return out
}

func (x *Extractor) extractCard(card *goquery.Selection, q scraper.Query) (scraper.Posting, string, bool) {
	//exclusion predicates first, on cheap reads
	if reason, excluded := x.excluder.MatchCard(cardText(card)); excluded {
		return scraper.Posting{}, reason, false
	}
	title := textField(card, x.sel.Title, "title")
	if title.OK() {
		if reason, excluded := x.excluder.MatchTitle(title.Or("")); excluded {
			return scraper.Posting{}, reason, false
		}
	}
	if posted, ok := attrOrText(card, x.sel.Posted, "datetime"); ok {
		if reason, excluded := x.excluder.MatchPosted(posted); excluded {
			return scraper.Posting{}, reason, false
		}
	}

	location, workplace := x.location(card)
	status := x.status(card, workplace)
	link := x.link(card)
	company := textField(card, x.sel.Company, "company")

	x.logMissing(title, company, location, status, link)

	return scraper.Posting{
		Title:          title.Or(NoTitle),
		Company:        company.Or(NoCompany),
		Location:       location.Or(NoLocation),
		Status:         status.Or(NoStatus),
		Link:           link.Or(NoLink),
		SearchKeyword:  q.Keyword,
		SearchLocation: q.Location,
	}, "", true
}

// location returns the location without its workplace suffix, and the suffix.
func (x *Extractor) location(card *goquery.Selection) (scraper.Field, string) {
	f := textField(card, x.sel.Location, "location")
	if !f.OK() {
		return f, ""
	}
	raw := f.Or("")
	workplace := ""
	if m := workplaceRegex.FindStringSubmatch(raw); m != nil {
		workplace = m[1]
		raw = strings.TrimSpace(workplaceRegex.ReplaceAllString(raw, ""))
	}
	if raw == "" {
		return scraper.Missing("location"), workplace
	}
	return scraper.Found(raw), workplace
}

// status collects workplace and footer tags, deduplicated, in page order.
func (x *Extractor) status(card *goquery.Selection, workplace string) scraper.Field {
	seen := mapset.NewThreadUnsafeSet[string]()
	var tags []string
	add := func(tag string) {
		tag = cleanText(tag)
		key := filter.NormalizeText(tag)
		if key == "" || seen.Contains(key) {
			return
		}
		seen.Add(key)
		tags = append(tags, tag)
	}

	if workplace != "" {
		add(strings.ToUpper(workplace[:1]) + workplace[1:])
	}
	for _, sel := range x.sel.Status {
		card.Find(sel).Each(func(_ int, s *goquery.Selection) {
			add(s.Text())
		})
	}
	if len(tags) == 0 {
		return scraper.Missing("status")
	}
	return scraper.Found(strings.Join(tags, "; "))
}

func (x *Extractor) link(card *goquery.Selection) scraper.Field {
	href, ok := attrField(card, x.sel.Link, "href")
	if !ok {
		return scraper.Missing("link")
	}
	canonical, err := CanonicalLink(href)
	if err != nil {
		return scraper.Unavailable(fmt.Errorf("link %q: %w", href, err))
	}
	return scraper.Found(canonical)
}

func (x *Extractor) logMissing(fields ...scraper.Field) {
	if !x.verbose {
		return
	}
	for _, f := range fields {
		if !f.OK() {
			log.Printf("      ⚠️ %v", f.Err())
		}
	}
}

// textField returns the text of the first selector that matches inside card.
func textField(card *goquery.Selection, selectors []string, name string) scraper.Field {
	for _, sel := range selectors {
		el := card.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if text := cleanText(el.Text()); text != "" {
			return scraper.Found(text)
		}
	}
	return scraper.Missing(name)
}

// attrField reads attr from the first matching element that carries it.
func attrField(card *goquery.Selection, selectors []string, attr string) (string, bool) {
	for _, sel := range selectors {
		if v, ok := card.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// attrOrText reads attr from the first matching element, falling back to its text.
func attrOrText(card *goquery.Selection, selectors []string, attr string) (string, bool) {
	for _, sel := range selectors {
		el := card.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
		if text := cleanText(el.Text()); text != "" {
			return text, true
		}
	}
	return "", false
}

// cardText joins every text node of card with spaces. Selection.Text
// concatenates adjacent elements, turning "Promoted" + "Easy Apply" into one word.
func cardText(card *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, n *goquery.Selection) {
			if goquery.NodeName(n) != "#text" {
				walk(n)
				return
			}
			if text := cleanText(n.Text()); text != "" {
				parts = append(parts, text)
			}
		})
	}
	walk(card)
	return strings.Join(parts, " ")
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
