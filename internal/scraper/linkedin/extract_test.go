package linkedin

import (
	"testing"
	"time"

	"legitapply/internal/filter"
	"legitapply/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuery = scraper.Query{Keyword: "software engineer", Location: "Houston, TX"}

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultSelectors(), filter.NewExcluder(filter.Rules{
		Markers:       []string{"Promoted"},
		TitleKeywords: []string{"intern", "internship"},
	}), false)
}

func TestExtract_FullCard(t *testing.T) {
	doc := parse(t, pageHTML(goodCard("Backend Engineer", 101)))

	ext := newTestExtractor().Extract(doc, testQuery, 0)

	require.Len(t, ext.Postings, 1)
	assert.Equal(t, 1, ext.Cards)
	assert.Equal(t, 0, ext.Skipped)
	assert.Equal(t, scraper.Posting{
		Title:          "Backend Engineer",
		Company:        "Acme Corp",
		Location:       "Houston, TX",
		Status:         "Hybrid; Actively recruiting; Easy Apply",
		Link:           "https://www.linkedin.com/jobs/view/101/",
		SearchKeyword:  "software engineer",
		SearchLocation: "Houston, TX",
	}, ext.Postings[0])
}

func TestExtract_PromotedCardSkipped(t *testing.T) {
	promoted := goodCard("Backend Engineer", 1)
	promoted.Footer = []string{"Promoted", "Easy Apply"}

	ext := newTestExtractor().Extract(parse(t, pageHTML(promoted)), testQuery, 0)

	assert.Empty(t, ext.Postings)
	assert.Equal(t, 1, ext.Skipped)
}

func TestExtract_MarkerNextToOtherElements(t *testing.T) {
	html := `<html><body><ul>
<li class="scaffold-layout__list-item"><div class="job-card-container">
<a class="job-card-container__link" href="/jobs/view/7/"><span aria-hidden="true">Backend Engineer</span></a><div class="artdeco-entity-lockup__subtitle">Acme Corp</div><ul class="job-card-list__footer-wrapper"><li>Promoted</li><li>Easy Apply</li></ul>
</div></li></ul></body></html>`

	ext := newTestExtractor().Extract(parse(t, html), testQuery, 0)

	assert.Empty(t, ext.Postings)
	assert.Equal(t, 1, ext.Cards)
	assert.Equal(t, 1, ext.Skipped)
}

func TestCardText_SeparatesElements(t *testing.T) {
	doc := parse(t, `<div id="c"><span>Promoted</span><span>Easy Apply</span>Remote<b>  Acme</b></div>`)

	got := cardText(doc.Find("#c"))

	assert.Equal(t, "Promoted Easy Apply Remote Acme", got)
}

func TestExtract_InternTitleSkipped(t *testing.T) {
	ext := newTestExtractor().Extract(parse(t, pageHTML(goodCard("Software Intern", 1))), testQuery, 0)

	assert.Empty(t, ext.Postings)
	assert.Equal(t, 1, ext.Skipped)
}

func TestExtract_MissingLocationUsesSentinel(t *testing.T) {
	card := goodCard("Backend Engineer", 7)
	card.Location = ""

	ext := newTestExtractor().Extract(parse(t, pageHTML(card)), testQuery, 0)

	require.Len(t, ext.Postings, 1)
	p := ext.Postings[0]
	assert.Equal(t, NoLocation, p.Location)
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme Corp", p.Company)
	assert.Equal(t, "Actively recruiting; Easy Apply", p.Status)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/7/", p.Link)
	assert.Equal(t, testQuery.Keyword, p.SearchKeyword)
	assert.Equal(t, testQuery.Location, p.SearchLocation)
}

func TestExtract_EveryFieldMissing(t *testing.T) {
	doc := parse(t, pageHTML(cardFixture{}))

	ext := newTestExtractor().Extract(doc, testQuery, 0)

	require.Len(t, ext.Postings, 1)
	assert.Equal(t, scraper.Posting{
		Title:          NoTitle,
		Company:        NoCompany,
		Location:       NoLocation,
		Status:         NoStatus,
		Link:           NoLink,
		SearchKeyword:  testQuery.Keyword,
		SearchLocation: testQuery.Location,
	}, ext.Postings[0])
}

func TestExtract_PreservesOrderAndLimit(t *testing.T) {
	promoted := goodCard("Platform Engineer", 2)
	promoted.Footer = []string{"Promoted"}
	doc := parse(t, pageHTML(
		goodCard("First", 1),
		promoted,
		goodCard("Third", 3),
		goodCard("Software Intern", 4),
		goodCard("Fifth", 5),
	))

	ext := newTestExtractor().Extract(doc, testQuery, 0)
	require.Len(t, ext.Postings, 3)
	assert.Equal(t, "First", ext.Postings[0].Title)
	assert.Equal(t, "Third", ext.Postings[1].Title)
	assert.Equal(t, "Fifth", ext.Postings[2].Title)
	assert.Equal(t, 5, ext.Cards)
	assert.Equal(t, 2, ext.Skipped)

	limited := newTestExtractor().Extract(doc, testQuery, 2)
	assert.Equal(t, 2, limited.Cards)
	require.Len(t, limited.Postings, 1)
	assert.Equal(t, "First", limited.Postings[0].Title)
}

func TestExtract_PostedAgeRule(t *testing.T) {
	x := NewExtractor(DefaultSelectors(), filter.NewExcluder(filter.Rules{MaxAge: 24 * time.Hour}), false)
	old := goodCard("Backend Engineer", 1)
	old.Posted = "2001-01-01"
	fresh := goodCard("Backend Engineer", 2)
	fresh.Posted = time.Now().Format("2006-01-02")

	ext := x.Extract(parse(t, pageHTML(old, fresh)), testQuery, 0)

	require.Len(t, ext.Postings, 1)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/2/", ext.Postings[0].Link)
}

func TestExtract_WorkplaceOnlyLocation(t *testing.T) {
	card := goodCard("Backend Engineer", 1)
	card.Location = "(Remote)"
	card.Footer = nil

	ext := newTestExtractor().Extract(parse(t, pageHTML(card)), testQuery, 0)

	require.Len(t, ext.Postings, 1)
	assert.Equal(t, NoLocation, ext.Postings[0].Location)
	assert.Equal(t, "Remote", ext.Postings[0].Status)
}
