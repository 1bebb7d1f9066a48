package linkedin

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type cardFixture struct {
	Title    string
	Company  string
	Location string
	Footer   []string
	Href     string
	Posted   string
}

func (c cardFixture) html() string {
	var b strings.Builder
	b.WriteString(`<li class="scaffold-layout__list-item"><div class="job-card-container">`)
	if c.Title != "" {
		fmt.Fprintf(&b, `<a class="job-card-container__link job-card-list__title--link" href=%q>`+
			`<span aria-hidden="true"><strong>%s</strong></span>`+
			`<span class="visually-hidden">%s with verification</span></a>`, c.Href, c.Title, c.Title)
	} else if c.Href != "" {
		fmt.Fprintf(&b, `<a class="job-card-container__link" href=%q></a>`, c.Href)
	}
	if c.Company != "" {
		fmt.Fprintf(&b, `<div class="artdeco-entity-lockup__subtitle"><span>%s</span></div>`, c.Company)
	}
	if c.Location != "" {
		fmt.Fprintf(&b, `<ul class="job-card-container__metadata-wrapper"><li>%s</li></ul>`, c.Location)
	}
	b.WriteString(`<ul class="job-card-list__footer-wrapper">`)
	for _, f := range c.Footer {
		fmt.Fprintf(&b, `<li class="job-card-container__footer-item">%s</li>`, f)
	}
	if c.Posted != "" {
		fmt.Fprintf(&b, `<li><time datetime=%q>recently</time></li>`, c.Posted)
	}
	b.WriteString(`</ul></div></li>`)
	return b.String()
}

func pageHTML(cards ...cardFixture) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="global-nav"></div><div class="scaffold-layout__list"><div><ul>`)
	for _, c := range cards {
		b.WriteString(c.html())
	}
	b.WriteString(`</ul></div></div></body></html>`)
	return b.String()
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func goodCard(title string, id int) cardFixture {
	return cardFixture{
		Title:    title,
		Company:  "Acme Corp",
		Location: "Houston, TX (Hybrid)",
		Footer:   []string{"Actively recruiting", "Easy Apply"},
		Href:     fmt.Sprintf("/jobs/view/%d/?refId=abc&trackingId=xyz", id),
	}
}
