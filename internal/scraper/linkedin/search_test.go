package linkedin

import (
	"net/url"
	"testing"

	"legitapply/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name   string
		query  scraper.Query
		page   int
		extra  map[string]string
		expect string
	}{
		{
			name:   "first page",
			query:  scraper.Query{Keyword: "software engineer", Location: "Houston, TX"},
			expect: "https://www.linkedin.com/jobs/search/?keywords=software+engineer&location=Houston%2C+TX",
		},
		{
			name:   "later page",
			query:  scraper.Query{Keyword: "golang", Location: "Remote"},
			page:   2,
			expect: "https://www.linkedin.com/jobs/search/?keywords=golang&location=Remote&start=50",
		},
		{
			name:   "extra params and no location",
			query:  scraper.Query{Keyword: " go "},
			extra:  map[string]string{"f_TPR": "r604800", "start": "999", "location": "x"},
			expect: "https://www.linkedin.com/jobs/search/?f_TPR=r604800&keywords=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, SearchURL(tt.query, tt.page, tt.extra))
		})
	}
}

func TestSearchURL_RoundTripsQuery(t *testing.T) {
	raw := SearchURL(scraper.Query{Keyword: "c++ & rust", Location: "São Paulo"}, 1, nil)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "c++ & rust", u.Query().Get("keywords"))
	assert.Equal(t, "São Paulo", u.Query().Get("location"))
	assert.Equal(t, "25", u.Query().Get("start"))
}

func TestCanonicalLink(t *testing.T) {
	tests := []struct {
		href   string
		expect string
	}{
		{href: "/jobs/view/123/?refId=a&trackingId=b", expect: "https://www.linkedin.com/jobs/view/123/"},
		{href: "https://www.linkedin.com/jobs/view/456#apply", expect: "https://www.linkedin.com/jobs/view/456"},
		{href: "  /jobs/view/789/  ", expect: "https://www.linkedin.com/jobs/view/789/"},
	}
	for _, tt := range tests {
		got, err := CanonicalLink(tt.href)
		require.NoError(t, err)
		assert.Equal(t, tt.expect, got)
	}

	_, err := CanonicalLink("http://[::1")
	assert.Error(t, err)
}
