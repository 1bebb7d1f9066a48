package linkedin

import (
	"net/url"
	"strconv"
	"strings"

	"legitapply/internal/scraper"
)

const (
	BaseURL = "https://www.linkedin.com"
	// PageSize is how many cards LinkedIn renders per search page.
	PageSize = 25
)

// SearchURL builds the job search URL for a query and zero-based page.
// Extra params (f_TPR, f_WT, geoId ...) are added as-is; keyword, location and
// start always win.
func SearchURL(q scraper.Query, page int, extra map[string]string) string {
	params := url.Values{}
	for k, v := range extra {
		params.Set(k, v)
	}
	params.Set("keywords", strings.TrimSpace(q.Keyword))
	if loc := strings.TrimSpace(q.Location); loc != "" {
		params.Set("location", loc)
	} else {
		params.Del("location")
	}
	if page > 0 {
		params.Set("start", strconv.Itoa(page*PageSize))
	} else {
		params.Del("start")
	}
	return BaseURL + "/jobs/search/?" + params.Encode()
}

// CanonicalLink resolves href against BaseURL and strips the query string and
// fragment. LinkedIn adds tracking params (refId, trackingId) that make the
// same job look like different URLs.
func CanonicalLink(href string) (string, error) {
	base, _ := url.Parse(BaseURL)
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	u := base.ResolveReference(ref)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
