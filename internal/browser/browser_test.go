package browser

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"legitapply/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookie_ToPlaywright(t *testing.T) {
	c := Cookie{
		Name:     "li_at",
		Value:    "secret",
		Domain:   ".linkedin.com",
		Expires:  1893456000,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	}

	pw := c.ToPlaywright()
	assert.Equal(t, "li_at", pw.Name)
	assert.Equal(t, ".linkedin.com", *pw.Domain)
	assert.Equal(t, "/", *pw.Path)
	assert.Equal(t, 1893456000.0, *pw.Expires)
	assert.True(t, *pw.HttpOnly)
	assert.True(t, *pw.Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, pw.SameSite)

	session := Cookie{Name: "JSESSIONID", Value: "x", Domain: "www.linkedin.com", Path: "/"}.ToPlaywright()
	assert.Nil(t, session.Expires)
	assert.Nil(t, session.HttpOnly)
	assert.Nil(t, session.SameSite)
}

func TestSaveAndLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cookies", "linkedin.json")
	_, err := LoadCookies(path)
	require.Error(t, err)

	cookies := []playwright.Cookie{{
		Name:     "li_at",
		Value:    "secret",
		Domain:   ".linkedin.com",
		Path:     "/",
		Expires:  1893456000,
		HttpOnly: true,
		Secure:   true,
		SameSite: playwright.SameSiteAttributeLax,
	}}
	require.NoError(t, SaveCookies(path, cookies))

	loaded, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "secret", loaded[0].Value)
	assert.Equal(t, playwright.SameSiteAttributeLax, loaded[0].SameSite)
}

func TestPacer_PickWithinRange(t *testing.T) {
	p := NewPacer(DefaultPacing())
	r := Range{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	for i := 0; i < 200; i++ {
		d := p.Pick(r)
		assert.GreaterOrEqual(t, d, r.Min)
		assert.LessOrEqual(t, d, r.Max)
	}
	assert.Equal(t, 5*time.Millisecond, p.Pick(Range{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}))
}

func TestPacer_DelaysUseConfiguredRanges(t *testing.T) {
	var slept []time.Duration
	p := NewPacer(Pacing{
		ScrollDelay: Range{Min: time.Second, Max: time.Second},
		CardDelay:   Range{Min: 2 * time.Second, Max: 2 * time.Second},
	})
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, p.AfterScroll(context.Background()))
	require.NoError(t, p.AfterCard(context.Background()))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	assert.Equal(t, 1, p.ScrollSteps())
}

func TestPacer_SleepHonoursContext(t *testing.T) {
	p := NewPacer(Pacing{ScrollDelay: Range{Min: time.Hour, Max: time.Hour}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.AfterScroll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPacer_NavigationRate(t *testing.T) {
	p := NewPacer(Pacing{NavigationsPerMinute: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, p.BeforeNavigation(ctx), "first navigation uses the burst")
	assert.Error(t, p.BeforeNavigation(ctx), "second navigation must wait a minute")

	unlimited := NewPacer(Pacing{})
	for i := 0; i < 10; i++ {
		require.NoError(t, unlimited.BeforeNavigation(context.Background()))
	}
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, Range{Min: time.Second, Max: 2 * time.Second}.Validate())
	assert.Error(t, Range{Min: 2 * time.Second, Max: time.Second}.Validate())
	assert.Error(t, Range{Min: -time.Second}.Validate())
}

func TestIsChallengeURL(t *testing.T) {
	assert.True(t, IsChallengeURL("https://www.linkedin.com/checkpoint/challenge/AgF..."))
	assert.True(t, IsChallengeURL("https://www.linkedin.com/uas/CHALLENGE/x"))
	assert.False(t, IsChallengeURL("https://www.linkedin.com/feed/"))
}

func TestBoundedTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, boundedTimeout(context.Background(), 5*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.LessOrEqual(t, boundedTimeout(ctx, time.Minute), time.Second)
}

const searchFixture = `<html><body><div id="global-nav"></div>
<div class="scaffold-layout__list"><div><ul>
<li class="scaffold-layout__list-item"><a class="job-card-container__link" href="/jobs/view/1/">One</a></li>
<li class="scaffold-layout__list-item"><a class="job-card-container__link" href="/jobs/view/2/">Two</a></li>
</ul></div></div></body></html>`

// Runs against a real Chromium with every request served from fixtures.
func TestSession_AgainstRoutedPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	fast := Range{Min: 0, Max: time.Millisecond}
	sess, err := Open(Options{
		Launch:            LaunchOptions{Headless: true},
		NavigationTimeout: 10 * time.Second,
		Pacing:            Pacing{ScrollDelay: fast, CardDelay: fast, ScrollSteps: 2},
	})
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	defer sess.Close()

	require.NoError(t, sess.page.Route("**/*", func(route playwright.Route) {
		body := searchFixture
		if route.Request().URL() == "https://www.linkedin.com/jobs/search/?keywords=empty" {
			body = "<html><body>nothing here</body></html>"
		}
		_ = route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        body,
		})
	}))

	ctx := context.Background()
	require.NoError(t, sess.Login(ctx, scraper.Credentials{}), "global nav present means the session is valid")

	require.NoError(t, sess.Navigate(ctx, "https://www.linkedin.com/jobs/search/?keywords=go"))
	require.NoError(t, sess.WaitForSelector(ctx, "li.scaffold-layout__list-item", 5*time.Second))
	require.NoError(t, sess.Scroll(ctx, ".scaffold-layout__list > div"))

	n, err := sess.RevealEach(ctx, "li.scaffold-layout__list-item", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	html, err := sess.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "/jobs/view/2/")

	require.NoError(t, sess.Navigate(ctx, "https://www.linkedin.com/jobs/search/?keywords=empty"))
	err = sess.WaitForSelector(ctx, "li.scaffold-layout__list-item", 500*time.Millisecond)
	assert.True(t, errors.Is(err, scraper.ErrContentTimeout), "got %v", err)
}
