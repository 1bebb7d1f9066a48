package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"legitapply/internal/scraper"
	"legitapply/utils"

	"github.com/playwright-community/playwright-go"
)

type Options struct {
	Launch            LaunchOptions
	NavigationTimeout time.Duration
	LoginTimeout      time.Duration
	CookiesPath       string
	ScreenshotDir     string
	Pacing            Pacing
	Site              Site
}

// Session drives one page of a Playwright browser. It implements scraper.Session.
type Session struct {
	opts        Options
	manager     *PlaywrightManager
	browserCtx  playwright.BrowserContext
	page        playwright.Page
	pacer       *Pacer
	screenshots *utils.ScreenShotDebugger
}

// Open starts the browser and returns a ready page. Whatever was started is
// torn down again if a later step fails.
func Open(opts Options) (*Session, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = 20 * time.Second
	}
	if opts.Site == (Site{}) {
		opts.Site = LinkedInSite()
	}

	var cookies []playwright.OptionalCookie
	if opts.CookiesPath != "" {
		loaded, err := LoadCookies(opts.CookiesPath)
		switch {
		case err == nil:
			log.Printf("🍪 Loaded %d cookies", len(loaded))
			cookies = loaded
		case os.IsNotExist(err):
			log.Println("🍪 No saved cookies, will log in with credentials.")
		default:
			log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
		}
	}

	manager, err := NewPlaywright(opts.Launch)
	if err != nil {
		return nil, err
	}
	browserCtx, err := manager.NewContext(cookies, opts.Launch.UserAgent)
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = manager.Close()
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}
	log.Println("✅ Browser initialized successfully!")

	return &Session{
		opts:        opts,
		manager:     manager,
		browserCtx:  browserCtx,
		page:        page,
		pacer:       NewPacer(opts.Pacing),
		screenshots: utils.NewScreenShotDebugger(opts.ScreenshotDir),
	}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.pacer.BeforeNavigation(ctx); err != nil {
		return err
	}
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(boundedTimeout(ctx, s.opts.NavigationTimeout)),
	}); err != nil {
		s.screenshots.CaptureAndLog(s.page, "navigation-failed", "🚨 Navigation failed")
		return fmt.Errorf("%w: %s: %v", scraper.ErrNavigation, url, err)
	}
	return nil
}

func (s *Session) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(boundedTimeout(ctx, timeout)),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		s.screenshots.CaptureAndLog(s.page, "content-timeout", "🚨 Content did not appear in time")
		return fmt.Errorf("%w: %q after %s", scraper.ErrContentTimeout, selector, timeout)
	}
	return fmt.Errorf("failed waiting for %q: %w", selector, err)
}

// Scroll scrolls the first element matching selector, or the page when the
// selector is empty or absent, in steps separated by random delays.
func (s *Session) Scroll(ctx context.Context, selector string) error {
	target := s.page.Locator("body").First()
	useElement := false
	if selector != "" {
		if n, _ := s.page.Locator(selector).Count(); n > 0 {
			target = s.page.Locator(selector).First()
			useElement = true
		}
	}

	for i := 0; i < s.pacer.ScrollSteps(); i++ {
		var err error
		if useElement {
			_, err = target.Evaluate("el => el.scrollBy(0, el.clientHeight / 2)", nil)
		} else {
			_, err = s.page.Evaluate("window.scrollBy(0, window.innerHeight / 2)")
		}
		if err != nil {
			return err
		}
		if err := s.pacer.AfterScroll(ctx); err != nil {
			return err
		}
	}
	// Scroll back up a bit (random behavior)
	if useElement {
		_, err := target.Evaluate("el => el.scrollBy(0, -200)", nil)
		return err
	}
	_, err := s.page.Evaluate("window.scrollBy(0, -200)")
	return err
}

func (s *Session) RevealEach(ctx context.Context, selector string, limit int) (int, error) {
	items := s.page.Locator(selector)
	count, err := items.Count()
	if err != nil {
		return 0, err
	}
	if limit > 0 && count > limit {
		count = limit
	}

	revealed := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return revealed, err
		}
		if err := items.Nth(i).ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
			Timeout: playwright.Float(2000),
		}); err != nil {
			return revealed, err
		}
		revealed++
		if err := s.pacer.AfterCard(ctx); err != nil {
			return revealed, err
		}
	}
	return revealed, nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Content()
}

func (s *Session) Close() error {
	var errs []error
	if s.browserCtx != nil {
		errs = append(errs, s.browserCtx.Close())
	}
	if s.manager != nil {
		errs = append(errs, s.manager.Close())
	}
	return errors.Join(errs...)
}

// boundedTimeout shortens timeout so it never outlives ctx.
func boundedTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			if left < time.Millisecond {
				return time.Millisecond
			}
			return left
		}
	}
	return timeout
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

var _ scraper.Session = (*Session)(nil)
