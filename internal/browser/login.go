package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"legitapply/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// Site holds the URLs and selectors of the login flow.
type Site struct {
	FeedURL          string
	LoginURL         string
	UsernameSelector string
	PasswordSelector string
	SubmitSelector   string
	LoggedInSelector string
}

func LinkedInSite() Site {
	return Site{
		FeedURL:          "https://www.linkedin.com/feed/",
		LoginURL:         "https://www.linkedin.com/login",
		UsernameSelector: "#username",
		PasswordSelector: "#password",
		SubmitSelector:   "button[type=submit]",
		LoggedInSelector: "#global-nav",
	}
}

// IsChallengeURL reports whether LinkedIn parked the session on a
// checkpoint/captcha page instead of the feed.
func IsChallengeURL(u string) bool {
	u = strings.ToLower(u)
	return strings.Contains(u, "/checkpoint/") || strings.Contains(u, "/challenge/")
}

// Login reuses the cookie session when it is still valid, otherwise submits
// the login form. Cookies are saved after a form login.
func (s *Session) Login(ctx context.Context, creds scraper.Credentials) error {
	site := s.opts.Site

	//warm up phase: saved cookies may already be enough
	log.Println("🏠 Navigating to LinkedIn Feed for warm-up...")
	if err := s.Navigate(ctx, site.FeedURL); err != nil {
		return fmt.Errorf("%w: %v", scraper.ErrLoginFailed, err)
	}
	if s.isLoggedIn(ctx, 5*time.Second) {
		log.Println("✅ Login confirmed (saved session).")
		return s.warmUp(ctx)
	}

	if creds.Email == "" || creds.Password == "" {
		return fmt.Errorf("%w: no valid saved session and no credentials configured", scraper.ErrLoginFailed)
	}

	log.Println("🔐 Logging in with credentials...")
	if err := s.Navigate(ctx, site.LoginURL); err != nil {
		return fmt.Errorf("%w: %v", scraper.ErrLoginFailed, err)
	}
	if err := s.page.Locator(site.UsernameSelector).Fill(creds.Email); err != nil {
		return fmt.Errorf("%w: username field: %v", scraper.ErrLoginFailed, err)
	}
	if err := s.pacer.AfterCard(ctx); err != nil {
		return err
	}
	if err := s.page.Locator(site.PasswordSelector).Fill(creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", scraper.ErrLoginFailed, err)
	}
	if err := s.page.Locator(site.SubmitSelector).First().Click(); err != nil {
		return fmt.Errorf("%w: submit: %v", scraper.ErrLoginFailed, err)
	}

	//Verify login
	if !s.isLoggedIn(ctx, s.opts.LoginTimeout) {
		s.screenshots.CaptureAndLog(s.page, "login-failed", "🚨 LinkedIn: login not confirmed")
		if IsChallengeURL(s.page.URL()) {
			return scraper.ErrLoginChallenge
		}
		return fmt.Errorf("%w: global nav not found", scraper.ErrLoginFailed)
	}
	log.Println("✅ Login confirmed.")

	if s.opts.CookiesPath != "" {
		if cookies, err := s.browserCtx.Cookies(); err != nil {
			log.Printf("⚠️ Could not read cookies: %v", err)
		} else if err := SaveCookies(s.opts.CookiesPath, cookies); err != nil {
			log.Printf("⚠️ Could not save cookies: %v", err)
		} else {
			log.Printf("🍪 Saved %d cookies", len(cookies))
		}
	}
	return s.warmUp(ctx)
}

func (s *Session) isLoggedIn(ctx context.Context, timeout time.Duration) bool {
	err := s.page.Locator(s.opts.Site.LoggedInSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(boundedTimeout(ctx, timeout)),
	})
	return err == nil
}

// warmUp idles briefly on the feed like a person would after logging in.
func (s *Session) warmUp(ctx context.Context) error {
	if err := s.pacer.AfterScroll(ctx); err != nil {
		return err
	}
	if err := MouseJiggle(ctx, s.page, s.pacer); err != nil {
		log.Printf("⚠️ Mouse jiggle failed: %v", err)
	}
	return nil
}
