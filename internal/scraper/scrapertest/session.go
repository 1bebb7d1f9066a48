// Package scrapertest provides an in-memory scraper.Session for tests.
package scrapertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"legitapply/internal/scraper"
)

// FakeSession serves canned HTML per URL. URLs without a page time out
// in WaitForSelector, like a search page whose list never renders.
type FakeSession struct {
	Pages       map[string]string
	LoginErr    error
	NavigateErr map[string]error

	mu       sync.Mutex
	current  string
	Visited  []string
	Reveals  []int
	LoggedIn bool
	Closed   bool
	Creds    scraper.Credentials
}

func NewFakeSession(pages map[string]string) *FakeSession {
	return &FakeSession{Pages: pages, NavigateErr: map[string]error{}}
}

func (f *FakeSession) Login(_ context.Context, creds scraper.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Creds = creds
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.LoggedIn = true
	return nil
}

func (f *FakeSession) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Visited = append(f.Visited, url)
	if err := f.NavigateErr[url]; err != nil {
		return fmt.Errorf("%w: %s: %v", scraper.ErrNavigation, url, err)
	}
	f.current = url
	return nil
}

func (f *FakeSession) WaitForSelector(_ context.Context, selector string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Pages[f.current]; !ok {
		return fmt.Errorf("%w: %q after %s", scraper.ErrContentTimeout, selector, timeout)
	}
	return nil
}

func (f *FakeSession) Scroll(context.Context, string) error {
	return nil
}

func (f *FakeSession) RevealEach(_ context.Context, _ string, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reveals = append(f.Reveals, limit)
	return limit, nil
}

func (f *FakeSession) HTML(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Pages[f.current], nil
}

func (f *FakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

var _ scraper.Session = (*FakeSession)(nil)
