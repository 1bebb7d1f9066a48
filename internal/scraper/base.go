// Shared types for the listing scraper:
// postings, queries, per-field results and the browser session contract.

package scraper

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLoginFailed    = errors.New("login failed")
	ErrLoginChallenge = errors.New("login blocked by security challenge")
	ErrNavigation     = errors.New("navigation failed")
	ErrContentTimeout = errors.New("timed out waiting for content")
	ErrFieldMissing   = errors.New("field not found")
)

// Query is one keyword/location pair to search for.
type Query struct {
	Keyword  string `yaml:"keyword" validate:"required"`
	Location string `yaml:"location"`
}

func (q Query) String() string {
	if q.Location == "" {
		return q.Keyword
	}
	return q.Keyword + " @ " + q.Location
}

// Posting is one extracted job card. Fields that could not be read hold a
// sentinel value instead of being empty.
type Posting struct {
	Title          string
	Company        string
	Location       string
	Status         string
	Link           string
	SearchKeyword  string
	SearchLocation string
}

type Credentials struct {
	Email    string
	Password string
}

// Session is the browser capability the scraper drives.
// Implementations must be released with Close on every exit path.
type Session interface {
	//Login authenticates; failure is fatal for the run
	Login(ctx context.Context, creds Credentials) error

	//Navigate loads url; failure is fatal for the run
	Navigate(ctx context.Context, url string) error

	//WaitForSelector blocks until selector is present or timeout elapses (ErrContentTimeout)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error

	//Scroll scrolls the element matching selector (or the page when empty) to trigger lazy loading
	Scroll(ctx context.Context, selector string) error

	//RevealEach brings up to limit matching elements into view, one at a time; limit <= 0 means all
	RevealEach(ctx context.Context, selector string, limit int) (int, error)

	//HTML returns the currently rendered document
	HTML(ctx context.Context) (string, error)

	Close() error
}
