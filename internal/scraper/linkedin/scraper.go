package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"legitapply/internal/filter"
	"legitapply/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

type Options struct {
	Selectors      Selectors
	Rules          filter.Rules
	PagesPerQuery  int
	ContentTimeout time.Duration
	ExtraParams    map[string]string
	//Limit caps the listings examined across the whole run; 0 means no cap
	Limit   int
	Verbose bool
}

type LinkedInScraper struct {
	opts      Options
	extractor *Extractor
}

func NewLinkedInScraper(opts Options) *LinkedInScraper {
	if opts.PagesPerQuery <= 0 {
		opts.PagesPerQuery = 1
	}
	if opts.ContentTimeout <= 0 {
		opts.ContentTimeout = 15 * time.Second
	}
	return &LinkedInScraper{
		opts:      opts,
		extractor: NewExtractor(opts.Selectors, filter.NewExcluder(opts.Rules), opts.Verbose),
	}
}

func (s *LinkedInScraper) Name() string {
	return "LinkedIn"
}

// Report is what a scrape produced, including partial results on error.
type Report struct {
	Postings   []scraper.Posting
	Pages      int
	EmptyPages int
	Cards      int
	Skipped    int
}

// Scrape runs each query in order on an authenticated session.
// A page whose cards never show up yields nothing and the query moves on;
// navigation and session errors abort the scrape.
func (s *LinkedInScraper) Scrape(ctx context.Context, sess scraper.Session, queries []scraper.Query) (Report, error) {
	var report Report

	for _, q := range queries {
		if s.remaining(report) < 0 {
			log.Printf("🧪 Limited run: reached %d listings, stopping.", s.opts.Limit)
			return report, nil
		}
		log.Printf("\n🔑 Processing query: %q", q.String())

		for page := 0; page < s.opts.PagesPerQuery; page++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			budget := s.remaining(report)
			if budget < 0 {
				break
			}

			ext, err := s.scrapePage(ctx, sess, q, page, budget)
			report.Pages++
			if err != nil {
				if errors.Is(err, scraper.ErrContentTimeout) {
					log.Printf("    ⚠️ No job cards on page %d: %v", page+1, err)
					report.EmptyPages++
					break
				}
				return report, err
			}

			report.Postings = append(report.Postings, ext.Postings...)
			report.Cards += ext.Cards
			report.Skipped += ext.Skipped
			log.Printf("    📦 Page %d: %d cards, %d postings, %d skipped", page+1, ext.Cards, len(ext.Postings), ext.Skipped)

			if ext.Cards == 0 {
				report.EmptyPages++
				break
			}
		}
	}
	return report, nil
}

// remaining is the card budget left for the next page: 0 for unlimited,
// -1 once the limit is used up.
func (s *LinkedInScraper) remaining(report Report) int {
	if s.opts.Limit <= 0 {
		return 0
	}
	left := s.opts.Limit - report.Cards
	if left <= 0 {
		return -1
	}
	return left
}

func (s *LinkedInScraper) scrapePage(ctx context.Context, sess scraper.Session, q scraper.Query, page, budget int) (Extraction, error) {
	searchURL := SearchURL(q, page, s.opts.ExtraParams)
	log.Printf("  🌐 Visiting Job Search: %s", searchURL)
	if err := sess.Navigate(ctx, searchURL); err != nil {
		return Extraction{}, err
	}

	//wait for job list
	if err := sess.WaitForSelector(ctx, s.opts.Selectors.Card, s.opts.ContentTimeout); err != nil {
		return Extraction{}, err
	}

	//lazy loading: scroll the list, then bring each card into view
	if err := sess.Scroll(ctx, s.opts.Selectors.ListContainer); err != nil {
		log.Printf("    ⚠️ Scroll failed: %v", err)
	}
	if _, err := sess.RevealEach(ctx, s.opts.Selectors.Card, budget); err != nil {
		if ctx.Err() != nil {
			return Extraction{}, ctx.Err()
		}
		log.Printf("    ⚠️ Revealing cards failed: %v", err)
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to read page content: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to parse page content: %w", err)
	}
	return s.extractor.Extract(doc, q, budget), nil
}
