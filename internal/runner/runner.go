// Package runner wires one scrape run together: quota gate, browser session,
// scrape, CSV output and run recording.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"legitapply/internal/output"
	"legitapply/internal/scraper"
	"legitapply/internal/scraper/linkedin"
	"legitapply/internal/telegram"
	"legitapply/internal/throttle"

	"github.com/google/uuid"
)

// ErrQuotaExceeded means the rolling-window quota is used up. Nothing was
// opened or written.
var ErrQuotaExceeded = errors.New("weekly run limit reached")

// RecordPolicy decides which admitted runs consume a quota slot.
type RecordPolicy string

const (
	//RecordAfterLogin records once the site accepted the login, even with zero postings
	RecordAfterLogin RecordPolicy = "after_login"
	//RecordAlways records every run the gate admitted
	RecordAlways RecordPolicy = "always"
	//RecordOnResults records only a completed scrape that produced postings
	RecordOnResults RecordPolicy = "on_results"
)

type Gate interface {
	MayRun() (bool, error)
	RecordRun() error
	Status() (throttle.Status, error)
	Lock() (func() error, error)
}

// SessionOpener starts a fresh browser session for one run.
type SessionOpener func(ctx context.Context) (scraper.Session, error)

type QueryScraper interface {
	Name() string
	Scrape(ctx context.Context, sess scraper.Session, queries []scraper.Query) (linkedin.Report, error)
}

type Notifier interface {
	SendStatus(message string) error
	SendError(err error) error
}

type Deps struct {
	Gate        Gate
	OpenSession SessionOpener
	Scraper     QueryScraper
	Notifier    Notifier
}

type Options struct {
	Queries      []scraper.Query
	Credentials  scraper.Credentials
	OutputPath   string
	RecordPolicy RecordPolicy
}

type Runner struct {
	deps  Deps
	opts  Options
	newID func() string
	now   func() time.Time
}

func New(deps Deps, opts Options) *Runner {
	if deps.Notifier == nil {
		deps.Notifier = telegram.Nop{}
	}
	if opts.RecordPolicy == "" {
		opts.RecordPolicy = RecordAfterLogin
	}
	return &Runner{
		deps:  deps,
		opts:  opts,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

type Summary struct {
	RunID      string
	Postings   int
	Pages      int
	EmptyPages int
	Cards      int
	Skipped    int
	OutputPath string
	Written    bool
	Recorded   bool
	Quota      throttle.Status
	Duration   time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("Run %s: %d postings written to %s (%d cards, %d skipped, %d pages) in %s. Quota: %d/%d used, %d remaining.",
		shortID(s.RunID), s.Postings, s.OutputPath, s.Cards, s.Skipped, s.Pages,
		s.Duration.Round(time.Second), s.Quota.Used, s.Quota.Max, s.Quota.Remaining)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run performs one gated run. A denied run returns ErrQuotaExceeded without
// touching the browser, the output or the run log.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := r.now()
	sum := Summary{RunID: r.newID(), OutputPath: r.opts.OutputPath}

	if err := CheckQuota(r.deps.Gate); err != nil {
		return sum, err
	}

	unlock, err := r.deps.Gate.Lock()
	if err != nil {
		return sum, err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Printf("⚠️ Failed to release run lock: %v", err)
		}
	}()

	//re-check under the lock: a concurrent run may have recorded meanwhile
	if err := CheckQuota(r.deps.Gate); err != nil {
		return sum, err
	}

	log.Printf("🚀 Run %s starting (%d queries)", shortID(sum.RunID), len(r.opts.Queries))

	report, loggedIn, runErr := r.execute(ctx)
	sum.Pages = report.Pages
	sum.EmptyPages = report.EmptyPages
	sum.Cards = report.Cards
	sum.Skipped = report.Skipped

	record := r.shouldRecord(loggedIn, len(report.Postings), runErr)

	//keep partial results of a failed scrape, but never clobber the previous
	//file with an empty one
	if runErr == nil || len(report.Postings) > 0 {
		if err := output.WriteCSV(r.opts.OutputPath, report.Postings); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to write results: %w", err))
		} else {
			sum.Postings = len(report.Postings)
			sum.Written = true
			log.Printf("📁 Saved %d postings to %s", sum.Postings, r.opts.OutputPath)
		}
	}

	if record {
		if err := r.deps.Gate.RecordRun(); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to record run: %w", err))
		} else {
			sum.Recorded = true
		}
	} else {
		log.Printf("ℹ️ Run not recorded (record policy %s)", r.opts.RecordPolicy)
	}

	if st, err := r.deps.Gate.Status(); err == nil {
		sum.Quota = st
	}
	sum.Duration = r.now().Sub(start)

	if runErr != nil {
		log.Printf("❌ Run %s failed: %v", shortID(sum.RunID), runErr)
		if err := r.deps.Notifier.SendError(fmt.Errorf("run %s: %w", shortID(sum.RunID), runErr)); err != nil {
			log.Printf("⚠️ Failed to send error to Telegram: %v", err)
		}
		return sum, runErr
	}

	log.Printf("🏁 %s", sum)
	if err := r.deps.Notifier.SendStatus(sum.String()); err != nil {
		log.Printf("⚠️ Failed to send status to Telegram: %v", err)
	}
	return sum, nil
}

// CheckQuota reports ErrQuotaExceeded, with the next free slot, when gate
// denies a run. It never writes.
func CheckQuota(gate Gate) error {
	ok, err := gate.MayRun()
	if err != nil {
		return fmt.Errorf("quota check failed: %w", err)
	}
	if ok {
		return nil
	}
	st, err := gate.Status()
	if err != nil {
		return ErrQuotaExceeded
	}
	return fmt.Errorf("%w: %d/%d runs in the last %s, next slot at %s", ErrQuotaExceeded,
		st.Used, st.Max, st.Window, st.NextAvailable.Local().Format(time.RFC1123))
}

// execute owns the session: it is closed before execute returns, whatever
// happened.
func (r *Runner) execute(ctx context.Context) (report linkedin.Report, loggedIn bool, err error) {
	sess, err := r.deps.OpenSession(ctx)
	if err != nil {
		return report, false, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Printf("⚠️ Failed to close browser session: %v", cerr)
		}
	}()

	if err := sess.Login(ctx, r.opts.Credentials); err != nil {
		return report, false, err
	}

	log.Printf("\n▶️ Starting scraper: %s", r.deps.Scraper.Name())
	report, err = r.deps.Scraper.Scrape(ctx, sess, r.opts.Queries)
	if err != nil {
		return report, true, fmt.Errorf("scraper %s: %w", r.deps.Scraper.Name(), err)
	}
	log.Printf("✅ Scraper %s finished. Found %d postings.", r.deps.Scraper.Name(), len(report.Postings))
	return report, true, nil
}

func (r *Runner) shouldRecord(loggedIn bool, postings int, runErr error) bool {
	switch r.opts.RecordPolicy {
	case RecordAlways:
		return true
	case RecordOnResults:
		return loggedIn && runErr == nil && postings > 0
	default:
		return loggedIn
	}
}
