package browser

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/time/rate"
)

// Range is an inclusive span a random delay is drawn from.
type Range struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

func (r Range) Validate() error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("invalid delay range %s..%s", r.Min, r.Max)
	}
	return nil
}

// Pacing controls the human-like delays between browser actions.
type Pacing struct {
	ScrollDelay          Range   `yaml:"scroll_delay"`
	CardDelay            Range   `yaml:"card_delay"`
	ScrollSteps          int     `yaml:"scroll_steps" validate:"gte=0"`
	NavigationsPerMinute float64 `yaml:"navigations_per_minute" validate:"gte=0"`
}

func DefaultPacing() Pacing {
	return Pacing{
		ScrollDelay:          Range{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
		CardDelay:            Range{Min: 100 * time.Millisecond, Max: 300 * time.Millisecond},
		ScrollSteps:          5,
		NavigationsPerMinute: 6,
	}
}

// Pacer spaces out browser actions. Delays are randomized within the
// configured ranges; navigations are additionally rate limited.
type Pacer struct {
	pacing  Pacing
	limiter *rate.Limiter

	mu  sync.Mutex
	rng *rand.Rand

	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(p Pacing) *Pacer {
	limit := rate.Inf
	if p.NavigationsPerMinute > 0 {
		limit = rate.Every(time.Duration(float64(time.Minute) / p.NavigationsPerMinute))
	}
	return &Pacer{
		pacing:  p,
		limiter: rate.NewLimiter(limit, 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepContext,
	}
}

// Pick draws a duration from r.
func (p *Pacer) Pick(r Range) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + time.Duration(p.rng.Int63n(int64(r.Max-r.Min)+1))
}

func (p *Pacer) intn(n int) int {
	if n <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// RandomDelay waits for a random duration within r, or until ctx is done.
func (p *Pacer) RandomDelay(ctx context.Context, r Range) error {
	return p.sleep(ctx, p.Pick(r))
}

func (p *Pacer) AfterScroll(ctx context.Context) error {
	return p.RandomDelay(ctx, p.pacing.ScrollDelay)
}

func (p *Pacer) AfterCard(ctx context.Context) error {
	return p.RandomDelay(ctx, p.pacing.CardDelay)
}

// BeforeNavigation blocks until the navigation rate allows another page load.
func (p *Pacer) BeforeNavigation(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

func (p *Pacer) ScrollSteps() int {
	if p.pacing.ScrollSteps <= 0 {
		return 1
	}
	return p.pacing.ScrollSteps
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MouseJiggle simulates random mouse movements to prevent idle detection
func MouseJiggle(ctx context.Context, page playwright.Page, pacer *Pacer) error {
	width, height := 1280, 800
	if viewportSize := page.ViewportSize(); viewportSize != nil {
		width, height = viewportSize.Width, viewportSize.Height
	}
	// Move mouse to random coordinates a few times
	for i := 0; i < 3; i++ {
		x := pacer.intn(width)
		y := pacer.intn(height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := pacer.RandomDelay(ctx, Range{Min: 100 * time.Millisecond, Max: 300 * time.Millisecond}); err != nil {
			return err
		}
	}
	return nil
}
