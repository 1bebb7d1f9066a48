// Package throttle keeps a durable log of completed runs and gates new runs
// against a rolling-window quota.
package throttle

import (
	"fmt"
	"log"
	"sort"
	"time"
)

// DefaultWindow is the trailing span the quota is measured over.
const DefaultWindow = 7 * 24 * time.Hour

type Config struct {
	MaxRuns   int
	Window    time.Duration
	StorePath string
}

type Throttle struct {
	cfg   Config
	store *Store
	now   func() time.Time
}

type Option func(*Throttle)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Throttle) {
		t.now = now
	}
}

func New(cfg Config, opts ...Option) (*Throttle, error) {
	if cfg.MaxRuns <= 0 {
		return nil, fmt.Errorf("throttle: max runs must be positive, got %d", cfg.MaxRuns)
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.StorePath == "" {
		return nil, fmt.Errorf("throttle: store path is required")
	}

	t := &Throttle{
		cfg:   cfg,
		store: NewStore(cfg.StorePath),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MayRun reports whether fewer than MaxRuns invocations fall inside the
// window ending now. It never writes.
func (t *Throttle) MayRun() (bool, error) {
	entries, err := t.store.Load()
	if err != nil {
		return false, err
	}
	used := len(inWindow(entries, t.now(), t.cfg.Window))
	return used < t.cfg.MaxRuns, nil
}

// RecordRun appends the current time to the log.
// Call it at most once per run, after MayRun allowed it.
func (t *Throttle) RecordRun() error {
	now := t.now()
	entries, err := t.store.Append(now)
	if err != nil {
		return err
	}
	log.Printf("📝 Recorded run at %s (%d/%d in window)", now.Format(time.RFC3339),
		len(inWindow(entries, now, t.cfg.Window)), t.cfg.MaxRuns)
	return nil
}

type Status struct {
	Used      int
	Max       int
	Remaining int
	Total     int
	Window    time.Duration
	// NextAvailable is the earliest moment MayRun turns true again.
	// It equals the observation time when a slot is already free.
	NextAvailable time.Time
}

// Status summarizes the quota without touching the log.
func (t *Throttle) Status() (Status, error) {
	entries, err := t.store.Load()
	if err != nil {
		return Status{}, err
	}
	now := t.now()
	recent := inWindow(entries, now, t.cfg.Window)

	st := Status{
		Used:          len(recent),
		Max:           t.cfg.MaxRuns,
		Total:         len(entries),
		Window:        t.cfg.Window,
		NextAvailable: now,
	}
	if st.Used < st.Max {
		st.Remaining = st.Max - st.Used
		return st, nil
	}

	sort.Slice(recent, func(i, j int) bool { return recent[i].Before(recent[j]) })
	// A slot frees when the (Used-Max+1)th oldest entry leaves the window.
	st.NextAvailable = recent[st.Used-st.Max].Add(t.cfg.Window)
	return st, nil
}

// inWindow keeps entries younger than window. An entry exactly window old has
// expired. Future entries (clock skew) count as recent.
func inWindow(entries []time.Time, now time.Time, window time.Duration) []time.Time {
	var recent []time.Time
	for _, ts := range entries {
		if now.Sub(ts) < window {
			recent = append(recent, ts)
		}
	}
	return recent
}
