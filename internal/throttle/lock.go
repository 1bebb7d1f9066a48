package throttle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock takes an exclusive lock beside the request log and holds it until the
// returned function is called. It does not wait: a held lock is ErrRunInProgress.
func (t *Throttle) Lock() (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(t.cfg.StorePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create request log directory: %w", err)
	}

	fl := flock.New(t.cfg.StorePath + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock request log: %w", err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	return fl.Unlock, nil
}
