package throttle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"legitapply/utils"
)

// naive layouts cover logs written without a zone offset; they are read in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Store persists the invocation log as a JSON array of timestamp strings.
// The file is always read and written whole.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns every recorded invocation in file order.
// A missing or empty file is an empty log; anything unparseable is ErrCorruptLog.
func (s *Store) Load() ([]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read request log %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLog, s.path, err)
	}

	entries := make([]time.Time, 0, len(raw))
	for i, r := range raw {
		ts, err := parseTimestamp(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %d: %v", ErrCorruptLog, s.path, i, err)
		}
		entries = append(entries, ts)
	}
	return entries, nil
}

// Save replaces the whole log. The write goes through a temp file and a rename
// so a crash never leaves a torn log behind.
func (s *Store) Save(entries []time.Time) error {
	raw := make([]string, len(entries))
	for i, ts := range entries {
		raw[i] = ts.UTC().Format(time.RFC3339Nano)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal request log: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write request log %s: %w", s.path, err)
	}
	return nil
}

// Append loads the log, adds ts at the end and saves it back.
func (s *Store) Append(ts time.Time) ([]time.Time, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	entries = append(entries, ts)
	if err := s.Save(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
