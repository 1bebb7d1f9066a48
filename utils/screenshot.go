package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger saves full-page screenshots when a session step fails.
// An empty output dir disables it.
type ScreenShotDebugger struct {
	outputDir string
	now       func() time.Time
}

func NewScreenShotDebugger(outputDir string) *ScreenShotDebugger {
	return &ScreenShotDebugger{
		outputDir: outputDir,
		now:       time.Now,
	}
}

func (s *ScreenShotDebugger) Enabled() bool {
	return s != nil && s.outputDir != ""
}

// Filename builds a stable, filesystem-safe name for a capture.
func (s *ScreenShotDebugger) Filename(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	timestamp := s.now().Format("2006-01-02_15-04-05")
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", safe, timestamp))
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if !s.Enabled() || page == nil {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return err
	}
	path := s.Filename(name)
	log.Printf("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	log.Printf("   Screenshot saved: %s", path)
	return nil
}
