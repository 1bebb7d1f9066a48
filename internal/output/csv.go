// Package output writes the collected postings to a CSV table.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"legitapply/internal/scraper"
	"legitapply/utils"
)

var Header = []string{"title", "company", "location", "status", "link", "search_keyword", "search_location"}

// WriteCSV replaces the file at path with a header and one row per posting.
// The parent directory is created when missing.
func WriteCSV(path string, postings []scraper.Posting) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header to CSV: %w", err)
	}
	for _, p := range postings {
		record := []string{p.Title, p.Company, p.Location, p.Status, p.Link, p.SearchKeyword, p.SearchLocation}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record to CSV: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write CSV file %s: %w", path, err)
	}
	return nil
}
