// Package ingest reads the email corpus feeding the pipeline. Input may
// be a CSV export (message_id, subject, body, date columns) or a JSON
// array; HTML bodies are flattened to plain text before extraction.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jobsift/jobsift/internal/models"
)

var csvColumns = map[string]struct{}{
	"message_id": {},
	"subject":    {},
	"body":       {},
	"date":       {},
}

// dateLayouts tried in order when parsing the CSV date column.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Read loads the corpus at path, dispatching on extension (.csv or
// .json). Emails without a message id are dropped; duplicate message ids
// keep the first occurrence. Output order is input order.
func Read(path string) ([]models.SourceEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open emails input: %w", err)
	}
	defer f.Close()

	var emails []models.SourceEmail
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		emails, err = ReadCSV(f)
	case ".json":
		emails, err = ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported emails input format %q (want .csv or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return dedupe(emails), nil
}

// ReadCSV parses a CSV export. The header row names the columns; order
// is free and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]models.SourceEmail, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, known := csvColumns[name]; known {
			index[name] = i
		}
	}
	if _, ok := index["message_id"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "message_id")
	}

	var emails []models.SourceEmail
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		email := models.SourceEmail{
			ID:      cell(record, index, "message_id"),
			Subject: cell(record, index, "subject"),
			Body:    StripHTML(cell(record, index, "body")),
		}
		if raw := cell(record, index, "date"); raw != "" {
			if t, ok := parseDate(raw); ok {
				email.Date = t
			}
		}
		emails = append(emails, email)
	}
	return emails, nil
}

// ReadJSON parses a JSON array of emails.
func ReadJSON(r io.Reader) ([]models.SourceEmail, error) {
	var emails []models.SourceEmail
	dec := json.NewDecoder(r)
	if err := dec.Decode(&emails); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	for i := range emails {
		emails[i].Body = StripHTML(emails[i].Body)
	}
	return emails, nil
}

var htmlHint = regexp.MustCompile(`(?i)<\s*(html|body|div|p|br|table|span|a)\b`)

// StripHTML flattens an HTML body to plain text. Plain text bodies pass
// through untouched; block-level tags become line breaks so that field
// extraction still sees one statement per line.
func StripHTML(body string) string {
	if !htmlHint.MatchString(body) {
		return body
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	text := doc.Text()

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// IDs returns the sorted message ids of a corpus, the identity set the
// incremental tracker diffs against.
func IDs(emails []models.SourceEmail) []string {
	ids := make([]string, 0, len(emails))
	for _, e := range emails {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}

func dedupe(emails []models.SourceEmail) []models.SourceEmail {
	seen := make(map[string]struct{}, len(emails))
	out := emails[:0]
	for _, e := range emails {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func cell(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
