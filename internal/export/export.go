// Package export renders job postings for the terminal and for files.
// The csv format reuses the canonical persistence schema so exported
// files can be fed back into the top command.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jobsift/jobsift/internal/models"
	"github.com/jobsift/jobsift/internal/store"
	"github.com/jobsift/jobsift/internal/ui"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

type WriteOptions struct {
	UI         *ui.UI
	ShowScores bool
}

func WriteJobs(w io.Writer, jobs []models.JobPosting, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',', opts)
	case FormatTSV:
		return writeCSV(w, jobs, '\t', opts)
	case FormatMarkdown:
		return writeMarkdown(w, jobs, opts)
	default:
		return writeTable(w, jobs, opts)
	}
}

func writeJSON(w io.Writer, jobs []models.JobPosting) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

func writeCSV(w io.Writer, jobs []models.JobPosting, delim rune, opts WriteOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(store.Columns(opts.ShowScores)); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(store.Row(job, opts.ShowScores)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.JobPosting, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(opts.ShowScores), "\t"))
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.JobPosting, opts WriteOptions) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(positionOf(job)), safe(companyOf(job))),
			fmt.Sprintf("  Location: %s", safe(locationOf(job))),
		}
		if opts.ShowScores && job.Scored() {
			lines = append(lines,
				fmt.Sprintf("  Score: %.2f (%s)", job.Priority.FinalScore, job.Priority.Tier))
		}
		if raw := safe(job.Compensation.RawText); raw != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", raw))
		}
		if len(job.Requirements.Skills) > 0 {
			lines = append(lines, fmt.Sprintf("  Skills: %s", strings.Join(job.Requirements.Skills, ", ")))
		}
		if d := safe(job.Application.Deadline); d != "" {
			lines = append(lines, fmt.Sprintf("  Deadline: %s", d))
		}
		if link := safe(job.Application.ApplyLink); link != "" {
			lines = append(lines, fmt.Sprintf("  Apply: [link](<%s>)", link))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func tableHeader(scored bool) []string {
	if scored {
		return []string{"score", "tier", "company", "position", "location", "salary", "deadline", "apply"}
	}
	return []string{"company", "position", "location", "skills", "salary", "deadline", "apply"}
}

func tableRow(job models.JobPosting, opts WriteOptions) []string {
	salary := safe(job.Compensation.RawText)
	if salary == "" {
		salary = "-"
	}
	deadline := safe(job.Application.Deadline)
	if deadline == "" {
		deadline = "-"
	}
	apply := safe(job.Application.ApplyLink)
	if apply == "" {
		apply = "-"
	} else if opts.UI != nil {
		apply = opts.UI.LinkText(apply)
	}

	base := []string{
		orDash(companyOf(job)),
		orDash(positionOf(job)),
		orDash(locationOf(job)),
	}
	if opts.ShowScores {
		score, tier := "-", "-"
		if job.Scored() {
			score = fmt.Sprintf("%.2f", job.Priority.FinalScore)
			tier = job.Priority.Tier
			if opts.UI != nil {
				tier = opts.UI.TierText(tier)
			}
		}
		return append([]string{score, tier}, append(base, salary, deadline, apply)...)
	}
	skills := fmt.Sprintf("%d", len(job.Requirements.Skills))
	return append(base, skills, salary, deadline, apply)
}

func companyOf(job models.JobPosting) string {
	if job.Company.Canonical != "" {
		return job.Company.Canonical
	}
	return job.Company.RawName
}

func positionOf(job models.JobPosting) string {
	return job.Position.Title
}

func locationOf(job models.JobPosting) string {
	city := safe(job.Location.City)
	if city == "" {
		if job.Location.WorkMode == models.WorkModeRemote {
			return "remote"
		}
		return ""
	}
	if job.Location.State != "" {
		return city + ", " + job.Location.State
	}
	return city
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func orDash(value string) string {
	if value = safe(value); value == "" {
		return "-"
	}
	return value
}
