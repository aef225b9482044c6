package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/models"
)

// listSeparator delimits multi-value cells (skills, education).
const listSeparator = "; "

// baseColumns is the fixed tabular schema. Order is part of the output
// contract; never reorder.
var baseColumns = []string{
	"job_id",
	"email_id",
	"company_name",
	"company_canonical",
	"company_confidence",
	"position_title",
	"position_level",
	"position_confidence",
	"skills_required",
	"skills_count",
	"education_required",
	"experience_min_years",
	"experience_max_years",
	"experience_type",
	"location_city",
	"location_state",
	"work_mode",
	"location_confidence",
	"salary_min",
	"salary_max",
	"salary_currency",
	"salary_period",
	"salary_raw_text",
	"salary_confidence",
	"application_deadline",
	"apply_link",
	"contact_email",
	"completeness_score",
	"low_completeness",
	"extraction_timestamp",
	"source_subject",
}

// Columns returns the CSV header, with the priority columns appended for
// scored outputs: final score, tier, then one column per component.
func Columns(scored bool) []string {
	if !scored {
		return baseColumns
	}
	cols := make([]string, 0, len(baseColumns)+2+len(models.ComponentNames))
	cols = append(cols, baseColumns...)
	cols = append(cols, "final_priority_score", "priority_tier")
	for _, name := range models.ComponentNames {
		cols = append(cols, "score_"+name)
	}
	return cols
}

func writeCSVFile(path string, jobs []models.JobPosting, scored bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns(scored)); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := w.Write(Row(job, scored)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// Row flattens one job posting into the fixed column order. Every field
// except component_scores round-trips through ParseRow unchanged;
// component scores flatten into their named columns.
func Row(job models.JobPosting, scored bool) []string {
	row := []string{
		job.JobID,
		job.EmailID,
		job.Company.RawName,
		job.Company.Canonical,
		floatCell(job.Company.Confidence),
		job.Position.Title,
		job.Position.Level,
		floatCell(job.Position.Confidence),
		strings.Join(job.Requirements.Skills, listSeparator),
		strconv.Itoa(len(job.Requirements.Skills)),
		strings.Join(job.Requirements.Education, listSeparator),
		optionalFloatCell(job.Requirements.ExperienceMin),
		optionalFloatCell(job.Requirements.ExperienceMax),
		job.Requirements.ExperienceType,
		job.Location.City,
		job.Location.State,
		job.Location.WorkMode,
		floatCell(job.Location.Confidence),
		optionalFloatCell(job.Compensation.SalaryMin),
		optionalFloatCell(job.Compensation.SalaryMax),
		job.Compensation.Currency,
		job.Compensation.Period,
		job.Compensation.RawText,
		floatCell(job.Compensation.Confidence),
		job.Application.Deadline,
		job.Application.ApplyLink,
		job.Application.ContactEmail,
		floatCell(job.Metadata.CompletenessScore),
		strconv.FormatBool(job.Metadata.LowCompleteness),
		job.Metadata.ExtractionTimestamp.UTC().Format(time.RFC3339),
		job.Metadata.SourceSubject,
	}
	if !scored {
		return row
	}

	if job.Priority == nil {
		row = append(row, "", "")
		for range models.ComponentNames {
			row = append(row, "")
		}
		return row
	}
	row = append(row, floatCell(job.Priority.FinalScore), job.Priority.Tier)
	for _, name := range models.ComponentNames {
		row = append(row, floatCell(job.Priority.ComponentScores[name]))
	}
	return row
}

// ReadCSV reads a tabular output file back into job postings. The header
// decides whether priority columns are expected.
func ReadCSV(path string) ([]models.JobPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return []models.JobPosting{}, nil
	}

	scored := len(records[0]) > len(baseColumns)
	jobs := make([]models.JobPosting, 0, len(records)-1)
	for i, row := range records[1:] {
		job, err := ParseRow(row, scored)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// ParseRow is the inverse of Row.
func ParseRow(row []string, scored bool) (models.JobPosting, error) {
	want := len(Columns(scored))
	if len(row) != want {
		return models.JobPosting{}, fmt.Errorf("expected %d columns, got %d", want, len(row))
	}

	var job models.JobPosting
	job.JobID = row[0]
	job.EmailID = row[1]
	job.Company = models.Company{
		RawName:    row[2],
		Canonical:  row[3],
		Confidence: parseFloatCell(row[4]),
	}
	job.Position = models.Position{
		Title:      row[5],
		Level:      row[6],
		Confidence: parseFloatCell(row[7]),
	}
	job.Requirements = models.Requirements{
		Skills:         splitList(row[8]),
		Education:      splitList(row[10]),
		ExperienceMin:  parseOptionalFloat(row[11]),
		ExperienceMax:  parseOptionalFloat(row[12]),
		ExperienceType: row[13],
	}
	job.Location = models.Location{
		City:       row[14],
		State:      row[15],
		WorkMode:   row[16],
		Confidence: parseFloatCell(row[17]),
	}
	job.Compensation = models.Compensation{
		SalaryMin:  parseOptionalFloat(row[18]),
		SalaryMax:  parseOptionalFloat(row[19]),
		Currency:   row[20],
		Period:     row[21],
		RawText:    row[22],
		Confidence: parseFloatCell(row[23]),
	}
	job.Application = models.Application{
		Deadline:     row[24],
		ApplyLink:    row[25],
		ContactEmail: row[26],
	}
	job.Metadata = models.Metadata{
		CompletenessScore: parseFloatCell(row[27]),
		LowCompleteness:   row[28] == "true",
		SourceSubject:     row[30],
	}
	if ts, err := time.Parse(time.RFC3339, row[29]); err == nil {
		job.Metadata.ExtractionTimestamp = ts
	}

	if scored && row[31] != "" {
		p := &models.Priority{
			FinalScore:      parseFloatCell(row[31]),
			Tier:            row[32],
			ComponentScores: map[string]float64{},
		}
		for i, name := range models.ComponentNames {
			p.ComponentScores[name] = parseFloatCell(row[33+i])
		}
		job.Priority = p
	}
	return job, nil
}

func floatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func optionalFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return floatCell(*v)
}

func parseFloatCell(cell string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	return v
}

func parseOptionalFloat(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
