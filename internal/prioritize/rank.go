package prioritize

import (
	"sort"

	"github.com/jobsift/jobsift/internal/models"
)

// Rank returns a new slice ordered by final score descending. Ties break
// on skills_match descending, then extraction timestamp descending so
// fresher postings surface first.
func Rank(jobs []models.JobPosting) []models.JobPosting {
	ranked := make([]models.JobPosting, len(jobs))
	copy(ranked, jobs)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		as, bs := finalScore(a), finalScore(b)
		if as != bs {
			return as > bs
		}
		ak, bk := a.ComponentScore("skills_match"), b.ComponentScore("skills_match")
		if ak != bk {
			return ak > bk
		}
		return a.Metadata.ExtractionTimestamp.After(b.Metadata.ExtractionTimestamp)
	})
	return ranked
}

// Top ranks the full set and returns the first n entries. Ranking always
// runs over everything; n only truncates the result.
func Top(jobs []models.JobPosting, n int) []models.JobPosting {
	ranked := Rank(jobs)
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func finalScore(job models.JobPosting) float64 {
	if job.Priority == nil {
		return -1
	}
	return job.Priority.FinalScore
}