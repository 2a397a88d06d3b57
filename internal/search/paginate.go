package search

import "jobmate/search-service/internal/model"

// Page is one slice of a ranked list.
type Page struct {
	Postings   []model.JobPosting
	TotalJobs  int
	TotalPages int
	Current    int
}

// Paginate slices ranked into pages of pageSize, clamps page into
// [1, TotalPages] (1 when the list is empty) and caps the slice to
// FreeTierCap items when premium is false. A non-positive pageSize means
// DefaultPageSize.
func Paginate(ranked []model.JobPosting, page, pageSize int, premium bool) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(ranked)
	pages := (total + pageSize - 1) / pageSize

	current := min(max(page, 1), max(pages, 1))
	start := min((current-1)*pageSize, total)
	end := min(start+pageSize, total)

	out := ranked[start:end]
	if !premium && len(out) > FreeTierCap {
		out = out[:FreeTierCap]
	}
	return Page{
		Postings:   out,
		TotalJobs:  total,
		TotalPages: pages,
		Current:    current,
	}
}
