// Package scraper ingests provider postings into the store on behalf of the
// scheduler.
package scraper

import (
	"strings"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

// ContainsRedFlag returns true if any red flag term appears anywhere in the
// combined title + company + description text. Case and accents are
// ignored.
//
// Called before every insert. A match means the posting is discarded.
func ContainsRedFlag(p model.JobPosting, redFlags []string) bool {
	if len(redFlags) == 0 {
		return false
	}
	combined := textutil.Fold(p.Title + " " + p.Company + " " + p.Description)
	for _, flag := range redFlags {
		flag = strings.TrimSpace(textutil.Fold(flag))
		if flag == "" {
			continue
		}
		if strings.Contains(combined, flag) {
			return true
		}
	}
	return false
}
