// Package domain contains the core data structures and domain logic for the application.
package domain

// LineStats is a pair of added/deleted line counts.
type LineStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Add returns the component-wise sum of s and o.
func (s LineStats) Add(o LineStats) LineStats {
	return LineStats{
		Additions: s.Additions + o.Additions,
		Deletions: s.Deletions + o.Deletions,
	}
}

// AnnualStats holds a user's contribution activity over one contribution window.
// It is the core domain entity of this application and is passed by value.
type AnnualStats struct {
	TotalCommits      int `json:"total_commits"`
	TotalIssues       int `json:"total_issues"`
	TotalPRs          int `json:"total_prs"`
	TotalReviews      int `json:"total_reviews"`
	TotalReposContrib int `json:"total_repos_contrib"`

	// Additions and Deletions are summed over pull request contributions.
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`

	// CommitAdditions and CommitDeletions are summed over individual commits.
	CommitAdditions int `json:"commit_additions"`
	CommitDeletions int `json:"commit_deletions"`

	TotalStars int `json:"total_stars"`
	TotalForks int `json:"total_forks"`
}
