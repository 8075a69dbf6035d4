// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

// pageSize caps every collection requested from GitHub. Results beyond the
// first page are not fetched.
const pageSize = 100

// ErrUserNotFound is returned when the GraphQL API resolves no user for a login.
var ErrUserNotFound = errors.New("github user not found")

// Repository identifies a repository by owner login and name.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepoPopularity holds the star and fork counts of one owned repository.
type RepoPopularity struct {
	Stars int
	Forks int
}

// Contributions is the decoded payload of the contribution query.
type Contributions struct {
	TotalCommits      int
	TotalIssues       int
	TotalPRs          int
	TotalReviews      int
	TotalReposContrib int

	// PullRequests carries the line counts of up to 100 pull request contributions.
	PullRequests []domain.LineStats
	// OwnedRepos carries up to 100 repositories owned by the user.
	OwnedRepos []RepoPopularity
}

// Fetcher defines the behavior of a gateway session for fetching information from GitHub.
// A Fetcher must be closed once the fetch it serves is over.
type Fetcher interface {
	FetchContributions(ctx context.Context, username string, window domain.Window) (*Contributions, error)
	ListRepositories(ctx context.Context, username string) ([]Repository, error)
	ListCommits(ctx context.Context, repo Repository, author string, since time.Time) ([]string, error)
	FetchCommitStats(ctx context.Context, repo Repository, sha string) (domain.LineStats, error)
	Close() error
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// Each instance owns its own connection pool.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	transport     *http.Transport
	timeout       time.Duration
	logger        *zap.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// contributionsQuery fetches the counters, PR line counts and owned repository popularity in one round trip.
type contributionsQuery struct {
	User *struct {
		ContributionsCollection struct {
			TotalCommitContributions                int
			TotalIssueContributions                 int
			TotalPullRequestContributions           int
			TotalPullRequestReviewContributions     int
			TotalRepositoriesWithContributedCommits int
			PullRequestContributions                struct {
				Edges []struct {
					Node struct {
						PullRequest struct {
							Additions int
							Deletions int
						}
					}
				}
			} `graphql:"pullRequestContributions(first: 100)"`
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
		Repositories struct {
			Edges []struct {
				Node struct {
					StargazerCount int
					ForkCount      int
				}
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: [OWNER])"`
	} `graphql:"user(login: $username)"`
}

// FetchContributions runs the contribution query for the given window.
func (g *GitHubGateway) FetchContributions(ctx context.Context, username string, window domain.Window) (_ *Contributions, err error) {
	defer g.logCall("POST graphql contributionsCollection", username, time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	variables := map[string]interface{}{
		"username": githubv4.String(username),
		"from":     githubv4.DateTime{Time: window.From},
		"to":       githubv4.DateTime{Time: window.To},
	}
	var q contributionsQuery
	if err = g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute contributions query: %w", err)
	}
	if q.User == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	cc := q.User.ContributionsCollection
	c := &Contributions{
		TotalCommits:      cc.TotalCommitContributions,
		TotalIssues:       cc.TotalIssueContributions,
		TotalPRs:          cc.TotalPullRequestContributions,
		TotalReviews:      cc.TotalPullRequestReviewContributions,
		TotalReposContrib: cc.TotalRepositoriesWithContributedCommits,
		PullRequests:      make([]domain.LineStats, 0, len(cc.PullRequestContributions.Edges)),
		OwnedRepos:        make([]RepoPopularity, 0, len(q.User.Repositories.Edges)),
	}
	for _, edge := range cc.PullRequestContributions.Edges {
		pr := edge.Node.PullRequest
		c.PullRequests = append(c.PullRequests, domain.LineStats{Additions: pr.Additions, Deletions: pr.Deletions})
	}
	for _, edge := range q.User.Repositories.Edges {
		c.OwnedRepos = append(c.OwnedRepos, RepoPopularity{Stars: edge.Node.StargazerCount, Forks: edge.Node.ForkCount})
	}
	return c, nil
}

// ListRepositories returns up to 100 of the user's repositories, most recently updated first.
func (g *GitHubGateway) ListRepositories(ctx context.Context, username string) (_ []Repository, err error) {
	defer g.logCall("GET /users/{username}/repos", username, time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	repos, _, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
	}

	result := make([]Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		owner := r.GetOwner().GetLogin()
		if owner == "" {
			owner = username
		}
		result = append(result, Repository{Owner: owner, Name: r.GetName()})
	}
	return result, nil
}

// ListCommits returns the SHAs of up to 100 commits in repo authored by author since the given time.
func (g *GitHubGateway) ListCommits(ctx context.Context, repo Repository, author string, since time.Time) (_ []string, err error) {
	defer g.logCall("GET /repos/{owner}/{repo}/commits", author, time.Now(), &err, zap.String("repo", repo.FullName()))
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of %s: %w", repo.FullName(), err)
	}

	shas := make([]string, 0, len(commits))
	for _, c := range commits {
		if sha := c.GetSHA(); sha != "" {
			shas = append(shas, sha)
		}
	}
	return shas, nil
}

// FetchCommitStats returns the added/deleted line counts of a single commit.
func (g *GitHubGateway) FetchCommitStats(ctx context.Context, repo Repository, sha string) (_ domain.LineStats, err error) {
	defer g.logCall("GET /repos/{owner}/{repo}/commits/{sha}", repo.Owner, time.Now(), &err,
		zap.String("repo", repo.FullName()), zap.String("sha", sha))
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	commit, _, err := g.restClient.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
	if err != nil {
		return domain.LineStats{}, fmt.Errorf("failed to get commit %s of %s: %w", sha, repo.FullName(), err)
	}
	stats := commit.GetStats()
	return domain.LineStats{Additions: stats.GetAdditions(), Deletions: stats.GetDeletions()}, nil
}

// Close releases the connections held by the session.
func (g *GitHubGateway) Close() error {
	g.transport.CloseIdleConnections()
	return nil
}

func (g *GitHubGateway) logCall(endpoint, username string, start time.Time, errp *error, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("endpoint", endpoint),
		zap.String("username", username),
		zap.Duration("duration", time.Since(start)),
	}, extra...)
	if err := *errp; err != nil {
		g.logger.Info("github call failed", append(fields, zap.String("outcome", "failure"), zap.Error(err))...)
		return
	}
	g.logger.Debug("github call succeeded", append(fields, zap.String("outcome", "success"))...)
}
