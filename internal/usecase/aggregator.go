// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/gateway"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the contribution query fails and no stats can be produced.
var ErrUnavailable = errors.New("github stats unavailable")

// Aggregator is the use case for aggregating a user's annual GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	connector   gateway.Connector
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithConcurrency sets how many repositories the commit fan-out processes at once.
// A value of 1 processes them strictly one after another.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock replaces the time source used to compute the contribution window.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(connector gateway.Connector, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		connector:   connector,
		concurrency: 1,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchAnnualStats performs the main business logic.
// It returns an error wrapping ErrUnavailable when the contribution query fails,
// domain.ErrInvalidUsername for unusable input and the context error when ctx ends
// before the stats are complete. Commit fan-out failures only under-report the
// commit line counters.
func (a *Aggregator) FetchAnnualStats(ctx context.Context, username string) (domain.AnnualStats, error) {
	username, err := domain.NormalizeUsername(username)
	if err != nil {
		return domain.AnnualStats{}, err
	}
	window := domain.TrailingYear(a.now())
	logger := a.logger.With(zap.String("username", username))
	logger.Info("Usecase: Starting annual stats aggregation...")

	fetcher, err := a.connector.Open()
	if err != nil {
		return domain.AnnualStats{}, fmt.Errorf("%w: opening github session: %w", ErrUnavailable, err)
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			logger.Warn("closing github session", zap.Error(cerr))
		}
	}()

	contributions, err := fetcher.FetchContributions(ctx, username, window)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.AnnualStats{}, ctxErr
		}
		logger.Warn("contribution query failed", zap.Error(err))
		return domain.AnnualStats{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	prLines := sumLines(contributions.PullRequests)
	stars, forks := sumPopularity(contributions.OwnedRepos)

	commitLines := a.commitLines(ctx, fetcher, username, window.From, logger)
	if err := ctx.Err(); err != nil {
		return domain.AnnualStats{}, err
	}

	logger.Info("Usecase: Aggregation complete.")
	return domain.AnnualStats{
		TotalCommits:      contributions.TotalCommits,
		TotalIssues:       contributions.TotalIssues,
		TotalPRs:          contributions.TotalPRs,
		TotalReviews:      contributions.TotalReviews,
		TotalReposContrib: contributions.TotalReposContrib,
		Additions:         prLines.Additions,
		Deletions:         prLines.Deletions,
		CommitAdditions:   commitLines.Additions,
		CommitDeletions:   commitLines.Deletions,
		TotalStars:        stars,
		TotalForks:        forks,
	}, nil
}

func sumLines(lines []domain.LineStats) domain.LineStats {
	var total domain.LineStats
	for _, l := range lines {
		total = total.Add(l)
	}
	return total
}

func sumPopularity(repos []gateway.RepoPopularity) (stars, forks int) {
	for _, r := range repos {
		stars += r.Stars
		forks += r.Forks
	}
	return stars, forks
}
