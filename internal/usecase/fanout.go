package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// outcome tags the result of one fallible fan-out step.
type outcome int

const (
	outcomeOK    outcome = iota
	outcomeSkip          // the item is dropped, the phase continues
	outcomeAbort         // the phase stops, accumulated totals are kept
)

// classify maps a step error to its outcome. Timeouts and cancellation
// abort the phase; every other failure skips the item.
func classify(ctx context.Context, err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case ctx.Err() != nil,
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return outcomeAbort
	default:
		return outcomeSkip
	}
}

// lineTally accumulates commit line counts across fan-out workers.
type lineTally struct {
	mu      sync.Mutex
	total   domain.LineStats
	commits int
	skipped int
}

func (t *lineTally) add(l domain.LineStats) {
	t.mu.Lock()
	t.total = t.total.Add(l)
	t.commits++
	t.mu.Unlock()
}

func (t *lineTally) skip() {
	t.mu.Lock()
	t.skipped++
	t.mu.Unlock()
}

func (t *lineTally) snapshot() (total domain.LineStats, commits, skipped int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, t.commits, t.skipped
}

// errPhaseAborted stops the worker group once a step has aborted.
var errPhaseAborted = errors.New("commit fan-out aborted")

// commitLines sums the additions and deletions of the user's commits since the
// given time. It never fails: any failure yields the totals gathered so far.
func (a *Aggregator) commitLines(ctx context.Context, fetcher gateway.Fetcher, username string, since time.Time, logger *zap.Logger) domain.LineStats {
	repos, err := fetcher.ListRepositories(ctx, username)
	if err != nil {
		logger.Warn("commit fan-out skipped: listing repositories failed", zap.Error(err))
		return domain.LineStats{}
	}

	var tally lineTally
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for _, repo := range repos {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			return a.repoLines(egCtx, fetcher, repo, username, since, &tally, logger)
		})
	}
	err = eg.Wait()

	total, commits, skipped := tally.snapshot()
	fields := []zap.Field{
		zap.Int("repos", len(repos)),
		zap.Int("commits", commits),
		zap.Int("skipped", skipped),
		zap.Int("commit_additions", total.Additions),
		zap.Int("commit_deletions", total.Deletions),
	}
	if err != nil {
		logger.Warn("commit fan-out aborted, keeping partial totals", fields...)
	} else {
		logger.Debug("commit fan-out complete", fields...)
	}
	return total
}

// repoLines folds the commits of one repository into the tally.
func (a *Aggregator) repoLines(ctx context.Context, fetcher gateway.Fetcher, repo gateway.Repository, username string, since time.Time, tally *lineTally, logger *zap.Logger) error {
	if ctx.Err() != nil {
		return errPhaseAborted
	}
	shas, err := fetcher.ListCommits(ctx, repo, username, since)
	switch classify(ctx, err) {
	case outcomeAbort:
		return errPhaseAborted
	case outcomeSkip:
		logger.Debug("skipping repository", zap.String("repo", repo.FullName()), zap.Error(err))
		return nil
	}

	for _, sha := range shas {
		if ctx.Err() != nil {
			return errPhaseAborted
		}
		lines, err := fetcher.FetchCommitStats(ctx, repo, sha)
		switch classify(ctx, err) {
		case outcomeAbort:
			return errPhaseAborted
		case outcomeSkip:
			logger.Debug("skipping commit", zap.String("repo", repo.FullName()), zap.String("sha", sha), zap.Error(err))
			tally.skip()
			continue
		}
		tally.add(lines)
	}
	return nil
}
