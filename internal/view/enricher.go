package view

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"git-away/internal/application/dto"
	apperrors "git-away/internal/errors"
)

// Defaults for the enricher
const (
	DefaultGroupSize     = 5
	DefaultFetchTimeout  = 10 * time.Second
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = 200 * time.Millisecond
)

// CommitFetcher fetches the last commit of one repository branch
type CommitFetcher interface {
	GetLastCommit(ctx context.Context, owner, name, branch string) (*dto.LastCommitResponse, error)
}

// Stats counts how the repositories of one run settled
type Stats struct {
	Enriched int
	Absent   int
	Released int
	Failed   int
}

// Enricher attaches commit summaries to the pending repositories of a list.
// Repositories are fetched in groups: every fetch of a group runs
// concurrently and the next group starts once the whole group settled.
// At most groupSize fetches are in flight at once, across concurrent runs.
type Enricher struct {
	fetcher       CommitFetcher
	slots         *semaphore.Weighted
	groupSize     int
	fetchTimeout  time.Duration
	retryAttempts uint
	retryDelay    time.Duration
}

// EnricherOption configures an Enricher
type EnricherOption func(*Enricher)

// WithGroupSize sets how many fetches run at once
func WithGroupSize(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.groupSize = n
		}
	}
}

// WithFetchTimeout bounds each fetch attempt
func WithFetchTimeout(d time.Duration) EnricherOption {
	return func(e *Enricher) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithRetry sets the attempts and initial backoff of one fetch within a run
func WithRetry(attempts uint, delay time.Duration) EnricherOption {
	return func(e *Enricher) {
		if attempts > 0 {
			e.retryAttempts = attempts
		}
		e.retryDelay = delay
	}
}

// NewEnricher creates an Enricher over fetcher
func NewEnricher(fetcher CommitFetcher, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		fetcher:       fetcher,
		groupSize:     DefaultGroupSize,
		fetchTimeout:  DefaultFetchTimeout,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.slots = semaphore.NewWeighted(int64(e.groupSize))
	return e
}

// Run enriches every repository of list that is pending when Run starts.
// A failed fetch never affects the other members of its group. Run only
// returns an error when ctx ends; remaining repositories stay Unfetched.
func (e *Enricher) Run(ctx context.Context, list *RepositoryList) (Stats, error) {
	var stats Stats
	pending := list.Pending()

	for start := 0; start < len(pending); start += e.groupSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := min(start+e.groupSize, len(pending))
		results := make([]outcome, end-start)

		var g errgroup.Group
		for i, target := range pending[start:end] {
			if !list.Claim(target.ID) {
				continue
			}
			g.Go(func() error {
				if err := e.slots.Acquire(ctx, 1); err != nil {
					list.Release(target.ID, false)
					return nil
				}
				defer e.slots.Release(1)

				results[i] = e.settle(ctx, list, target)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			stats.add(r, list)
		}
	}

	return stats, ctx.Err()
}

type outcome struct {
	id      int64
	settled bool
	absent  bool
	failed  bool
}

func (s *Stats) add(o outcome, list *RepositoryList) {
	switch {
	case !o.settled:
	case o.failed:
		if status, _ := list.Status(o.id); status == Failed {
			s.Failed++
		} else {
			s.Released++
		}
	case o.absent:
		s.Enriched++
		s.Absent++
	default:
		s.Enriched++
	}
}

func (e *Enricher) settle(ctx context.Context, list *RepositoryList, target Target) outcome {
	commit, err := e.fetch(ctx, target)
	if err != nil {
		// a cancelled run does not use up an attempt
		list.Release(target.ID, ctx.Err() == nil)
		log.Ctx(ctx).Debug().Err(err).
			Str("repository", target.Owner+"/"+target.Name).
			Msg("Commit enrichment failed")
		return outcome{id: target.ID, settled: true, failed: true}
	}

	list.Complete(target.ID, commit)
	return outcome{id: target.ID, settled: true, absent: commit == nil}
}

func (e *Enricher) fetch(ctx context.Context, target Target) (*dto.CommitSummaryResponse, error) {
	var commit *dto.CommitSummaryResponse

	err := retry.Do(
		func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()

			resp, err := e.fetcher.GetLastCommit(fetchCtx, target.Owner, target.Name, target.Branch)
			if err != nil {
				return err
			}
			if resp != nil {
				commit = resp.LastCommit
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(e.retryAttempts),
		retry.Delay(e.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	return commit, err
}

// retryable reports whether another attempt could succeed
func retryable(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeUnauthenticated,
		apperrors.ErrCodeNotConnected,
		apperrors.ErrCodeAuthExpired,
		apperrors.ErrCodeBadRequest:
		return false
	}
	return true
}
