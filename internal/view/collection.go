package view

import (
	"sync"

	"git-away/internal/application/dto"
)

// Status is the enrichment state of one repository
type Status int

const (
	// Unfetched has no commit summary and no fetch in flight
	Unfetched Status = iota
	// Enriching has a fetch in flight
	Enriching
	// Enriched carries a commit summary or a confirmed absence of one
	Enriched
	// Failed ran out of attempts and is never fetched again
	Failed
)

func (s Status) String() string {
	switch s {
	case Unfetched:
		return "unfetched"
	case Enriching:
		return "enriching"
	case Enriched:
		return "enriched"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Target identifies one repository to enrich
type Target struct {
	ID     int64
	Owner  string
	Name   string
	Branch string
}

// Item is a point-in-time copy of one repository and its status
type Item struct {
	Repository dto.RepositoryResponse
	Status     Status
	Attempts   int
}

// HasCommit reports whether a commit summary is attached
func (i Item) HasCommit() bool {
	return i.Repository.LastCommit != nil
}

// Pending reports whether the repository has not settled yet
func (i Item) Pending() bool {
	return i.Status == Unfetched || i.Status == Enriching
}

type entry struct {
	repo     dto.RepositoryResponse
	status   Status
	attempts int
}

// RepositoryList owns the repositories of one view, in listing order.
// Status only changes through Claim, Complete and Release. Safe for
// concurrent use.
type RepositoryList struct {
	mu          sync.Mutex
	order       []int64
	entries     map[int64]*entry
	maxAttempts int
}

// NewRepositoryList creates an empty list. A repository whose fetch failed
// maxAttempts times becomes Failed.
func NewRepositoryList(maxAttempts int) *RepositoryList {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RepositoryList{
		entries:     make(map[int64]*entry),
		maxAttempts: maxAttempts,
	}
}

// Append adds the repositories of a newly fetched page after the existing
// ones. A repository already in the list keeps its position, status and
// commit summary; only its listing fields are refreshed. It returns how many
// repositories were new.
func (l *RepositoryList) Append(repos []*dto.RepositoryResponse) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, r := range repos {
		if r == nil {
			continue
		}
		if e, ok := l.entries[r.ID]; ok {
			lastCommit := e.repo.LastCommit
			e.repo = *r
			switch {
			case lastCommit != nil || e.status == Enriched:
				e.repo.LastCommit = lastCommit
			case r.LastCommit != nil && e.status != Enriching:
				e.status = Enriched
			default:
				e.repo.LastCommit = nil
			}
			continue
		}

		e := &entry{repo: *r}
		if r.LastCommit != nil {
			e.status = Enriched
		}
		l.entries[r.ID] = e
		l.order = append(l.order, r.ID)
		added++
	}
	return added
}

// Pending returns the Unfetched repositories in listing order
func (l *RepositoryList) Pending() []Target {
	l.mu.Lock()
	defer l.mu.Unlock()

	var targets []Target
	for _, id := range l.order {
		e := l.entries[id]
		if e.status != Unfetched {
			continue
		}
		targets = append(targets, Target{
			ID:     id,
			Owner:  e.repo.Owner.Login,
			Name:   e.repo.Name,
			Branch: e.repo.Branch(),
		})
	}
	return targets
}

// Claim moves an Unfetched repository to Enriching. It reports false, and
// changes nothing, for any other status or an unknown id.
func (l *RepositoryList) Claim(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok || e.status != Unfetched {
		return false
	}
	e.status = Enriching
	return true
}

// Complete settles an Enriching repository with its commit summary. A nil
// summary records that the repository has no commit information.
func (l *RepositoryList) Complete(id int64, commit *dto.CommitSummaryResponse) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok || e.status != Enriching {
		return
	}
	e.repo.LastCommit = commit
	e.status = Enriched
}

// Release settles an Enriching repository without a result. When counted,
// the failure uses up one attempt; the last attempt makes it Failed.
func (l *RepositoryList) Release(id int64, counted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok || e.status != Enriching {
		return
	}
	e.status = Unfetched
	if counted {
		e.attempts++
		if e.attempts >= l.maxAttempts {
			e.status = Failed
		}
	}
}

// Status returns the status of one repository
func (l *RepositoryList) Status(id int64) (Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return Unfetched, false
	}
	return e.status, true
}

// Len returns the number of repositories
func (l *RepositoryList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// Snapshot copies the list in order
func (l *RepositoryList) Snapshot() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]Item, len(l.order))
	for i, id := range l.order {
		e := l.entries[id]
		items[i] = Item{Repository: e.repo, Status: e.status, Attempts: e.attempts}
	}
	return items
}
