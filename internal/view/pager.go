package view

import (
	"context"
	"fmt"
	"sync"

	"git-away/internal/application/dto"
)

// Lister fetches one page of repositories
type Lister interface {
	ListRepositories(ctx context.Context, page, perPage int) (*dto.RepositoryPageResponse, error)
}

// Pager loads repository pages into a list strictly one at a time and
// enriches the list after every page
type Pager struct {
	mu       sync.Mutex
	lister   Lister
	list     *RepositoryList
	enricher *Enricher
	perPage  int
	loaded   int
	hasMore  bool
}

// NewPager creates a Pager. A nil enricher leaves enrichment to the caller.
func NewPager(lister Lister, list *RepositoryList, enricher *Enricher, perPage int) *Pager {
	return &Pager{
		lister:   lister,
		list:     list,
		enricher: enricher,
		perPage:  perPage,
		hasMore:  true,
	}
}

// Next loads the next page. Concurrent calls wait for each other. It
// returns how many repositories were added.
func (p *Pager) Next(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasMore {
		return 0, nil
	}

	page := p.loaded + 1
	resp, err := p.lister.ListRepositories(ctx, page, p.perPage)
	if err != nil {
		return 0, fmt.Errorf("failed to load page %d: %w", page, err)
	}

	added := p.list.Append(resp.Repos)
	p.loaded = page
	p.hasMore = resp.HasMore

	if p.enricher != nil {
		if _, err := p.enricher.Run(ctx, p.list); err != nil {
			return added, err
		}
	}
	return added, nil
}

// Load loads pages until pages are loaded or no more are available
func (p *Pager) Load(ctx context.Context, pages int) error {
	for p.Loaded() < pages && p.HasMore() {
		if _, err := p.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}

// HasMore reports whether the last page came back full
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loaded returns the number of pages loaded
func (p *Pager) Loaded() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// List returns the list the pager fills
func (p *Pager) List() *RepositoryList {
	return p.list
}
