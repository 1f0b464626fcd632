package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/rs/zerolog/log"

	"git-away/internal/domain/repo"
	apperrors "git-away/internal/errors"
	"git-away/internal/github"
)

const provider = "github"

// GitHubServiceImpl implements the domain repo.HostingService interface
type GitHubServiceImpl struct {
	client *github.Client
}

// NewGitHubService creates a new GitHub service implementation
func NewGitHubService(client *github.Client) *GitHubServiceImpl {
	return &GitHubServiceImpl{client: client}
}

var _ repo.HostingService = (*GitHubServiceImpl)(nil)

// ListRepositories fetches one page of the token owner's repositories
func (g *GitHubServiceImpl) ListRepositories(ctx context.Context, accessToken string, page repo.Page) ([]*repo.Repository, error) {
	ghRepos, err := g.client.ListRepositories(ctx, accessToken, page.Number, page.PerPage)
	if err != nil {
		if github.StatusCode(err) == http.StatusUnauthorized {
			return nil, apperrors.NewAuthExpiredError(provider, err)
		}
		upstream := apperrors.NewUpstreamError(fmt.Sprintf("Failed to fetch repositories: %s", github.Message(err)), err)
		if github.IsRateLimited(err) {
			upstream.Reason = apperrors.ReasonRateLimited
		}
		return nil, upstream
	}

	repos := make([]*repo.Repository, 0, len(ghRepos))
	for _, r := range ghRepos {
		if r == nil {
			continue
		}
		repos = append(repos, toDomainRepository(r))
	}
	return repos, nil
}

// GetLastCommit returns the newest commit on branch. Upstream failures
// degrade to nil so a missing commit never blocks the repository list.
func (g *GitHubServiceImpl) GetLastCommit(ctx context.Context, accessToken string, slug repo.Slug, branch string) (*repo.CommitSummary, error) {
	summary, err := g.lastCommit(ctx, accessToken, slug, repo.BranchOrDefault(branch))
	if err == nil {
		return summary, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	event := log.Warn()
	if apperrors.Is(err, apperrors.ErrCodeEnrichmentMiss) && isEmptyRepo(err) {
		event = log.Debug()
	}
	event.Err(err).
		Str("repository", slug.String()).
		Str("branch", branch).
		Msg("No last commit available")
	return nil, nil
}

func (g *GitHubServiceImpl) lastCommit(ctx context.Context, accessToken string, slug repo.Slug, branch string) (*repo.CommitSummary, error) {
	commit, err := g.client.LatestCommit(ctx, accessToken, slug.Owner(), slug.Name(), branch)
	if err != nil {
		switch {
		case github.StatusCode(err) == http.StatusConflict:
			return nil, apperrors.NewEnrichmentMissError(apperrors.ReasonEmptyRepo, err)
		case github.IsRateLimited(err):
			return nil, apperrors.NewEnrichmentMissError(apperrors.ReasonRateLimited, err)
		default:
			return nil, apperrors.NewEnrichmentMissError("", err)
		}
	}
	if commit == nil {
		return nil, nil
	}

	author := commit.GetCommit().GetAuthor()
	return repo.NewCommitSummary(commit.GetCommit().GetMessage(), author.GetName(), author.GetDate().Time), nil
}

// CreateWebhook registers a push webhook on the repository
func (g *GitHubServiceImpl) CreateWebhook(ctx context.Context, accessToken string, slug repo.Slug, cfg repo.WebhookConfig) (*repo.Webhook, error) {
	hook, err := g.client.CreatePushHook(ctx, accessToken, slug.Owner(), slug.Name(), cfg.URL, cfg.Secret)
	if err != nil {
		switch github.StatusCode(err) {
		case http.StatusUnauthorized:
			return nil, apperrors.NewAuthExpiredError(provider, err)
		case http.StatusForbidden:
			return nil, apperrors.NewForbiddenError("Insufficient permissions. Need admin access to create webhooks.", err)
		case http.StatusNotFound:
			return nil, apperrors.NewNotFoundError("Repository not found or you don't have access.", err)
		case http.StatusUnprocessableEntity:
			return nil, apperrors.NewValidationFailedError("Webhook already exists or validation failed.", err)
		default:
			return nil, apperrors.NewUpstreamError(fmt.Sprintf("Failed to create webhook: %s", github.Message(err)), err)
		}
	}

	return &repo.Webhook{
		ID:          hook.GetID(),
		Active:      hook.GetActive(),
		URL:         hook.GetConfig().GetURL(),
		ContentType: hook.GetConfig().GetContentType(),
	}, nil
}

// DeleteWebhook removes a webhook; one that is already gone counts as deleted
func (g *GitHubServiceImpl) DeleteWebhook(ctx context.Context, accessToken string, slug repo.Slug, hookID int64) error {
	err := g.client.DeleteHook(ctx, accessToken, slug.Owner(), slug.Name(), hookID)
	if err == nil {
		return nil
	}

	switch github.StatusCode(err) {
	case http.StatusNotFound:
		return nil
	case http.StatusUnauthorized:
		return apperrors.NewAuthExpiredError(provider, err)
	default:
		return apperrors.NewUpstreamError(fmt.Sprintf("Failed to delete webhook: %s", github.Message(err)), err)
	}
}

func isEmptyRepo(err error) bool {
	return apperrors.HasReason(err, apperrors.ReasonEmptyRepo)
}

func toDomainRepository(r *gh.Repository) *repo.Repository {
	updatedAt := r.GetUpdatedAt().Time
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	return &repo.Repository{
		ID:       r.GetID(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		Owner: repo.Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
		Description:   r.Description,
		Private:       r.GetPrivate(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		UpdatedAt:     updatedAt,
	}
}
