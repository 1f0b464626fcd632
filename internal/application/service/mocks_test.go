package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/repo"
	"git-away/internal/domain/session"
	"git-away/internal/domain/user"
)

// Mock implementations
type mockUserRepository struct {
	users       map[string]*user.User
	emailIndex  map[string]*user.User
	shouldError bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*user.User),
		emailIndex: make(map[string]*user.User),
	}
}

func (m *mockUserRepository) Save(ctx context.Context, usr *user.User) error {
	if m.shouldError {
		return errors.New("repository error")
	}
	m.users[usr.ID().String()] = usr
	m.emailIndex[usr.Email().String()] = usr
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id user.UserID) (*user.User, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	usr, ok := m.users[id.String()]
	if !ok {
		return nil, user.ErrUserNotFound(id.String())
	}
	return usr, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	usr, ok := m.emailIndex[email.String()]
	if !ok {
		return nil, user.ErrUserNotFound(email.String())
	}
	return usr, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id user.UserID) error {
	if m.shouldError {
		return errors.New("repository error")
	}
	if usr, ok := m.users[id.String()]; ok {
		delete(m.emailIndex, usr.Email().String())
	}
	delete(m.users, id.String())
	return nil
}

type mockAccountRepository struct {
	accounts    map[string]*account.Account
	saves       int
	shouldError bool
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{accounts: make(map[string]*account.Account)}
}

func accountKey(userID user.UserID, provider account.ProviderID) string {
	return userID.String() + "/" + provider.String()
}

func (m *mockAccountRepository) Save(ctx context.Context, acc *account.Account) error {
	if m.shouldError {
		return errors.New("repository error")
	}
	m.saves++
	m.accounts[accountKey(acc.UserID(), acc.Provider())] = acc
	return nil
}

func (m *mockAccountRepository) FindByUserAndProvider(ctx context.Context, userID user.UserID, provider account.ProviderID) (*account.Account, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	acc, ok := m.accounts[accountKey(userID, provider)]
	if !ok {
		return nil, account.ErrAccountNotFound(userID.String(), provider)
	}
	return acc, nil
}

func (m *mockAccountRepository) FindByProviderAccount(ctx context.Context, provider account.ProviderID, accountID string) (*account.Account, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	for _, acc := range m.accounts {
		if acc.Provider() == provider && acc.AccountID() == accountID {
			return acc, nil
		}
	}
	return nil, account.ErrAccountNotFound("", provider)
}

func (m *mockAccountRepository) ListByUser(ctx context.Context, userID user.UserID) ([]*account.Account, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	var result []*account.Account
	for _, provider := range account.Providers {
		if acc, ok := m.accounts[accountKey(userID, provider)]; ok {
			result = append(result, acc)
		}
	}
	return result, nil
}

func (m *mockAccountRepository) DeleteByUserAndProvider(ctx context.Context, userID user.UserID, provider account.ProviderID) error {
	if m.shouldError {
		return errors.New("repository error")
	}
	key := accountKey(userID, provider)
	if _, ok := m.accounts[key]; !ok {
		return account.ErrAccountNotFound(userID.String(), provider)
	}
	delete(m.accounts, key)
	return nil
}

type mockSessionRepository struct {
	sessions map[string]*session.Session
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*session.Session)}
}

func (m *mockSessionRepository) Save(ctx context.Context, s *session.Session) error {
	m.sessions[s.ID().String()] = s
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id session.ID) (*session.Session, error) {
	s, ok := m.sessions[id.String()]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, id session.ID) error {
	delete(m.sessions, id.String())
	return nil
}

func (m *mockSessionRepository) DeleteByUser(ctx context.Context, userID user.UserID) error {
	for id, s := range m.sessions {
		if s.UserID().Equals(userID) {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type mockProviders struct {
	enabled     map[account.ProviderID]bool
	tokens      account.Tokens
	refreshed   account.Tokens
	shouldError bool
	refreshes   int
}

func newMockProviders() *mockProviders {
	return &mockProviders{
		enabled: map[account.ProviderID]bool{account.ProviderGitHub: true, account.ProviderGitLab: true},
		tokens:  account.Tokens{AccessToken: "gho_exchanged", Scope: "repo read:user"},
	}
}

func (m *mockProviders) Enabled(provider account.ProviderID) bool {
	return m.enabled[provider]
}

func (m *mockProviders) AuthCodeURL(provider account.ProviderID, state string) (string, error) {
	return "https://" + provider.String() + ".example.com/authorize?state=" + state, nil
}

func (m *mockProviders) Exchange(ctx context.Context, provider account.ProviderID, code string) (account.Tokens, error) {
	if m.shouldError {
		return account.Tokens{}, errors.New("exchange failed")
	}
	return m.tokens, nil
}

func (m *mockProviders) Refresh(ctx context.Context, provider account.ProviderID, refreshToken string) (account.Tokens, error) {
	m.refreshes++
	if m.shouldError {
		return account.Tokens{}, errors.New("refresh failed")
	}
	return m.refreshed, nil
}

type mockIdentityService struct {
	identity    *account.Identity
	shouldError bool
}

func (m *mockIdentityService) FetchIdentity(ctx context.Context, accessToken string) (*account.Identity, error) {
	if m.shouldError {
		return nil, errors.New("identity error")
	}
	identity := *m.identity
	return &identity, nil
}

type mockHostingService struct {
	repos      []*repo.Repository
	commit     *repo.CommitSummary
	listErr    error
	hookErr    error
	lastPage   repo.Page
	lastBranch string
	lastToken  string
}

func (m *mockHostingService) ListRepositories(ctx context.Context, accessToken string, page repo.Page) ([]*repo.Repository, error) {
	m.lastToken = accessToken
	m.lastPage = page
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.repos, nil
}

func (m *mockHostingService) GetLastCommit(ctx context.Context, accessToken string, slug repo.Slug, branch string) (*repo.CommitSummary, error) {
	m.lastToken = accessToken
	m.lastBranch = branch
	return m.commit, nil
}

func (m *mockHostingService) CreateWebhook(ctx context.Context, accessToken string, slug repo.Slug, cfg repo.WebhookConfig) (*repo.Webhook, error) {
	if m.hookErr != nil {
		return nil, m.hookErr
	}
	return &repo.Webhook{ID: 42, Active: true, URL: cfg.URL, ContentType: "json"}, nil
}

func (m *mockHostingService) DeleteWebhook(ctx context.Context, accessToken string, slug repo.Slug, hookID int64) error {
	return m.hookErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Dispatch(ctx context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventType())
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func mustUser(email, username string) *user.User {
	usr, err := user.NewUser(email, username, "", "")
	if err != nil {
		panic(err)
	}
	return usr
}

func mustAccount(userID user.UserID, provider account.ProviderID, accountID string, tokens account.Tokens) *account.Account {
	acc, err := account.NewAccount(userID, provider, accountID, tokens)
	if err != nil {
		panic(err)
	}
	return acc
}
