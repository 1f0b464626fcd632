package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"git-away/internal/application/dto"
	"git-away/internal/auth"
	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/session"
	"git-away/internal/domain/user"
	apperrors "git-away/internal/errors"
)

const stateTTL = 10 * time.Minute

// LoginRedirect is where to send the browser to start an OAuth flow
type LoginRedirect struct {
	URL   string
	State string
}

// CallbackRequest carries what the provider redirected back with
type CallbackRequest struct {
	Provider    string
	Code        string
	State       string
	CookieState string
	Current     *auth.Context
	UserAgent   string
	IPAddress   string
}

// LoginResult is the outcome of a completed OAuth flow. SessionToken is only
// set for a sign-in; a connect keeps the caller's session.
type LoginResult struct {
	Mode         string
	UserID       user.UserID
	SessionToken string
	ExpiresAt    time.Time
}

// AuthService handles OAuth sign-in, provider connection and sessions
type AuthService struct {
	userRepo    user.Repository
	accountRepo account.Repository
	sessionRepo session.Repository
	providers   OAuthProviders
	identities  map[account.ProviderID]account.IdentityService
	tokens      *auth.TokenManager
	publisher   events.Publisher
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo user.Repository,
	accountRepo account.Repository,
	sessionRepo session.Repository,
	providers OAuthProviders,
	identities map[account.ProviderID]account.IdentityService,
	tokens *auth.TokenManager,
	publisher events.Publisher,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		providers:   providers,
		identities:  identities,
		tokens:      tokens,
		publisher:   publisher,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// BeginLogin starts an OAuth flow. With a current session the flow connects
// the provider to that user, otherwise it signs in.
func (s *AuthService) BeginLogin(ctx context.Context, provider string, current *auth.Context) (*LoginRedirect, error) {
	providerID, err := s.enabledProvider(provider)
	if err != nil {
		return nil, err
	}

	mode, userID := auth.ModeSignIn, ""
	if current != nil {
		mode, userID = auth.ModeConnect, current.UserID.String()
	}

	state, _, err := s.tokens.SignState(providerID.String(), mode, userID, stateTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign state: %w", err)
	}

	url, err := s.providers.AuthCodeURL(providerID, state)
	if err != nil {
		return nil, err
	}

	return &LoginRedirect{URL: url, State: state}, nil
}

// CompleteLogin finishes an OAuth flow: it verifies the state, exchanges the
// code, resolves the provider identity and stores the credential.
func (s *AuthService) CompleteLogin(ctx context.Context, req *CallbackRequest) (*LoginResult, error) {
	providerID, err := s.enabledProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	if req.State == "" || req.State != req.CookieState {
		return nil, apperrors.NewUnauthenticatedError("Invalid OAuth state")
	}
	claims, err := s.tokens.ParseState(req.State)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeUnauthenticated, Message: "Invalid OAuth state", Err: err}
	}
	if claims.Provider != providerID.String() {
		return nil, apperrors.NewUnauthenticatedError("OAuth state was issued for another provider")
	}
	if req.Code == "" {
		return nil, apperrors.NewBadRequestError("Missing authorization code")
	}

	tokens, err := s.providers.Exchange(ctx, providerID, req.Code)
	if err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("Failed to sign in with %s", providerID.DisplayName()), err)
	}

	identities, ok := s.identities[providerID]
	if !ok {
		return nil, apperrors.NewInternalError("no identity service for provider", account.ErrUnknownProvider(providerID.String()))
	}
	identity, err := identities.FetchIdentity(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	if claims.Mode == auth.ModeConnect {
		return s.connect(ctx, claims, req.Current, identity, tokens)
	}
	return s.signIn(ctx, identity, tokens, req.UserAgent, req.IPAddress)
}

func (s *AuthService) connect(ctx context.Context, claims *auth.StateClaims, current *auth.Context, identity *account.Identity, tokens account.Tokens) (*LoginResult, error) {
	if current == nil || current.UserID.String() != claims.UserID {
		return nil, apperrors.NewUnauthenticatedError("Sign in again to connect an account")
	}

	u, err := s.userRepo.FindByID(ctx, current.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	existing, err := s.findByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.BelongsToUser(u.ID()) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("This %s account is already linked to another user", identity.Provider.DisplayName()))
	}
	if existing == nil {
		existing, err = s.findByUser(ctx, u.ID(), identity.Provider)
		if err != nil {
			return nil, err
		}
	}

	if err := s.storeAccount(ctx, u, existing, identity, tokens); err != nil {
		return nil, err
	}

	return &LoginResult{Mode: auth.ModeConnect, UserID: u.ID()}, nil
}

func (s *AuthService) signIn(ctx context.Context, identity *account.Identity, tokens account.Tokens, userAgent, ipAddress string) (*LoginResult, error) {
	existing, err := s.findByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	var u *user.User
	if existing != nil {
		u, err = s.userRepo.FindByID(ctx, existing.UserID())
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if u.UpdateProfile(identity.Name, identity.AvatarURL) {
			if err := s.userRepo.Save(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to save user: %w", err)
			}
		}
	} else {
		u, err = s.userForIdentity(ctx, identity)
		if err != nil {
			return nil, err
		}
		existing, err = s.findByUser(ctx, u.ID(), identity.Provider)
		if err != nil {
			return nil, err
		}
	}

	if err := s.storeAccount(ctx, u, existing, identity, tokens); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issueSession(ctx, u.ID(), userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Mode:         auth.ModeSignIn,
		UserID:       u.ID(),
		SessionToken: token,
		ExpiresAt:    expiresAt,
	}, nil
}

// userForIdentity returns the user an unknown provider account signs in as.
// A user with the same email is reused only when the provider verified that
// email; an unverified match is refused. Otherwise a new user is created.
func (s *AuthService) userForIdentity(ctx context.Context, identity *account.Identity) (*user.User, error) {
	email, err := user.NewEmail(identity.Email)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s account has no usable email", identity.Provider.DisplayName()))
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if !identity.EmailVerified {
			log.Warn().
				Str("user_id", u.ID().String()).
				Str("provider", identity.Provider.String()).
				Msg("Refusing to link provider account with unverified email")
			return nil, apperrors.NewForbiddenError(fmt.Sprintf(
				"The email of this %[1]s account is not verified. Sign in with your existing account and connect %[1]s from the tokens page.",
				identity.Provider.DisplayName()), nil)
		}
		log.Info().
			Str("user_id", u.ID().String()).
			Str("provider", identity.Provider.String()).
			Msg("Linking provider account to existing user by email")
		return u, nil
	}
	if !stderrors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	u, err = user.NewUser(identity.Email, identity.Login, identity.Name, identity.AvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create user entity: %w", err)
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	publish(ctx, s.publisher, user.NewUserCreatedEvent(u.ID().String(), u.Username().String(), identity.Provider.String()))
	return u, nil
}

// storeAccount updates existing in place or links a new credential to u
func (s *AuthService) storeAccount(ctx context.Context, u *user.User, existing *account.Account, identity *account.Identity, tokens account.Tokens) error {
	if existing != nil && existing.AccountID() == identity.AccountID {
		existing.UpdateTokens(tokens)
		if err := s.accountRepo.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		return nil
	}

	acc, err := account.NewAccount(u.ID(), identity.Provider, identity.AccountID, tokens)
	if err != nil {
		return fmt.Errorf("failed to create account entity: %w", err)
	}
	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	publish(ctx, s.publisher, account.NewAccountConnectedEvent(acc))
	return nil
}

func (s *AuthService) findByIdentity(ctx context.Context, identity *account.Identity) (*account.Account, error) {
	acc, err := s.accountRepo.FindByProviderAccount(ctx, identity.Provider, identity.AccountID)
	if err != nil {
		if stderrors.Is(err, account.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return acc, nil
}

func (s *AuthService) findByUser(ctx context.Context, userID user.UserID, provider account.ProviderID) (*account.Account, error) {
	acc, err := s.accountRepo.FindByUserAndProvider(ctx, userID, provider)
	if err != nil {
		if stderrors.Is(err, account.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return acc, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID user.UserID, userAgent, ipAddress string) (string, time.Time, error) {
	sess, err := session.New(userID, s.sessionTTL, userAgent, ipAddress)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.tokens.SignSession(userID.String(), sess.ID().String(), sess.ExpiresAt())
	if err != nil {
		return "", time.Time{}, err
	}
	return token, sess.ExpiresAt(), nil
}

// Authenticate validates a session token against the stored session. Deleted
// or expired sessions are rejected even when the token itself is still valid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Context, error) {
	if token == "" {
		return nil, apperrors.NewUnauthenticatedError("Unauthorized")
	}

	claims, err := s.tokens.ParseSession(token)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeUnauthenticated, Message: "Unauthorized", Err: err}
	}

	sessionID, err := session.ParseID(claims.SessionID)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeUnauthenticated, Message: "Unauthorized", Err: err}
	}

	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, session.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError("Unauthorized")
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if sess.UserID().String() != claims.Subject {
		return nil, apperrors.NewUnauthenticatedError("Unauthorized")
	}
	if sess.IsExpired(s.now()) {
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeUnauthenticated,
			Message: "Session expired",
			Reason:  apperrors.ReasonSessionExpired,
		}
	}

	return &auth.Context{
		UserID:    sess.UserID(),
		SessionID: sess.ID(),
		ExpiresAt: sess.ExpiresAt(),
	}, nil
}

// IssueToken starts an additional session for a non-browser client such as the CLI
func (s *AuthService) IssueToken(ctx context.Context, ac *auth.Context, userAgent, ipAddress string) (*dto.TokenResponse, error) {
	token, expiresAt, err := s.issueSession(ctx, ac.UserID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// CurrentSession describes the caller's session
func (s *AuthService) CurrentSession(ctx context.Context, ac *auth.Context) (*dto.SessionResponse, error) {
	u, err := s.userRepo.FindByID(ctx, ac.UserID)
	if err != nil {
		if stderrors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError("Unauthorized")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &dto.SessionResponse{
		User:      toUserDTO(u),
		SessionID: ac.SessionID.String(),
		ExpiresAt: ac.ExpiresAt,
	}, nil
}

// SignOut deletes the caller's session
func (s *AuthService) SignOut(ctx context.Context, ac *auth.Context) error {
	if err := s.sessionRepo.Delete(ctx, ac.SessionID); err != nil && !stderrors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SignOutEverywhere deletes every session of the caller
func (s *AuthService) SignOutEverywhere(ctx context.Context, ac *auth.Context) error {
	if err := s.sessionRepo.DeleteByUser(ctx, ac.UserID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// PruneSessions removes expired sessions
func (s *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}

func (s *AuthService) enabledProvider(provider string) (account.ProviderID, error) {
	providerID, err := account.ParseProviderID(provider)
	if err != nil {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("Unknown provider %q", provider), err)
	}
	if !s.providers.Enabled(providerID) {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("%s sign-in is not enabled", providerID.DisplayName()), nil)
	}
	return providerID, nil
}
