package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"furnish-storefront/internal/backend"
	"furnish-storefront/internal/domain"
	tokenrepo "furnish-storefront/internal/repository/token"
)

const (
	msgNetworkError = "Network error. Please try again."
	msgSignInFailed = "Unable to sign in. Please check your credentials."
	msgSignUpFailed = "Unable to create your account. Please try again."
	msgOAuthFailed  = "Unable to start Google sign-in. Please try again."
	msgBadAuthReply = "The sign-in service returned an unexpected response."
	msgResetFailed  = "Unable to send the reset email. Please try again."
)

// Result reports an auth operation back to the caller as data. Failures are
// messages for inline display, never exceptions.
type Result struct {
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	User        *domain.User `json:"user,omitempty"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
}

func failure(msg string) Result { return Result{Error: msg} }

// Service owns the authenticated-user lifecycle for each shopper session:
// restoration from the persisted token, sign-in, sign-up, OAuth completion
// and teardown. All identity decisions belong to the external auth backend;
// this service only stores and propagates its tokens.
type Service struct {
	api    authAPI
	tokens tokenRepo
	google *oauth2.Config
	log    zerolog.Logger
}

type authAPI interface {
	SignIn(ctx context.Context, email, password string) (*backend.Credentials, error)
	SignUp(ctx context.Context, email, password string, meta domain.UserMetadata) (*backend.Credentials, error)
	Me(ctx context.Context, bearer string) (*domain.User, error)
	GoogleAuthURL(ctx context.Context, redirectTo string) (string, error)
	SignOut(ctx context.Context, bearer string) error
	ForgotPassword(ctx context.Context, email string) error
}

type tokenRepo interface {
	Save(ctx context.Context, t tokenrepo.Tokens) error
	Get(ctx context.Context, sessionID string) (*tokenrepo.Tokens, error)
	Delete(ctx context.Context, sessionID string) error
}

// New builds the session service. google may be nil; when set, Google sign-in
// builds the provider URL directly instead of asking the backend for one.
func New(api authAPI, tokens tokenRepo, google *oauth2.Config, log zerolog.Logger) *Service {
	return &Service{api: api, tokens: tokens, google: google, log: log}
}

// Restore resolves the session's identity from its persisted token. Every
// path terminates in a definite session: either the backend vouches for the
// token, or the token is cleared and the shopper is anonymous.
func (s *Service) Restore(ctx context.Context, sessionID string) domain.Session {
	stored, err := s.tokens.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("read persisted token")
		}
		return domain.Session{}
	}
	if stored.AccessToken == "" {
		return domain.Session{}
	}

	user, err := s.api.Me(ctx, stored.AccessToken)
	if err != nil {
		// Expired, revoked or unreachable: drop the token so the next
		// restore starts clean.
		s.log.Debug().Err(err).Str("session", sessionID).Msg("stored token rejected, clearing")
		s.clearTokens(ctx, sessionID)
		return domain.Session{}
	}
	return domain.Session{User: user, AccessToken: stored.AccessToken}
}

// CheckAuth is the explicit re-validation hook: identical to Restore, exposed
// for callers that must confirm a freshly persisted token is authoritative.
func (s *Service) CheckAuth(ctx context.Context, sessionID string) domain.Session {
	return s.Restore(ctx, sessionID)
}

// SignIn exchanges credentials for a token. Three outcomes: network failure,
// server-reported error, or a complete user+token envelope. A 2xx body
// missing either piece already failed inside the backend client.
func (s *Service) SignIn(ctx context.Context, sessionID, email, password string) Result {
	creds, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return failure(authMessage(err, msgSignInFailed))
	}
	s.saveTokens(ctx, sessionID, creds.AccessToken, creds.RefreshToken)
	return Result{Success: true, User: creds.User}
}

// SignUp registers an account. A token is persisted when present; some
// backends withhold it until the email is confirmed.
func (s *Service) SignUp(ctx context.Context, sessionID, email, password string, meta domain.UserMetadata) Result {
	creds, err := s.api.SignUp(ctx, email, password, meta)
	if err != nil {
		return failure(authMessage(err, msgSignUpFailed))
	}
	if creds.AccessToken != "" {
		s.saveTokens(ctx, sessionID, creds.AccessToken, creds.RefreshToken)
	}
	return Result{Success: true, User: creds.User}
}

// SignInWithGoogle returns the provider URL for a full-page redirect. The
// operation completes later, on the callback route.
func (s *Service) SignInWithGoogle(ctx context.Context, sessionID, redirectTo string) Result {
	if s.google != nil {
		url := s.google.AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOnline)
		return Result{Success: true, RedirectURL: url}
	}
	url, err := s.api.GoogleAuthURL(ctx, redirectTo)
	if err != nil {
		return failure(authMessage(err, msgOAuthFailed))
	}
	return Result{Success: true, RedirectURL: url}
}

// CompleteOAuth persists the tokens handed back by the provider redirect and
// re-validates them against the backend.
func (s *Service) CompleteOAuth(ctx context.Context, sessionID, accessToken, refreshToken string) Result {
	if accessToken == "" {
		return failure(msgBadAuthReply)
	}
	s.saveTokens(ctx, sessionID, accessToken, refreshToken)
	sess := s.CheckAuth(ctx, sessionID)
	if !sess.IsAuthenticated() {
		return failure(msgBadAuthReply)
	}
	return Result{Success: true, User: sess.User}
}

// ExchangeCode finishes the directly-configured Google flow: the provider
// redirected back with an authorization code, which is swapped for tokens at
// the provider's token endpoint and then persisted like any other sign-in.
func (s *Service) ExchangeCode(ctx context.Context, sessionID, code string) Result {
	if s.google == nil {
		return failure(msgBadAuthReply)
	}
	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("oauth code exchange failed")
		return failure(msgOAuthFailed)
	}
	return s.CompleteOAuth(ctx, sessionID, tok.AccessToken, tok.RefreshToken)
}

// SignOut revokes the token best-effort and unconditionally tears down local
// state. A failed backend call never keeps a shopper signed in.
func (s *Service) SignOut(ctx context.Context, sessionID string) {
	if stored, err := s.tokens.Get(ctx, sessionID); err == nil && stored.AccessToken != "" {
		if err := s.api.SignOut(ctx, stored.AccessToken); err != nil {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("backend logout failed")
		}
	}
	s.clearTokens(ctx, sessionID)
}

// ForgotPassword asks the backend to send the reset email.
func (s *Service) ForgotPassword(ctx context.Context, email string) Result {
	if err := s.api.ForgotPassword(ctx, email); err != nil {
		return failure(authMessage(err, msgResetFailed))
	}
	return Result{Success: true}
}

func (s *Service) saveTokens(ctx context.Context, sessionID, access, refresh string) {
	err := s.tokens.Save(ctx, tokenrepo.Tokens{
		SessionID:    sessionID,
		AccessToken:  access,
		RefreshToken: refresh,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("persist tokens")
	}
}

func (s *Service) clearTokens(ctx context.Context, sessionID string) {
	if err := s.tokens.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("clear tokens")
	}
}

// authMessage maps a backend error onto the message shown inline on the form.
func authMessage(err error, fallback string) string {
	if errors.Is(err, backend.ErrNetwork) {
		return msgNetworkError
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
