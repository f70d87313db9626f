package account

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"furnish-storefront/internal/domain"
	newsletterrepo "furnish-storefront/internal/repository/newsletter"
)

var (
	// ErrNotAuthenticated gates every dashboard operation.
	ErrNotAuthenticated = errors.New("sign-in required")
	// ErrInvalidInput covers client-side validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

var ticketPriorities = map[string]bool{
	"low":    true,
	"normal": true,
	"high":   true,
	"urgent": true,
}

type accountAPI interface {
	Addresses(ctx context.Context, bearer string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, bearer string, a domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, bearer, id string, a domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, bearer, id string) error
	SetDefaultAddress(ctx context.Context, bearer, id string) error
	Profile(ctx context.Context, bearer string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, bearer, userID string, p domain.Profile) (*domain.Profile, error)
	CreateSupportTicket(ctx context.Context, bearer string, t domain.SupportTicket) (*domain.SupportTicket, error)
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Service backs the post-login account dashboard: addresses, profile and
// support tickets all live in the backend; this layer adds validation and the
// session gate. Newsletter subscription is the one direct write.
type Service struct {
	api        accountAPI
	newsletter newsletterrepo.Repository
	log        zerolog.Logger
}

func New(api accountAPI, newsletter newsletterrepo.Repository, log zerolog.Logger) *Service {
	return &Service{api: api, newsletter: newsletter, log: log}
}

func (s *Service) Addresses(ctx context.Context, sess domain.Session) ([]domain.Address, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.api.Addresses(ctx, sess.AccessToken)
}

func (s *Service) CreateAddress(ctx context.Context, sess domain.Session, a domain.Address) (*domain.Address, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.Country) == "" {
		return nil, ErrInvalidInput
	}
	return s.api.CreateAddress(ctx, sess.AccessToken, a)
}

func (s *Service) UpdateAddress(ctx context.Context, sess domain.Session, id string, a domain.Address) (*domain.Address, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	return s.api.UpdateAddress(ctx, sess.AccessToken, id, a)
}

func (s *Service) DeleteAddress(ctx context.Context, sess domain.Session, id string) error {
	if !sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return s.api.DeleteAddress(ctx, sess.AccessToken, id)
}

func (s *Service) SetDefaultAddress(ctx context.Context, sess domain.Session, id string) error {
	if !sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return s.api.SetDefaultAddress(ctx, sess.AccessToken, id)
}

func (s *Service) Profile(ctx context.Context, sess domain.Session) (*domain.Profile, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.api.Profile(ctx, sess.AccessToken)
}

func (s *Service) UpdateProfile(ctx context.Context, sess domain.Session, p domain.Profile) (*domain.Profile, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.api.UpdateProfile(ctx, sess.AccessToken, sess.User.ID, p)
}

// CreateTicket validates and files a support ticket. Priority defaults to
// normal rather than failing; the dashboard form predates the priority field.
func (s *Service) CreateTicket(ctx context.Context, sess domain.Session, t domain.SupportTicket) (*domain.SupportTicket, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(t.Subject) == "" || strings.TrimSpace(t.Message) == "" {
		return nil, ErrInvalidInput
	}
	if t.Priority == "" {
		t.Priority = "normal"
	}
	if !ticketPriorities[t.Priority] {
		return nil, ErrInvalidInput
	}
	return s.api.CreateSupportTicket(ctx, sess.AccessToken, t)
}

// SubscribeNewsletter records the subscription directly and sends the welcome
// email through the backend relay. The email is best-effort: a relay outage
// must not lose the subscription.
func (s *Service) SubscribeNewsletter(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	if err := s.newsletter.Subscribe(ctx, email); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil // resubscribing is not an error
		}
		return err
	}
	if err := s.api.SendEmail(ctx, email, "Welcome to the Furnish newsletter", "Thanks for subscribing. Fresh pieces and room ideas land monthly."); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("welcome email failed")
	}
	return nil
}
