package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hopehaven/hopehaven/internal/challenge"
	"github.com/hopehaven/hopehaven/internal/config"
	"github.com/hopehaven/hopehaven/internal/identity"
	"github.com/hopehaven/hopehaven/internal/notification"
	"github.com/hopehaven/hopehaven/internal/signature"
)

// Service orchestrates the two-phase signup and login flows. Both flows
// are password-then-code; there is no single-factor fallback.
type Service struct {
	cfg        config.Config
	ids        identity.Repository
	challenges challenge.Store
	notifier   notification.Notifier
	signer     *signature.Signer
}

// NewService wires the auth orchestrator. The challenge store and
// notifier are explicit dependencies, never ambient state.
func NewService(cfg config.Config, ids identity.Repository, challenges challenge.Store, notifier notification.Notifier, signer *signature.Signer) *Service {
	return &Service{cfg: cfg, ids: ids, challenges: challenges, notifier: notifier, signer: signer}
}

// Token is an issued session token with its lifetime.
type Token struct {
	Value     string
	ExpiresIn int64
	Role      identity.Role
}

// RequestSignup validates the candidate registration and issues a SIGNUP
// challenge carrying the candidate password. The code goes out on the
// notifier channel, never in the response.
func (s *Service) RequestSignup(ctx context.Context, email, password, role string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.New("valid email is required")
	}
	parsedRole, err := identity.ParseRole(role)
	if err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}

	if _, err := s.ids.FindByEmail(ctx, email); err == nil {
		return identity.ErrDuplicateIdentity
	} else if !errors.Is(err, identity.ErrNotFound) {
		return err
	}

	code, err := s.challenges.Issue(ctx, email, challenge.KindSignup, challenge.Payload{
		Password: password,
		Role:     string(parsedRole),
	})
	if err != nil {
		return err
	}

	s.deliverCode(ctx, email, code)
	return nil
}

// VerifySignup redeems the SIGNUP challenge, hashes the carried password
// and creates the identity. The repository's duplicate-key error is
// authoritative against concurrent signups.
func (s *Service) VerifySignup(ctx context.Context, email, code string) (identity.Identity, error) {
	email = normalizeEmail(email)

	payload, err := s.challenges.Redeem(ctx, email, challenge.KindSignup, code)
	if err != nil {
		return identity.Identity{}, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return identity.Identity{}, err
	}

	ident := identity.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         identity.Role(payload.Role),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.ids.Create(ctx, ident); err != nil {
		return identity.Identity{}, err
	}
	return ident, nil
}

// RequestLogin performs the password phase and issues a LOGIN challenge
// carrying the resolved identity reference.
func (s *Service) RequestLogin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	ident, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := VerifyPassword(ident.PasswordHash, password); err != nil {
		return err
	}

	code, err := s.challenges.Issue(ctx, email, challenge.KindLogin, challenge.Payload{
		IdentityID: ident.ID,
		Role:       string(ident.Role),
	})
	if err != nil {
		return err
	}

	s.deliverCode(ctx, email, code)
	return nil
}

// VerifyLogin redeems the LOGIN challenge and mints a session token.
func (s *Service) VerifyLogin(ctx context.Context, email, code string) (Token, error) {
	email = normalizeEmail(email)

	payload, err := s.challenges.Redeem(ctx, email, challenge.KindLogin, code)
	if err != nil {
		return Token{}, err
	}

	ident, err := s.ids.FindByID(ctx, payload.IdentityID)
	if err != nil {
		return Token{}, err
	}

	signed, err := generateToken(ident, s.cfg.AuthSecret, s.cfg.TokenTTL)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresIn: int64(s.cfg.TokenTTL.Seconds()), Role: ident.Role}, nil
}

// ParseToken validates a presented session token.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	return parseToken(raw, s.cfg.AuthSecret)
}

// PublicKeyPEM exposes the record-signing verification key for external
// signature checks.
func (s *Service) PublicKeyPEM() (string, error) {
	return s.signer.PublicKeyPEM()
}

// deliverCode is fire-and-forget: delivery failures are the notifier's
// concern, not an auth-flow failure.
func (s *Service) deliverCode(ctx context.Context, email, code string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindOTPCode,
		Destination: email,
		Body:        fmt.Sprintf("Your HopeHaven verification code is %s", code),
	})
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}
