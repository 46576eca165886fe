package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// ErrRegisteredNotSignedIn reports that sign-up succeeded but the automatic
// sign-in that follows it did not.
var ErrRegisteredNotSignedIn = errors.New("registered but not signed in")

// SessionLogin is the part of the session store sign-in needs.
type SessionLogin interface {
	Login(ctx context.Context, credential string, identity domain.Identity) (domain.Session, error)
}

// AuthService signs users in and up against the backend.
type AuthService struct {
	api      ports.AuthAPI
	sessions SessionLogin
}

func NewAuthService(api ports.AuthAPI, sessions SessionLogin) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// SignIn exchanges username/password for a credential and hands it to the
// session store. The echoed username/role only seed the session until the
// store has fetched the real identity.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (domain.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	res, err := s.api.SignIn(ctx, ports.SignInInput{Username: username, Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if res.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("sign in: %w: empty access token", domain.ErrUnexpected)
	}

	echoed := domain.Identity{Username: username}
	if res.Username != "" {
		echoed.Username = res.Username
	}
	if role, err := domain.ParseRole(res.Role); err == nil {
		echoed.Role = role
	}

	return s.sessions.Login(ctx, res.AccessToken, echoed)
}

// Register creates an account. The user still has to sign in afterwards.
func (s *AuthService) Register(ctx context.Context, in ports.SignUpInput) (string, error) {
	ack, err := s.api.SignUp(ctx, in)
	if err != nil {
		return "", fmt.Errorf("sign up: %w", err)
	}
	if ack != nil && ack.Message != "" {
		return ack.Message, nil
	}
	return "User registered successfully", nil
}

// RegisterAndSignIn creates an account and signs straight into it. When the
// account was created but sign-in fails, the returned message is still the
// registration message and the session is left untouched.
func (s *AuthService) RegisterAndSignIn(ctx context.Context, in ports.SignUpInput) (domain.Session, string, error) {
	msg, err := s.Register(ctx, in)
	if err != nil {
		return domain.Session{}, "", err
	}
	sess, err := s.SignIn(ctx, in.Username, in.Password)
	if err != nil {
		return domain.Session{}, msg, fmt.Errorf("%w: %w", ErrRegisteredNotSignedIn, err)
	}
	return sess, msg, nil
}
