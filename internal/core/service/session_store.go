package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/pkg/metrics"
)

// SessionStore is the single owner of "who is the current user".
//
// It starts in StateLoading and leaves it exactly once, through Hydrate,
// Login or Logout. Every mutation bumps a generation counter; results of a
// hydration or identity refresh that complete after a newer mutation are
// discarded.
type SessionStore struct {
	creds  ports.CredentialStore
	binder ports.CredentialBinder
	auth   ports.AuthAPI
	log    zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	current  domain.Session
	gen      uint64
	onSwitch []func()

	ready     chan struct{}
	readyOnce sync.Once
}

// NewSessionStore returns a store in StateLoading.
func NewSessionStore(creds ports.CredentialStore, binder ports.CredentialBinder, auth ports.AuthAPI, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		creds:   creds,
		binder:  binder,
		auth:    auth,
		log:     log,
		now:     time.Now,
		current: domain.Session{State: domain.StateLoading},
		ready:   make(chan struct{}),
	}
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnCredentialChange registers fn to run whenever the session credential
// changes, including logout. fn runs with the store locked and must not call
// back into it.
func (s *SessionStore) OnCredentialChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwitch = append(s.onSwitch, fn)
}

// WaitReady blocks until the session has left StateLoading.
func (s *SessionStore) WaitReady(ctx context.Context) (domain.Session, error) {
	select {
	case <-s.ready:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Hydrate restores the session from the persisted credential. Any failure
// (missing, expired, rejected, unreachable backend) ends in StateAnonymous.
func (s *SessionStore) Hydrate(ctx context.Context) domain.Session {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	credential, err := s.creds.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredential) {
			s.log.Debug().Msg("no persisted credential, starting anonymous")
			return s.settleAnonymous(ctx, gen, false)
		}
		s.log.Warn().Err(err).Msg("failed to read persisted credential")
		return s.settleAnonymous(ctx, gen, true)
	}

	if credentialExpired(credential, s.now()) {
		s.log.Info().Msg("persisted credential expired, discarding")
		return s.settleAnonymous(ctx, gen, true)
	}

	s.mu.Lock()
	if s.gen != gen {
		cur := s.current
		s.mu.Unlock()
		return cur
	}
	s.binder.SetCredential(credential)
	s.mu.Unlock()

	identity, err := s.auth.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("persisted credential rejected, starting anonymous")
		return s.settleAnonymous(ctx, gen, true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return s.current
	}
	s.set(domain.Session{State: domain.StateAuthenticated, Credential: credential, Identity: *identity})
	s.log.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("session restored")
	return s.current
}

// Login persists and attaches credential, becomes authenticated with the
// echoed identity, then replaces it with the identity the backend reports.
// When that refresh fails the session is torn down and the error returned.
func (s *SessionStore) Login(ctx context.Context, credential string, identity domain.Identity) (domain.Session, error) {
	if credential == "" {
		return s.Snapshot(), fmt.Errorf("login: %w", domain.ErrNoCredential)
	}

	// Persist outside mu so snapshots never wait on the credential backend.
	if err := s.creds.Save(ctx, credential); err != nil {
		return s.Snapshot(), fmt.Errorf("login: persist credential: %w", err)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.binder.SetCredential(credential)
	s.set(domain.Session{State: domain.StateAuthenticated, Credential: credential, Identity: identity})
	s.mu.Unlock()

	fresh, err := s.auth.Me(ctx)
	if err != nil {
		cur := s.settleAnonymous(ctx, gen, true)
		return cur, fmt.Errorf("login: verify identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.current.Identity = *fresh
		s.log.Info().Str("username", fresh.Username).Str("role", string(fresh.Role)).Msg("logged in")
	}
	return s.current, nil
}

// Logout forgets the credential locally. The backend is not contacted.
func (s *SessionStore) Logout(ctx context.Context) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.teardown(ctx)
	s.log.Info().Msg("logged out")
	return s.current
}

// HandleUnauthorized is called by the API binding when a call carrying
// credential is answered with 401. Only the session holding that credential
// is forced out; a 401 for a credential already replaced is ignored, and a
// hydration in progress handles the failure itself.
func (s *SessionStore) HandleUnauthorized(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.State != domain.StateAuthenticated || s.current.Credential != credential {
		return
	}
	s.gen++
	s.log.Warn().Str("username", s.current.Identity.Username).Msg("credential rejected by backend, forcing logout")
	s.teardown(context.Background())
}

func (s *SessionStore) settleAnonymous(ctx context.Context, gen uint64, clear bool) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return s.current
	}
	if clear {
		s.teardown(ctx)
		return s.current
	}
	s.set(domain.Session{State: domain.StateAnonymous})
	return s.current
}

// teardown must be called with mu held.
func (s *SessionStore) teardown(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear persisted credential")
	}
	s.binder.ClearCredential()
	s.set(domain.Session{State: domain.StateAnonymous})
}

// set must be called with mu held.
func (s *SessionStore) set(next domain.Session) {
	switched := next.Credential != s.current.Credential
	s.current = next
	if switched {
		for _, fn := range s.onSwitch {
			fn()
		}
	}
	metrics.SessionTransitionsTotal.WithLabelValues(next.State.String()).Inc()
	s.readyOnce.Do(func() { close(s.ready) })
}

// credentialExpired inspects the exp claim of JWT credentials without
// verifying the signature. Opaque credentials are never considered expired.
func credentialExpired(credential string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
