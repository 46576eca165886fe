package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/infrastructure/apiclient"
	"github.com/ecoshop/storefront/internal/infrastructure/credstore"
)

type stubCreds struct {
	mu      sync.Mutex
	value   string
	loadErr error
	saves   int
	clears  int
	// saveGate, when set, blocks Save until it is closed; saving is
	// signalled once Save is blocked.
	saveGate chan struct{}
	saving   chan struct{}
}

func (s *stubCreds) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return "", s.loadErr
	}
	if s.value == "" {
		return "", domain.ErrNoCredential
	}
	return s.value, nil
}

func (s *stubCreds) Save(_ context.Context, v string) error {
	if s.saveGate != nil {
		close(s.saving)
		<-s.saveGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.saves++
	return nil
}

func (s *stubCreds) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.clears++
	return nil
}

type stubBinder struct {
	mu       sync.Mutex
	attached string
}

func (b *stubBinder) SetCredential(c string) {
	b.mu.Lock()
	b.attached = c
	b.mu.Unlock()
}

func (b *stubBinder) ClearCredential() {
	b.mu.Lock()
	b.attached = ""
	b.mu.Unlock()
}

func (b *stubBinder) current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached
}

// stubAuthAPI answers /auth/me from meFn and counts every call.
type stubAuthAPI struct {
	mu    sync.Mutex
	calls int
	meFn  func(ctx context.Context) (*domain.Identity, error)
}

func (a *stubAuthAPI) SignIn(context.Context, ports.SignInInput) (*ports.SignInResult, error) {
	return nil, errors.New("not used")
}

func (a *stubAuthAPI) SignUp(context.Context, ports.SignUpInput) (*ports.Ack, error) {
	return nil, errors.New("not used")
}

func (a *stubAuthAPI) Me(ctx context.Context) (*domain.Identity, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return a.meFn(ctx)
}

func (a *stubAuthAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func identityAPI(id domain.Identity) *stubAuthAPI {
	return &stubAuthAPI{meFn: func(context.Context) (*domain.Identity, error) {
		cp := id
		return &cp, nil
	}}
}

func newStore(creds *stubCreds, binder *stubBinder, api *stubAuthAPI) *SessionStore {
	return NewSessionStore(creds, binder, api, zerolog.Nop())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "carol", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestSessionStore_StartsLoading(t *testing.T) {
	store := newStore(&stubCreds{}, &stubBinder{}, identityAPI(domain.Identity{}))
	if s := store.Snapshot(); s.State != domain.StateLoading {
		t.Fatalf("expected loading, got %s", s.State)
	}
}

func TestSessionStore_Hydrate_NoCredentialMakesNoCall(t *testing.T) {
	api := identityAPI(domain.Identity{Username: "x", Role: domain.RoleCustomer})
	store := newStore(&stubCreds{}, &stubBinder{}, api)

	s := store.Hydrate(context.Background())
	if s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no network call, got %d", api.callCount())
	}
}

func TestSessionStore_Hydrate_ValidCredential(t *testing.T) {
	creds := &stubCreds{value: "tok-1"}
	binder := &stubBinder{}
	store := newStore(creds, binder, identityAPI(domain.Identity{Username: "alice", Role: domain.RoleAdmin}))

	s := store.Hydrate(context.Background())
	if !s.IsAdmin() || s.Identity.Username != "alice" || s.Credential != "tok-1" {
		t.Fatalf("unexpected session %+v", s)
	}
	if binder.current() != "tok-1" {
		t.Fatalf("credential not attached")
	}
}

func TestSessionStore_Hydrate_RejectedCredentialIsCleared(t *testing.T) {
	creds := &stubCreds{value: "tok-stale"}
	binder := &stubBinder{}
	api := &stubAuthAPI{meFn: func(context.Context) (*domain.Identity, error) {
		return nil, &domain.APIError{Status: 401}
	}}
	store := newStore(creds, binder, api)

	s := store.Hydrate(context.Background())
	if s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State)
	}
	if creds.value != "" || creds.clears != 1 {
		t.Fatalf("expected credential cleared, got %q (%d clears)", creds.value, creds.clears)
	}
	if binder.current() != "" {
		t.Fatalf("credential still attached")
	}
}

func TestSessionStore_Hydrate_NetworkFailureFailsClosed(t *testing.T) {
	creds := &stubCreds{value: "tok-1"}
	api := &stubAuthAPI{meFn: func(context.Context) (*domain.Identity, error) {
		return nil, domain.ErrTransport
	}}
	store := newStore(creds, &stubBinder{}, api)

	if s := store.Hydrate(context.Background()); s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State)
	}
	if creds.value != "" {
		t.Fatal("expected credential cleared")
	}
}

func TestSessionStore_Hydrate_ExpiredJWTMakesNoCall(t *testing.T) {
	creds := &stubCreds{value: signedToken(t, time.Now().Add(-time.Hour))}
	api := identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer})
	store := newStore(creds, &stubBinder{}, api)

	if s := store.Hydrate(context.Background()); s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no network call, got %d", api.callCount())
	}
	if creds.value != "" {
		t.Fatal("expected expired credential cleared")
	}
}

func TestSessionStore_Hydrate_UnexpiredJWTIsValidated(t *testing.T) {
	creds := &stubCreds{value: signedToken(t, time.Now().Add(time.Hour))}
	api := identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer})
	store := newStore(creds, &stubBinder{}, api)

	if s := store.Hydrate(context.Background()); !s.IsCustomer() {
		t.Fatalf("expected customer, got %+v", s)
	}
	if api.callCount() != 1 {
		t.Fatalf("expected one /auth/me call, got %d", api.callCount())
	}
}

func TestSessionStore_LoginThenGuardAdmin(t *testing.T) {
	creds := &stubCreds{}
	store := newStore(creds, &stubBinder{}, identityAPI(domain.Identity{Username: "a", Role: domain.RoleAdmin}))
	store.Hydrate(context.Background())

	s, err := store.Login(context.Background(), "tok", domain.Identity{Username: "a", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if creds.value != "tok" {
		t.Fatalf("credential not persisted")
	}
	if got := Decide(s, "/admin"); got != domain.ActionRender {
		t.Fatalf("expected render, got %s", got)
	}
}

func TestSessionStore_SnapshotDoesNotWaitOnPersist(t *testing.T) {
	creds := &stubCreds{saveGate: make(chan struct{}), saving: make(chan struct{})}
	store := newStore(creds, &stubBinder{}, identityAPI(domain.Identity{Username: "a", Role: domain.RoleAdmin}))
	store.Hydrate(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "tok", domain.Identity{Username: "a"})
		done <- err
	}()
	<-creds.saving

	snap := make(chan domain.Session, 1)
	go func() { snap <- store.Snapshot() }()
	select {
	case s := <-snap:
		if s.State != domain.StateAnonymous {
			t.Fatalf("expected anonymous while persisting, got %s", s.State)
		}
	case <-time.After(time.Second):
		t.Fatal("snapshot blocked on credential persistence")
	}

	close(creds.saveGate)
	if err := <-done; err != nil {
		t.Fatalf("login: %v", err)
	}
	if !store.Snapshot().IsAdmin() {
		t.Fatal("expected admin after login")
	}
}

func TestSessionStore_LoginUsesServerIdentity(t *testing.T) {
	store := newStore(&stubCreds{}, &stubBinder{}, identityAPI(domain.Identity{ID: 2, Username: "carol", Email: "c@example.com", Role: domain.RoleCustomer}))

	s, err := store.Login(context.Background(), "tok", domain.Identity{Username: "carol"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Identity.Role != domain.RoleCustomer || s.Identity.Email != "c@example.com" {
		t.Fatalf("expected server identity, got %+v", s.Identity)
	}
}

func TestSessionStore_LoginRefreshFailureTearsDown(t *testing.T) {
	creds := &stubCreds{}
	binder := &stubBinder{}
	api := &stubAuthAPI{meFn: func(context.Context) (*domain.Identity, error) {
		return nil, domain.ErrTransport
	}}
	store := newStore(creds, binder, api)

	s, err := store.Login(context.Background(), "tok", domain.Identity{Username: "a", Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if s.State != domain.StateAnonymous || creds.value != "" || binder.current() != "" {
		t.Fatalf("expected full teardown, got %+v cred=%q bound=%q", s, creds.value, binder.current())
	}
}

func TestSessionStore_LogoutThenHydrateIsAnonymousWithoutBackend(t *testing.T) {
	creds := &stubCreds{}
	binder := &stubBinder{}
	api := identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer})
	store := newStore(creds, binder, api)

	if _, err := store.Login(context.Background(), "tok", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.Logout(context.Background())
	if creds.value != "" || binder.current() != "" {
		t.Fatal("logout must clear and detach the credential")
	}

	// A fresh process over the same storage.
	calls := api.callCount()
	next := newStore(creds, &stubBinder{}, api)
	if s := next.Hydrate(context.Background()); s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State)
	}
	if api.callCount() != calls {
		t.Fatal("hydration after logout must not contact the backend")
	}
}

func TestSessionStore_StaleHydrationIsDiscarded(t *testing.T) {
	creds := &stubCreds{value: "tok-old"}
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	api := &stubAuthAPI{meFn: func(context.Context) (*domain.Identity, error) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
			return &domain.Identity{Username: "old", Role: domain.RoleCustomer}, nil
		}
		return &domain.Identity{Username: "admin", Role: domain.RoleAdmin}, nil
	}}
	store := newStore(creds, &stubBinder{}, api)

	done := make(chan domain.Session)
	go func() { done <- store.Hydrate(context.Background()) }()
	<-entered

	if _, err := store.Login(context.Background(), "tok-new", domain.Identity{Username: "admin", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(release)
	<-done

	s := store.Snapshot()
	if s.Identity.Username != "admin" || s.Credential != "tok-new" {
		t.Fatalf("stale hydration overwrote login: %+v", s)
	}
}

func TestSessionStore_HandleUnauthorizedForcesLogout(t *testing.T) {
	creds := &stubCreds{}
	binder := &stubBinder{}
	store := newStore(creds, binder, identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer}))
	if _, err := store.Login(context.Background(), "tok", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.HandleUnauthorized("tok")
	s := store.Snapshot()
	if s.State != domain.StateAnonymous || creds.value != "" || binder.current() != "" {
		t.Fatalf("expected forced logout, got %+v", s)
	}
}

func TestSessionStore_HandleUnauthorizedIgnoresReplacedCredential(t *testing.T) {
	creds := &stubCreds{}
	binder := &stubBinder{}
	store := newStore(creds, binder, identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer}))
	ctx := context.Background()
	if _, err := store.Login(ctx, "tok-old", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.Logout(ctx)
	if _, err := store.Login(ctx, "tok-new", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.HandleUnauthorized("tok-old")
	s := store.Snapshot()
	if !s.Authenticated() || s.Credential != "tok-new" {
		t.Fatalf("401 for a replaced credential tore down the session: %+v", s)
	}
	if creds.value != "tok-new" || binder.current() != "tok-new" {
		t.Fatalf("new credential lost: persisted=%q bound=%q", creds.value, binder.current())
	}
}

// A request sent with the old credential that fails after logout and a new
// login must leave the new session alone.
func TestSessionStore_LateUnauthorizedResponseKeepsNewSession(t *testing.T) {
	release := make(chan struct{})
	held := make(chan struct{})
	var once sync.Once
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		switch r.URL.Path {
		case "/api/auth/me":
			_, _ = w.Write([]byte(`{"id":2,"username":"carol","role":"USER"}`))
		case "/api/orders":
			if token == "tok-old" {
				once.Do(func() { close(held) })
				<-release
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	client := apiclient.New(backend.URL+"/api", zerolog.Nop())
	creds := credstore.NewMemoryStore()
	store := NewSessionStore(creds, client, client, zerolog.Nop())
	client.SetUnauthorizedHandler(store.HandleUnauthorized)
	ctx := context.Background()

	if _, err := store.Login(ctx, "tok-old", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		_, err := client.ListOrders(ctx)
		done <- err
	}()
	<-held

	store.Logout(ctx)
	if _, err := store.Login(ctx, "tok-new", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(release)
	if err := <-done; !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected 401 on the held request, got %v", err)
	}

	s := store.Snapshot()
	if !s.Authenticated() || s.Credential != "tok-new" {
		t.Fatalf("new session torn down: %+v", s)
	}
	if got, err := creds.Load(ctx); err != nil || got != "tok-new" {
		t.Fatalf("persisted credential = %q, %v", got, err)
	}
}

func TestSessionStore_HandleUnauthorizedIgnoredWhileLoading(t *testing.T) {
	store := newStore(&stubCreds{}, &stubBinder{}, identityAPI(domain.Identity{}))
	store.HandleUnauthorized("tok")
	if s := store.Snapshot(); s.State != domain.StateLoading {
		t.Fatalf("expected loading, got %s", s.State)
	}
}

func TestSessionStore_WaitReady(t *testing.T) {
	store := newStore(&stubCreds{}, &stubBinder{}, identityAPI(domain.Identity{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := store.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while loading, got %v", err)
	}

	go store.Hydrate(context.Background())
	s, err := store.WaitReady(context.Background())
	if err != nil || s.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous after hydrate, got %+v %v", s, err)
	}
}

func TestSessionStore_CredentialChangeNotifiesListeners(t *testing.T) {
	store := newStore(&stubCreds{}, &stubBinder{}, identityAPI(domain.Identity{Username: "carol", Role: domain.RoleCustomer}))
	store.Hydrate(context.Background())

	var switches int
	store.OnCredentialChange(func() { switches++ })

	if _, err := store.Login(context.Background(), "tok", domain.Identity{Username: "carol"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if switches != 1 {
		t.Fatalf("expected one notification on login, got %d", switches)
	}
	store.Logout(context.Background())
	if switches != 2 {
		t.Fatalf("expected a notification on logout, got %d", switches)
	}
	store.Logout(context.Background())
	if switches != 2 {
		t.Fatalf("logout of an anonymous session must not notify, got %d", switches)
	}
}
