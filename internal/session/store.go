package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/log"
)

// Authenticator exchanges credentials for a token and the account behind it.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
}

// Listener is notified with a fresh snapshot after every state change
type Listener func(Session)

// Store is the single source of truth for who is logged in.
//
// A new Store reports IsLoading until Initialize has run. Login and Logout are the only
// writers; concurrent logins are not arbitrated.
type Store struct {
	storage Storage
	auth    Authenticator
	logger  *log.Logger

	mu      sync.RWMutex
	user    *Identity
	token   string
	loading bool

	initOnce sync.Once
	initErr  error

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the store logger
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store over the given storage and authenticator
func NewStore(storage Storage, auth Authenticator, opts ...StoreOption) *Store {
	s := &Store{
		storage:   storage,
		auth:      auth,
		logger:    log.Discard(),
		loading:   true,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize rehydrates the session from storage. It runs at most once per Store;
// later calls return the first result. An identity that fails to parse, or a token
// without an identity, is discarded and removed without an error.
func (s *Store) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.rehydrate(ctx)
	})
	return s.initErr
}

func (s *Store) rehydrate(ctx context.Context) error {
	defer s.setLoading(false)

	rawUser, hasUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		s.logger.WithError(err).Warn("could not read persisted session")
		return err
	}
	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		s.logger.WithError(err).Warn("could not read persisted session")
		return err
	}

	if !hasUser && !hasToken {
		return nil
	}

	var identity *Identity
	ok := false
	if hasUser {
		identity, ok = parseIdentity(rawUser)
	}
	if !ok || !hasToken || strings.TrimSpace(token) == "" {
		s.logger.Debug("discarding incomplete persisted session",
			"has_user", hasUser, "user_valid", ok, "has_token", hasToken)
		s.clearStorage(ctx)
		return nil
	}

	s.mu.Lock()
	s.user = identity
	s.token = token
	s.mu.Unlock()

	s.logger.Debug("session restored", "email", identity.Email, "role", identity.Role)
	return nil
}

// beginLoading marks the store as loading and returns the release func that clears
// the flag. Callers defer the release so no exit path leaves IsLoading stuck.
func (s *Store) beginLoading() func() {
	s.setLoading(true)
	return func() { s.setLoading(false) }
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	changed := s.loading != v
	s.loading = v
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Login authenticates, persists user and token together and returns the normalized role.
// On failure the previously stored session, if any, is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (authz.Role, error) {
	release := s.beginLoading()
	defer release()

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Debug("login rejected", "email", email, "error", err)
		return "", err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return "", berrors.New(berrors.ErrCodeAPIResponse, "authentication succeeded but no token was returned")
	}

	identity := &Identity{
		ID:    resp.User.ID,
		Email: resp.User.Email,
		Name:  resp.User.Name,
		Role:  authz.Normalize(resp.User.Role),
	}
	if identity.Email == "" {
		identity.Email = email
	}

	if err := s.persist(ctx, identity, resp.Token); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.user = identity
	s.token = resp.Token
	s.mu.Unlock()

	s.logger.Debug("logged in", "email", identity.Email, "role", identity.Role)
	return identity.Role, nil
}

// persist writes the token last so a crash between the writes leaves an identity
// without a token, which Initialize discards. A failed write puts back whatever
// was stored before.
func (s *Store) persist(ctx context.Context, identity *Identity, token string) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to encode identity", err)
	}

	prev, err := s.stored(ctx)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, KeyUser, string(data)); err != nil {
		s.restore(ctx, prev)
		return err
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		s.restore(ctx, prev)
		return err
	}
	return nil
}

type storedValue struct {
	value string
	ok    bool
}

// stored reads the persisted user and token, keyed by storage key
func (s *Store) stored(ctx context.Context) (map[string]storedValue, error) {
	prev := make(map[string]storedValue, 2)
	for _, key := range []string{KeyUser, KeyToken} {
		v, ok, err := s.storage.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		prev[key] = storedValue{value: v, ok: ok}
	}
	return prev, nil
}

func (s *Store) restore(ctx context.Context, prev map[string]storedValue) {
	for key, v := range prev {
		var err error
		if v.ok {
			err = s.storage.Set(ctx, key, v.value)
		} else {
			err = s.storage.Remove(ctx, key)
		}
		if err != nil {
			s.logger.WithError(err).Warn("could not restore persisted session", "key", key)
		}
	}
}

// Logout clears the session in memory and in storage. It never fails; storage
// errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	wasLoggedIn := s.user != nil
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.clearStorage(ctx)

	if wasLoggedIn {
		s.notify()
	}
}

func (s *Store) clearStorage(ctx context.Context) {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.logger.WithError(err).Warn("could not remove persisted session", "key", key)
		}
	}
}

// Snapshot returns a consistent copy of the current state
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Session{Token: s.token, IsLoading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Token returns the current credential. It matches api.TokenFunc.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn for change notifications and returns a func that
// unregisters it. Listeners run synchronously on the goroutine that changed the state.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify() {
	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}
