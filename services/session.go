package services

import (
	"context"
	"sync"
)

// State is one value in the session-state stream delivered to
// subscribers. A nil User means no session.
type State struct {
	User *Identity
}

// TokenCache holds the bearer token the analysis API client attaches to
// outbound requests. Only the session store writes it.
type TokenCache struct {
	mu    sync.RWMutex
	token string
}

// Token returns the cached bearer token, or "" when no session exists.
func (c *TokenCache) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *TokenCache) set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *TokenCache) clear() {
	c.set("")
}

// Store tracks the current user session against an identity provider.
// It owns the token cache: the token is set exactly when the current
// user becomes non-nil and cleared exactly when it becomes nil. On
// logout the cache is cleared before the user, so there is never a
// window where an absent user still has a valid cached token.
type Store struct {
	provider IdentityProvider
	cache    *TokenCache

	mu      sync.Mutex
	current *Identity
	subs    map[int]chan State
	nextSub int
}

func NewSessionStore(provider IdentityProvider) *Store {
	return &Store{
		provider: provider,
		cache:    &TokenCache{},
		subs:     make(map[int]chan State),
	}
}

// TokenCache exposes the cache for wiring into the analysis API client.
func (s *Store) TokenCache() *TokenCache {
	return s.cache
}

// CurrentUser returns the authenticated identity, or nil.
func (s *Store) CurrentUser() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a listener for session-state changes. The current
// state is delivered immediately so consumers always react to the
// latest value rather than a side channel.
func (s *Store) Subscribe() (int, <-chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 8)
	s.subs[id] = ch
	ch <- State{User: s.current}
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// SignUp registers a new account. On success the session is established
// and subscribers are notified; on failure nothing changes.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(sess)
	return nil
}

// Login authenticates an existing account.
func (s *Store) Login(ctx context.Context, email, password string) error {
	sess, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(sess)
	return nil
}

// Logout drops the session. The token cache is cleared first.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.cache.clear()
	s.current = nil
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

func (s *Store) establish(sess *Session) {
	s.mu.Lock()
	identity := sess.Identity
	s.current = &identity
	s.cache.set(sess.AccessToken)
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Store) notifyLocked() {
	state := State{User: s.current}
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default: // slow subscriber, drop rather than block
		}
	}
}
