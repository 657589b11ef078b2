// Package session owns the client-side authentication state for GreenCampus:
// the bearer token, the hydrated user profile, and the resolution status the
// route guard keys off. There is exactly one Store per running client; every
// other component reads through its accessors and mutates only through its
// operations.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Role is the fixed role enumeration carried on every profile.
type Role string

const (
	RoleStudent   Role = "student"
	RoleNGO       Role = "ngo"
	RoleMessStaff Role = "mess_staff"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleNGO, RoleMessStaff, RoleAdmin:
		return true
	}
	return false
}

// RegisterableRoles is the subset of roles the registration form offers.
// Admin is deliberately absent so a client can never self-escalate; the
// backend enforces the same restriction authoritatively.
func RegisterableRoles() []Role {
	return []Role{RoleStudent, RoleNGO, RoleMessStaff}
}

// Status is the resolution state of the session. It starts Unresolved and
// transitions at most once per process into Resolving (a persisted token was
// found and is being validated) and then Authenticated or Anonymous, or
// directly into Anonymous when no token is persisted.
type Status int

const (
	StatusUnresolved Status = iota
	StatusResolving
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusResolving:
		return "resolving"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Profile is the normalized user record exposed to consumers. Token is
// merged in for components that attach it to requests directly.
type Profile struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	VolunteerPoints int    `json:"volunteer_points"`
	Token           string `json:"token,omitempty"`
}

// ErrMalformedResponse marks a response body that cannot be accepted as a
// valid profile or token payload.
var ErrMalformedResponse = errors.New("malformed server response")

// ErrInvalidRole is returned by SignUp for a role outside the registerable set.
var ErrInvalidRole = errors.New("invalid role")

// APIError is a non-2xx response from the backend, carrying the message the
// calling form displays.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

const (
	defaultRequestTimeout = 10 * time.Second
	maxProfileAttempts    = 3
)

// Store is the single authority for "who is logged in". All state behind mu
// moves together: the token visible to outgoing requests is updated in the
// same critical section as status and user, so there is never a window where
// a request carries a stale or absent authorization.
type Store struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
	logger  *zap.Logger

	mu     sync.Mutex
	status Status
	token  string
	user   *Profile
	// opSeq orders session-mutating operations; a commit is dropped when a
	// newer operation has begun since, so a stale hydrate response can never
	// clobber a fresher sign-in.
	opSeq uint64

	hydrateOnce sync.Once
	resolveOnce sync.Once
	resolved    chan struct{}
}

// NewStore creates the session store. tokens may not be nil; pass
// NewMemoryTokenStore for a non-durable session.
func NewStore(baseURL string, tokens TokenStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: defaultRequestTimeout},
		tokens:   tokens,
		logger:   logger,
		status:   StatusUnresolved,
		resolved: make(chan struct{}),
	}
}

// SetHTTPClient replaces the underlying HTTP client. Intended for tests and
// for callers that need custom transport settings; call before Hydrate.
func (s *Store) SetHTTPClient(c *http.Client) {
	if c != nil {
		s.client = c
	}
}

// Status returns the current resolution status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns a copy of the current profile, or nil when not authenticated.
func (s *Store) User() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token, or empty when none is attached.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Resolved is closed exactly once, when hydration completes on either the
// success or the failure branch. Loading indicators tied to session
// resolution key off this channel.
func (s *Store) Resolved() <-chan struct{} {
	return s.resolved
}

// Hydrate restores the session from the persisted token. It runs at most
// once per Store; later calls are no-ops. Failures are absorbed here: a
// stale or invalid token silently resets the session to anonymous, and the
// user recovers by logging in fresh.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer s.finishResolution()
		s.hydrate(ctx)
	})
}

func (s *Store) hydrate(ctx context.Context) {
	l := s.logger.With(zap.String("method", "Hydrate"))

	token, err := s.tokens.Load()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			l.Warn("Failed to read persisted token", zap.Error(err))
		}
		seq := s.begin()
		s.commit(seq, func() { s.setAnonymousLocked() })
		return
	}

	seq := s.beginWith(func() {
		s.token = token
		s.status = StatusResolving
	})

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		l.Warn("Session restore failed, clearing persisted token", zap.Error(err))
		if clearErr := s.tokens.Clear(); clearErr != nil {
			l.Warn("Failed to clear persisted token", zap.Error(clearErr))
		}
		s.commit(seq, func() { s.setAnonymousLocked() })
		return
	}

	profile.Token = token
	if !s.commit(seq, func() {
		s.user = profile
		s.status = StatusAuthenticated
	}) {
		l.Debug("Hydration superseded by a newer operation, result dropped")
		return
	}
	l.Info("Session restored", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
}

// SignIn exchanges credentials for a token and profile. On failure the
// session state is left exactly as it was and the error is returned for the
// login form to display.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Profile, error) {
	l := s.logger.With(zap.String("method", "SignIn"))

	payload := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	seq := s.begin()
	body, err := s.doRequest(ctx, http.MethodPost, "/api/auth/login", payload, "")
	if err != nil {
		l.Warn("Sign-in failed", zap.Error(err))
		return nil, err
	}

	profile, token, err := s.acceptAuthResponse(body)
	if err != nil {
		l.Warn("Sign-in response rejected", zap.Error(err))
		return nil, err
	}

	if err := s.tokens.Save(token); err != nil {
		// The in-memory session is still valid; only durability is lost.
		l.Warn("Failed to persist token", zap.Error(err))
	}
	s.commit(seq, func() {
		s.token = token
		s.user = profile
		s.status = StatusAuthenticated
	})
	l.Info("Sign-in successful", zap.String("user_id", profile.ID))
	return profile, nil
}

// SignUp registers a new account and signs it in. The role must be one of
// the registerable subset; admin is rejected before the request is sent.
func (s *Store) SignUp(ctx context.Context, fullName, email, password string, role Role) (*Profile, error) {
	l := s.logger.With(zap.String("method", "SignUp"))

	registerable := false
	for _, r := range RegisterableRoles() {
		if r == role {
			registerable = true
			break
		}
	}
	if !registerable {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	payload := map[string]string{
		"full_name": strings.TrimSpace(fullName),
		"email":     strings.TrimSpace(email),
		"password":  password,
		"role":      string(role),
	}
	seq := s.begin()
	body, err := s.doRequest(ctx, http.MethodPost, "/api/auth/register", payload, "")
	if err != nil {
		l.Warn("Sign-up failed", zap.Error(err))
		return nil, err
	}

	profile, token, err := s.acceptAuthResponse(body)
	if err != nil {
		l.Warn("Sign-up response rejected", zap.Error(err))
		return nil, err
	}

	if err := s.tokens.Save(token); err != nil {
		l.Warn("Failed to persist token", zap.Error(err))
	}
	s.commit(seq, func() {
		s.token = token
		s.user = profile
		s.status = StatusAuthenticated
	})
	l.Info("Sign-up successful", zap.String("user_id", profile.ID))
	return profile, nil
}

// SignOut clears the persisted token and resets the session to anonymous.
// It is synchronous, idempotent and cannot fail; a storage error only costs
// durability and is logged.
func (s *Store) SignOut() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("Failed to clear persisted token on sign-out", zap.Error(err))
	}
	seq := s.begin()
	s.commit(seq, func() { s.setAnonymousLocked() })
	s.logger.Info("Signed out")
}

// acceptAuthResponse normalizes a login/register success body into a profile
// with the token merged in.
func (s *Store) acceptAuthResponse(body []byte) (*Profile, string, error) {
	token, err := extractToken(body)
	if err != nil {
		return nil, "", err
	}
	profile, err := normalizeProfile(body)
	if err != nil {
		return nil, "", err
	}
	profile.Token = token
	return profile, token, nil
}

// fetchProfile validates a token against the profile endpoint, retrying
// transient transport failures so a momentary network blip does not cost the
// user their session. Definitive rejections (4xx) are not retried.
func (s *Store) fetchProfile(ctx context.Context, token string) (*Profile, error) {
	operation := func() (*Profile, error) {
		body, err := s.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, token)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		profile, err := normalizeProfile(body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return profile, nil
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxProfileAttempts),
	)
}

// doRequest issues a JSON request. The bearer token is attached when
// non-empty; for authenticated endpoints callers pass the token captured
// together with the operation's sequence number.
func (s *Store) doRequest(ctx context.Context, method, path string, payload any, token string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage digs a display message out of an error body, tolerating both
// the "error" and "message" field conventions.
func errorMessage(body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	return stringField(raw, "error", "message")
}

// begin opens a new session-mutating operation and returns its sequence
// number. A later commit with this number succeeds only while no newer
// operation has begun.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opSeq++
	return s.opSeq
}

// beginWith additionally applies a state change inside the same critical
// section, so hydration's transition to resolving and its sequence number
// are taken atomically.
func (s *Store) beginWith(apply func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opSeq++
	apply()
	return s.opSeq
}

// commit applies a state change only if no newer operation has begun since
// seq was issued. Returns whether the change was applied.
func (s *Store) commit(seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.opSeq {
		return false
	}
	apply()
	return true
}

// setAnonymousLocked resets the session. Caller holds mu.
func (s *Store) setAnonymousLocked() {
	s.token = ""
	s.user = nil
	s.status = StatusAnonymous
}

func (s *Store) finishResolution() {
	s.resolveOnce.Do(func() { close(s.resolved) })
}
