package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/estaterec/internal/domain"
	domsession "github.com/kailas-cloud/estaterec/internal/domain/session"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
	"github.com/kailas-cloud/estaterec/internal/metrics"
)

// DefaultSessionTTL is the session lifetime used when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Config tunes hashing and session lifetime.
type Config struct {
	SessionTTL time.Duration
	BcryptCost int
}

// LoginResult is a successful login: the account, its new session and the signed token.
type LoginResult struct {
	User    domuser.User
	Session domsession.Session
	Token   string
}

// Service handles registration, login, logout and token authentication.
type Service struct {
	users    UserRepository
	sessions SessionStore
	tokens   *TokenSigner
	cfg      Config
	now      func() time.Time
	newID    func() string

	dummyOnce sync.Once
	dummyHash []byte
}

// New creates an auth service.
func New(users UserRepository, sessions SessionStore, tokens *TokenSigner, cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Register creates an account after checking the password policy.
func (s *Service) Register(ctx context.Context, username, password string) (domuser.User, error) {
	u, err := s.register(ctx, username, password)
	record("register", err)
	return u, err
}

func (s *Service) register(ctx context.Context, username, password string) (domuser.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domuser.User{}, domain.ErrMissingCredentials
	}
	name, err := domuser.NormalizeUsername(username)
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidUsername, err)
	}
	if err := domuser.ValidatePassword(password); err != nil {
		return domuser.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return domuser.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := domuser.New(name, string(hash))
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidUsername, err)
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domuser.User{}, fmt.Errorf("register %q: %w", name, err)
	}
	return created, nil
}

// Login checks credentials and opens a new session.
// Unknown users and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	res, err := s.login(ctx, username, password)
	record("login", err)
	return res, err
}

func (s *Service) login(ctx context.Context, username, password string) (LoginResult, error) {
	name := strings.TrimSpace(username)
	if name == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same bcrypt work as a real check, so response time does not reveal usernames.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("login lookup: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	sess, err := domsession.New(s.newID(), u.ID(), u.Username(), s.now(), s.cfg.SessionTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("new session: %w", err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Sign(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID())
		return LoginResult{}, err
	}
	return LoginResult{User: u, Session: sess, Token: token}, nil
}

// Logout revokes the session behind token. Empty, malformed or already revoked tokens are no-ops.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil //nolint:nilerr // an unusable token has no session to revoke
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate resolves a token to its identity. The token must verify and its session must still exist.
func (s *Service) Authenticate(ctx context.Context, token string) (domsession.Identity, error) {
	if token == "" {
		return domsession.Identity{}, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domsession.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return domsession.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domsession.Identity{}, fmt.Errorf("%w: session revoked or expired", domain.ErrUnauthenticated)
		}
		metrics.AuthAttemptsTotal.WithLabelValues("session", metrics.ResultError).Inc()
		return domsession.Identity{}, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID() != userID {
		return domsession.Identity{}, fmt.Errorf("%w: session does not match token", domain.ErrUnauthenticated)
	}
	return domsession.Identity{UserID: sess.UserID(), Username: sess.Username(), SessionID: sess.ID()}, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("estaterec-dummy-password"), s.cfg.BcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func record(op string, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStorage):
		result = metrics.ResultError
	default:
		result = metrics.ResultRejected
	}
	metrics.AuthAttemptsTotal.WithLabelValues(op, result).Inc()
}
