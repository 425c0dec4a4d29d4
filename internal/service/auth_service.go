package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iqx/iqx-backend/internal/metrics"
	"github.com/iqx/iqx-backend/internal/model"
	"github.com/iqx/iqx-backend/internal/queue"
	"github.com/iqx/iqx-backend/internal/repository"
	"github.com/iqx/iqx-backend/internal/utils"
)

// UserStore is the persistence the auth flows need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventSink receives registration events.  Dispatch must not block.
type EventSink interface {
	Dispatch(ev queue.UserRegisteredEvent)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	FullName string
	Phone    *string
	Password string
}

// AuthService verifies identities and issues token pairs.
type AuthService struct {
	users      UserStore
	tokens     *utils.TokenCodec
	events     EventSink
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time

	dummyHash func() string
}

func NewAuthService(users UserStore, tokens *utils.TokenCodec, events EventSink, bcryptCost int, log *slog.Logger) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		events:     events,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
	// Unknown emails are checked against this hash so that both failure
	// paths of Authenticate cost one bcrypt comparison.
	s.dummyHash = sync.OnceValue(func() string {
		h, err := utils.HashPassword(uuid.NewString(), bcryptCost)
		if err != nil {
			return ""
		}
		return h
	})
	return s
}

// WithClock returns a copy of s that reads the current time from now when
// issuing tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	cp := *s
	cp.now = now
	return &cp
}

// NormalizeEmail trims and lower-cases an address.  Every lookup and insert
// goes through it, so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active USER account and schedules the registration
// notification.  Only the bcrypt digest of the password is stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	const op = "service.AuthService.Register"

	email := NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || fullName == "" || in.Password == "" {
		return nil, validationError("email, full_name and password are required")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, validationError(utils.ErrPasswordTooLong.Error())
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &model.User{
		Email:          email,
		FullName:       fullName,
		Phone:          trimmedOrNil(in.Phone),
		HashedPassword: hash,
		Role:           model.RoleUser,
		Verified:       false,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.Registrations.Inc()

	ev := queue.UserRegisteredEvent{
		UserID:     u.ID.String(),
		Email:      u.Email,
		FullName:   u.FullName,
		CreateDate: u.CreateDate,
	}
	if u.Phone != nil {
		ev.Phone = *u.Phone
	}
	s.events.Dispatch(ev)

	s.log.Info("user registered", slog.String("op", op), slog.String("user_id", ev.UserID))
	return u, nil
}

// Authenticate returns the user owning email if password matches.  An
// unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if u == nil {
		utils.VerifyPassword(s.dummyHash(), password)
		metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.HashedPassword, password) {
		metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and, for active accounts, issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}
	if !u.IsActive {
		metrics.AuthFailures.WithLabelValues("inactive").Inc()
		return TokenPair{}, ErrInactiveAccount
	}
	return s.IssueTokenPair(u.ID)
}

// IssueTokenPair signs a fresh access and refresh token for userID.
func (s *AuthService) IssueTokenPair(userID uuid.UUID) (TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.tokens.Issue(userID.String(), utils.AccessToken, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshExp, err := s.tokens.Issue(userID.String(), utils.RefreshToken, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair.  The presented
// refresh token is not revoked and stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	u, err := s.userFromToken(ctx, refreshToken, utils.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return s.IssueTokenPair(u.ID)
}

// ResolveUser returns the user an access token was issued to.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*model.User, error) {
	return s.userFromToken(ctx, accessToken, utils.AccessToken)
}

func (s *AuthService) userFromToken(ctx context.Context, raw string, kind utils.TokenKind) (*model.User, error) {
	sub, err := s.tokens.Decode(strings.TrimSpace(raw), kind)
	if err != nil {
		s.log.Debug("token rejected", slog.String("kind", string(kind)), slog.Any("error", err))
		metrics.AuthFailures.WithLabelValues(tokenFailureReason(err)).Inc()
		return nil, err
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AuthService.userFromToken: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func tokenFailureReason(err error) string {
	if errors.Is(err, utils.ErrExpiredToken) {
		return "expired_token"
	}
	return "invalid_token"
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
