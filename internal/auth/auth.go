// Package auth is the identity provider: email/password sign-up and
// sign-in with email verification, issuing signed session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid signup input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email already verified")
)

// userRepository is the subset of store.UserStore that Service requires.
type userRepository interface {
	Create(ctx context.Context, email, passwordHash, verificationToken string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	MarkVerified(ctx context.Context, id string) error
	SetVerificationToken(ctx context.Context, id, token string) error
}

// Mailer dispatches verification mail. The default implementation only
// logs the verification link; a real SMTP sender can be swapped in.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
}

// LogMailer writes the verification token to the log instead of sending
// mail. Useful for local deployments without an SMTP relay.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendVerification(_ context.Context, email, token string) error {
	m.Logger.Info("verification mail dispatch", "email", email, "token", token)
	return nil
}

// Session is the authenticated caller's identity as carried by a session
// token.
type Session struct {
	UserID   string
	Email    string
	Verified bool
}

type Service struct {
	users    userRepository
	mailer   Mailer
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(users userRepository, mailer Mailer, secret string, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		mailer:   mailer,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// SignUp registers a new user and dispatches a verification mail. The
// account starts unverified.
func (s *Service) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken := uuid.NewString()
	user, err := s.users.Create(ctx, email, string(hash), verificationToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, verificationToken); err != nil {
		// The account exists either way; the user can request a resend.
		s.logger.Warn("failed to send verification mail", "email", user.Email, "error", err)
	}

	return user, nil
}

// SignIn checks the credentials and returns a signed session token.
// Unverified users may sign in; verification is enforced per route.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"verified": user.Verified,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken validates a session token and extracts the session.
func (s *Service) ParseToken(tokenStr string) (*Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	verified, _ := claims["verified"].(bool)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	return &Session{UserID: sub, Email: email, Verified: verified}, nil
}

// Verify consumes a verification token and marks the account verified.
func (s *Service) Verify(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark verified: %w", err)
	}

	return s.users.GetByID(ctx, user.ID)
}

// ResendVerification rotates the user's verification token and dispatches
// a fresh mail.
func (s *Service) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	token := uuid.NewString()
	if err := s.users.SetVerificationToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("failed to rotate verification token: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}
	return nil
}

// CurrentUser resolves the session's user record, reflecting any
// verification that happened after the token was issued.
func (s *Service) CurrentUser(ctx context.Context, session *Session) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
