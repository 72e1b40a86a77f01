package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adeqintegrated/adeqsite/app/models"
	"github.com/adeqintegrated/adeqsite/app/repositories"
	"github.com/adeqintegrated/adeqsite/pkg/auth"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/metrics"
)

// Auth failure sentinels. The error text is the user-facing message the
// controller returns verbatim, so it stays in the storefront's wording.
var (
	ErrDuplicateAccount   = errors.New("User already exists with this email")
	ErrInvalidCode        = errors.New("Invalid verification code")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUnverified         = errors.New("Please verify your email first")
	ErrAccountNotFound    = errors.New("No user found with this email")
	ErrInvalidResetCode   = errors.New("Invalid or expired reset code")
	ErrUserGone           = errors.New("User not found")
)

// resetCodeTTL is how long a password reset code stays valid.
const resetCodeTTL = time.Hour

// UserStore is the slice of the user repository the auth service needs.
// *repositories.UserRepository satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) (*models.User, error)
	SetResetCode(ctx context.Context, email, code string, expires time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, email, code, passwordHash string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// AuthService implements the account lifecycle: register, verify, login,
// forgot/reset password, profile.
type AuthService struct {
	users  UserStore
	mailer Mailer
}

func NewAuthService(users UserStore, mailer Mailer) *AuthService {
	return &AuthService{users: users, mailer: mailer}
}

// Register creates an unverified account with a fresh verification code and
// emails the code best-effort. Returns the new user's hex id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := strings.ToLower(in.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		s.count("register", "duplicate")
		return "", ErrDuplicateAccount
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	code := GenerateCode()
	user := &models.User{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            email,
		Phone:            in.Phone,
		Password:         hash,
		VerificationCode: &code,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			s.count("register", "duplicate")
			return "", ErrDuplicateAccount
		}
		return "", err
	}

	// Best-effort: a failed send must not fail registration.
	if err := s.mailer.SendVerification(email, in.FirstName, code); err != nil {
		logger.WithCtx(ctx).Error("register: verification email", "error", err)
	}

	s.count("register", "success")
	logger.WithCtx(ctx).Info("user registered", "email", email)
	return user.ID.Hex(), nil
}

// VerifyEmail consumes the verification code and, on success, issues a
// session token for the now-verified user.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (string, models.PublicUser, error) {
	user, err := s.users.VerifyEmail(ctx, strings.ToLower(email), code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.count("verify", "invalid_code")
			return "", models.PublicUser{}, ErrInvalidCode
		}
		return "", models.PublicUser{}, err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	s.count("verify", "success")
	return token, user.Public(), nil
}

// Login checks credentials and returns a session token. Unknown email and
// wrong password share one message; an unverified account gets its own.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.count("login", "unknown_email")
			return "", models.PublicUser{}, ErrInvalidCredentials
		}
		return "", models.PublicUser{}, err
	}

	if !user.IsVerified {
		s.count("login", "unverified")
		return "", models.PublicUser{}, ErrUnverified
	}

	if !auth.CheckPassword(user.Password, password) {
		s.count("login", "bad_password")
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	s.count("login", "success")
	return token, user.Public(), nil
}

// ForgotPassword issues a reset code valid for one hour and emails it
// best-effort.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	code := GenerateCode()
	expires := time.Now().Add(resetCodeTTL)

	user, err := s.users.SetResetCode(ctx, strings.ToLower(email), code, expires)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.count("forgot", "unknown_email")
			return ErrAccountNotFound
		}
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.FirstName, code); err != nil {
		logger.WithCtx(ctx).Error("forgot password: reset email", "error", err)
	}

	s.count("forgot", "success")
	return nil
}

// ResetPassword consumes an unexpired reset code and replaces the password
// hash in one conditional update.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.ResetPassword(ctx, strings.ToLower(email), code, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.count("reset", "invalid_code")
			return ErrInvalidResetCode
		}
		return err
	}

	s.count("reset", "success")
	return nil
}

// Profile returns the profile projection for a token's user.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.ProfileUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProfileUser{}, ErrUserGone
		}
		return models.ProfileUser{}, err
	}
	return user.Profile(), nil
}

// CheckEmail reports whether an account exists, for storefront form hints.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.users.EmailExists(ctx, strings.ToLower(email))
}

func (s *AuthService) count(operation, outcome string) {
	metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}
