package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adeqintegrated/adeqsite/app/models"
	"github.com/adeqintegrated/adeqsite/app/repositories"
	"github.com/adeqintegrated/adeqsite/config"
	"github.com/adeqintegrated/adeqsite/pkg/auth"
)

func init() {
	config.Set("JWT_SECRET", "auth-service-test-secret")
}

// fakeStore is an in-memory UserStore mirroring the repository's
// conditional-update semantics.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{}}
}

func (s *fakeStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return repositories.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	if user.Role == "" {
		user.Role = "user"
	}
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeStore) VerifyEmail(_ context.Context, email, code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.VerificationCode == nil || *u.VerificationCode != code {
		return nil, repositories.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationCode = nil
	cp := *u
	return &cp, nil
}

func (s *fakeStore) SetResetCode(_ context.Context, email, code string, expires time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.ResetPasswordCode = &code
	exp := expires
	u.ResetPasswordExpires = &exp
	cp := *u
	return &cp, nil
}

func (s *fakeStore) ResetPassword(_ context.Context, email, code, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.ResetPasswordCode == nil || *u.ResetPasswordCode != code ||
		u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(time.Now()) {
		return repositories.ErrNotFound
	}
	u.Password = passwordHash
	u.ResetPasswordCode = nil
	u.ResetPasswordExpires = nil
	return nil
}

func (s *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[email]
	return ok, nil
}

// expireResetCode backdates the stored expiry for expiry tests.
func (s *fakeStore) expireResetCode(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	s.users[email].ResetPasswordExpires = &past
}

// fakeMailer records sent codes instead of queueing email.
type fakeMailer struct {
	mu            sync.Mutex
	verifications map[string]string // email → code
	resets        map[string]string
	receipts      []Order
	fail          bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{verifications: map[string]string{}, resets: map[string]string{}}
}

func (m *fakeMailer) SendVerification(email, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.verifications[email] = code
	return nil
}

func (m *fakeMailer) SendPasswordReset(email, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.resets[email] = code
	return nil
}

func (m *fakeMailer) SendReceipt(order Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, order)
	return nil
}

func newTestService() (*AuthService, *fakeStore, *fakeMailer) {
	store := newFakeStore()
	mailer := newFakeMailer()
	return NewAuthService(store, mailer), store, mailer
}

func register(t *testing.T, svc *AuthService) string {
	t.Helper()
	id, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ade", LastName: "Bello", Email: "Ade@Example.com",
		Phone: "08104237317", Password: "hunter22",
	})
	require.NoError(t, err)
	return id
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	svc, store, mailer := newTestService()
	id := register(t, svc)
	assert.NotEmpty(t, id)

	// Email is stored lowercased and the account starts unverified.
	u, err := store.FindByEmail(context.Background(), "ade@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	assert.Equal(t, "user", u.Role)
	require.NotNil(t, u.VerificationCode)
	assert.Len(t, *u.VerificationCode, 6)

	// Password is stored hashed, never in the clear.
	assert.NotEqual(t, "hunter22", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "hunter22"))

	// The emailed code is the stored one.
	assert.Equal(t, *u.VerificationCode, mailer.verifications["ade@example.com"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Other", LastName: "Person", Email: "ADE@example.com",
		Phone: "0", Password: "different",
	})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, store, mailer := newTestService()
	mailer.fail = true

	id := register(t, svc)
	assert.NotEmpty(t, id)
	_, err := store.FindByEmail(context.Background(), "ade@example.com")
	assert.NoError(t, err)
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	svc, _, mailer := newTestService()
	register(t, svc)
	code := mailer.verifications["ade@example.com"]

	token, user, err := svc.VerifyEmail(context.Background(), "ade@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ade@example.com", user.Email)
	assert.Equal(t, "Ade", user.FirstName)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The code is single-use.
	_, _, err = svc.VerifyEmail(context.Background(), "ade@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)

	_, _, err := svc.VerifyEmail(context.Background(), "ade@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestLoginStates(t *testing.T) {
	svc, _, mailer := newTestService()
	register(t, svc)
	ctx := context.Background()

	// Unknown account and wrong password share one message.
	_, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unverified account is told to verify, even with the right password.
	_, _, err = svc.Login(ctx, "ade@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnverified)

	_, _, err = svc.VerifyEmail(ctx, "ade@example.com", mailer.verifications["ade@example.com"])
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ade@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, user, err := svc.Login(ctx, "ade@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ade@example.com", user.Email)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, mailer := newTestService()
	register(t, svc)
	ctx := context.Background()

	_, _, err := svc.VerifyEmail(ctx, "ade@example.com", mailer.verifications["ade@example.com"])
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "Ade@Example.com"))
	code := mailer.resets["ade@example.com"]
	require.Len(t, code, 6)

	// Wrong code is rejected.
	err = svc.ResetPassword(ctx, "ade@example.com", "000000", "newpass99")
	assert.ErrorIs(t, err, ErrInvalidResetCode)

	require.NoError(t, svc.ResetPassword(ctx, "ade@example.com", code, "newpass99"))

	// Old password dead, new one works.
	_, _, err = svc.Login(ctx, "ade@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ade@example.com", "newpass99")
	assert.NoError(t, err)

	// The reset code is single-use.
	err = svc.ResetPassword(ctx, "ade@example.com", code, "again1234")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestResetPasswordExpiredCode(t *testing.T) {
	svc, store, mailer := newTestService()
	register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, "ade@example.com"))
	code := mailer.resets["ade@example.com"]
	store.expireResetCode("ade@example.com")

	err := svc.ResetPassword(ctx, "ade@example.com", code, "newpass99")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestProfile(t *testing.T) {
	svc, _, mailer := newTestService()
	register(t, svc)
	ctx := context.Background()

	_, user, err := svc.VerifyEmail(ctx, "ade@example.com", mailer.verifications["ade@example.com"])
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ade", profile.FirstName)
	assert.True(t, profile.IsVerified)

	_, err = svc.Profile(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestCheckEmail(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)
	ctx := context.Background()

	exists, err := svc.CheckEmail(ctx, "ADE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
