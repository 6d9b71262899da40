package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillforge-lms/skillforge/internal/auth"
	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/shared"
	_ "github.com/skillforge-lms/skillforge/testing"
)

type stubRepo struct {
	user      *auth.User
	companies map[string]bool
	created   *auth.User
	nextID    int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, user *auth.User) (int64, error) {
	if s.user != nil && s.user.Email == user.Email {
		return 0, shared.ErrEmailTaken
	}
	s.created = user
	if s.nextID == 0 {
		s.nextID = 1
	}
	return s.nextID, nil
}

func (s *stubRepo) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	return s.companies[companyID], nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		ID:           1,
		Email:        "staff@acme.test",
		PasswordHash: hashOf(t, "correct-horse"),
		Role:         gate.RoleStaff,
		CompanyID:    "c-1",
		IsActive:     true,
	}}
	service := auth.NewService(repo)

	user, err := service.Authenticate(context.Background(), "staff@acme.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	// Email lookup is case-insensitive.
	_, err = service.Authenticate(context.Background(), "Staff@Acme.Test", "correct-horse")
	assert.NoError(t, err)

	_, err = service.Authenticate(context.Background(), "staff@acme.test", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = service.Authenticate(context.Background(), "nobody@acme.test", "correct-horse")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		Email:        "gone@acme.test",
		PasswordHash: hashOf(t, "correct-horse"),
		IsActive:     false,
	}}
	service := auth.NewService(repo)

	_, err := service.Authenticate(context.Background(), "gone@acme.test", "correct-horse")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterCreatesStaff(t *testing.T) {
	repo := &stubRepo{companies: map[string]bool{"c-1": true}, nextID: 7}
	service := auth.NewService(repo)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		CompanyID: "c-1",
		Name:      "jane doe",
		Email:     "Jane.Doe@Acme.Test",
		Password:  "longenoughpw",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, gate.RoleStaff, user.Role)
	assert.Equal(t, "c-1", user.CompanyID)
	assert.Equal(t, "jane.doe@acme.test", user.Email)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenoughpw")))
}

func TestRegisterUnknownCompany(t *testing.T) {
	service := auth.NewService(&stubRepo{companies: map[string]bool{}})

	_, err := service.Register(context.Background(), auth.RegisterInput{
		CompanyID: "c-404",
		Name:      "Jane",
		Email:     "jane@acme.test",
		Password:  "longenoughpw",
	})
	assert.ErrorIs(t, err, shared.ErrCompanyUnknown)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubRepo{
		user:      &auth.User{Email: "jane@acme.test"},
		companies: map[string]bool{"c-1": true},
	}
	service := auth.NewService(repo)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		CompanyID: "c-1",
		Name:      "Jane",
		Email:     "jane@acme.test",
		Password:  "longenoughpw",
	})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}
