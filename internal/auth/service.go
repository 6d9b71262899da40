package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	caser cases.Caser
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, caser: cases.Title(language.English)}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterInput carries the validated self-registration form.
type RegisterInput struct {
	CompanyID string
	Name      string
	Email     string
	Password  string
}

// Register creates a staff account under an existing company. Self-service
// registration only ever produces staff; admin roles are provisioned out of
// band.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	exists, err := s.repo.CompanyExists(ctx, input.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("check company: %w", err)
	}
	if !exists {
		return nil, shared.ErrCompanyUnknown
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         s.caser.String(strings.TrimSpace(input.Name)),
		PasswordHash: string(hash),
		Role:         gate.RoleStaff,
		CompanyID:    input.CompanyID,
		IsActive:     true,
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return user, nil
}
