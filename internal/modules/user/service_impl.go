package user

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/tenant"
)

// AccountCreator provisions a connected payment account for a new tenant.
// Implemented by the checkout gateway.
type AccountCreator interface {
	CreateAccount(ctx context.Context) (string, error)
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

type service struct {
	repo     Repository
	tenants  tenant.Repository
	accounts AccountCreator
}

// NewService creates a new user service.
func NewService(repo Repository, tenants tenant.Repository, accounts AccountCreator) Service {
	return &service{repo: repo, tenants: tenants, accounts: accounts}
}

func (s *service) Register(ctx context.Context, email, username, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.CodeBadRequest, "email and password are required")
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperr.New(apperr.CodeBadRequest, "username must be a valid store slug")
	}

	if existing, err := s.repo.GetByUsername(ctx, username); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "user lookup failed", err)
	} else if existing != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "username already taken")
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "user lookup failed", err)
	} else if existing != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "password hashing failed", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "user creation failed", err)
	}

	// Every seller gets a storefront and a connected payment account up
	// front; payouts stay blocked until onboarding completes.
	accountID, err := s.accounts.CreateAccount(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "payment account creation failed", err)
	}
	t := &tenant.Tenant{
		ID:                      uuid.New(),
		Slug:                    username,
		Name:                    username,
		PaymentAccountID:        accountID,
		PaymentDetailsSubmitted: false,
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "tenant creation failed", err)
	}

	return u, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "user lookup failed", err)
	}
	if u == nil {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	return u, nil
}
