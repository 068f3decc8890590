package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/user"
)

// Claims carry the authenticated identity inside the token.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

type service struct {
	userRepo user.Repository
	secret   []byte
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, secret []byte) Service {
	return &service{userRepo: userRepo, secret: secret}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "user lookup failed", err)
	}
	if u == nil {
		return "", apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	claims := &Claims{
		Email: u.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "token signing failed", err)
	}
	return signed, nil
}
