package app

import (
	"context"
	"errors"

	"github.com/cimillas/gatepass/internal/auth"
	"github.com/cimillas/gatepass/internal/clock"
	"github.com/cimillas/gatepass/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenSigner issues the bearer credential handed back at login.
type TokenSigner interface {
	Issue(user domain.User) (string, error)
}

// AuthService wraps the identity collaborator: registration, login and
// credential issuance. Password hashes never leave this layer.
type AuthService struct {
	repo   UserRepository
	signer TokenSigner
	clock  clock.Clock
}

func NewAuthService(repo UserRepository, signer TokenSigner, clk clock.Clock) *AuthService {
	return &AuthService{repo: repo, signer: signer, clock: clk}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Email == "" {
		return domain.User{}, domain.ErrEmailRequired
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrPasswordRequired
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           newID(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  domain.User
}

// Login verifies the password and issues a signed credential. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if in.Email == "" {
		return LoginResult{}, domain.ErrEmailRequired
	}
	if in.Password == "" {
		return LoginResult{}, domain.ErrPasswordRequired
	}

	user, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.signer.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	user.PasswordHash = ""
	return LoginResult{Token: token, User: user}, nil
}
