package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"workasana/internal/model"
	"workasana/internal/token"
)

const bcryptCost = 12

// UserStore is the credential-store contract the issuer needs. The
// concrete implementation is repository.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

// AuthService turns verified credentials into signed session tokens.
type AuthService struct {
	users UserStore
	codec *token.Codec
}

func NewAuthService(users UserStore, codec *token.Codec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Signup registers a new identity and issues its first token. The
// existence pre-check is best effort: two concurrent signups can both
// reach the insert, where the store's unique constraint arbitrates
// and the loser gets the same ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, name string, email string, password string) (model.AuthResponse, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return model.AuthResponse{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if exists {
		return model.AuthResponse{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthResponse{}, err
	}

	return s.issue(user)
}

// Login verifies credentials. A missing user and a wrong password are
// indistinguishable to the caller: both surface ErrInvalidCredentials
// so the response never reveals which half failed.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}

	return s.issue(user)
}

// CurrentUser re-resolves the identity behind an already-verified
// payload. Tokens are not revocable, so a deleted account failing
// here is the only way an outstanding token dies early.
func (s *AuthService) CurrentUser(ctx context.Context, claims *token.Claims) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) issue(user model.User) (model.AuthResponse, error) {
	signed, err := s.codec.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: signed, User: user.Public()}, nil
}
