package service

import (
	"context"
	"errors"
	"strings"

	"github.com/movsyannikov/tasktracker/internal/auth"
	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/repo"
)

type UserService struct {
	repo  repo.UserRepository
	creds *auth.Credentials
}

func NewUserService(repo repo.UserRepository, creds *auth.Credentials) *UserService {
	return &UserService{repo: repo, creds: creds}
}

// Register creates the identity and issues its first token. Duplicate
// emails surface as repo.ErrConflict straight from the store's unique
// index, so a concurrent duplicate registration cannot slip through.
func (s *UserService) Register(ctx context.Context, name, email, password string) (model.User, string, error) {
	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return model.User{}, "", err
	}

	user, err := s.repo.Create(ctx, model.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, "", err
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}

// Login fails identically for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (model.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}

	if !s.creds.CheckPassword(user.PasswordHash, password) {
		return model.User{}, "", auth.ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}
