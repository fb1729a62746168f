package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/auth"
	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/repository"
	"github.com/mmeshcher/vidly/internal/validation"
)

// RegisterUser регистрирует нового пользователя и выпускает для него токен.
// Новые пользователи не являются администраторами.
func (s *Service) RegisterUser(ctx context.Context, in model.UserInput) (*model.User, string, error) {
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := model.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Authenticate проверяет email и пароль и возвращает подписанный токен.
// Неизвестный email и неверный пароль неразличимы для вызывающей стороны.
func (s *Service) Authenticate(ctx context.Context, in model.Credentials) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	u, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(*u)
}

// GetUser возвращает пользователя по идентификатору из токена.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, missing(err, entityUser, id.String())
	}
	return u, nil
}

func (s *Service) issueToken(u model.User) (string, error) {
	if s.tokens == nil {
		return "", fmt.Errorf("token manager not configured")
	}
	return s.tokens.Issue(auth.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}, s.now())
}
