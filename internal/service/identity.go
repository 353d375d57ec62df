package service

import (
	"context"
	"errors"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
)

// IdentityResolver определяет пользователя по bearer токену.
// Неизвестный или просроченный токен даёт apperror.ErrUnauthorized.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// SessionStore читает сессии внешнего провайдера аутентификации.
type SessionStore interface {
	FindIdentity(ctx context.Context, token string) (*models.Identity, error)
}

// SessionResolver проверяет токен по таблице сессий.
type SessionResolver struct {
	sessions SessionStore
}

func NewSessionResolver(sessions SessionStore) *SessionResolver {
	return &SessionResolver{sessions: sessions}
}

func (r *SessionResolver) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	identity, err := r.sessions.FindIdentity(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	return identity, nil
}

// JWTResolver проверяет подписанный токен без обращения к базе.
type JWTResolver struct {
	tokens *TokenManager
}

func NewJWTResolver(tokens *TokenManager) *JWTResolver {
	return &JWTResolver{tokens: tokens}
}

func (r *JWTResolver) Resolve(_ context.Context, token string) (*models.Identity, error) {
	identity, err := r.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrUnauthorized.Message)
	}
	return identity, nil
}
