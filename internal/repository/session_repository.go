package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// ErrSessionNotFound возвращается для неизвестного или просроченного токена.
var ErrSessionNotFound = errors.New("session not found")

type sessionRow struct {
	models.Identity
	ExpiresAt time.Time `db:"expiresAt"`
}

// SessionRepository читает сессии внешнего провайдера аутентификации (схема public).
// Таблицы session и "user" принадлежат провайдеру, сервис только читает их.
type SessionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// FindIdentity возвращает пользователя по токену сессии.
func (r *SessionRepository) FindIdentity(ctx context.Context, token string) (*models.Identity, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `
		SELECT u.id, u.email, u.name, s."expiresAt"
		FROM public.session s
		JOIN public."user" u ON s."userId" = u.id
		WHERE s.token = $1
	`, token)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session repository: find identity: %w", err)
	}

	if !row.ExpiresAt.After(r.now()) {
		return nil, ErrSessionNotFound
	}

	identity := row.Identity
	return &identity, nil
}
