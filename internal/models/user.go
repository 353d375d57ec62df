package models

// AnonymousUserID идентификатор пользователя при отключённой аутентификации.
const AnonymousUserID = "anonymous"

// Identity пользователь, полученный из внешнего хранилища сессий.
// UserID непрозрачен: это строковый идентификатор провайдера аутентификации.
type Identity struct {
	UserID string `json:"user_id" db:"id"`
	Email  string `json:"email,omitempty" db:"email"`
	Name   string `json:"name,omitempty" db:"name"`
}

// AnonymousIdentity возвращает пользователя для окружений без хранилища сессий.
func AnonymousIdentity() Identity {
	return Identity{UserID: AnonymousUserID, Name: "Anonymous"}
}
