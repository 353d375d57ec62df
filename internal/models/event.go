package models

// Event сообщение живой ленты. Type имеет вид "<entity>.<action>", например "expert.updated".
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Действия над сущностями для имён событий
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventType собирает имя события.
func EventType(entity, action string) string {
	return entity + "." + action
}
