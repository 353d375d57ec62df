package service

import "github.com/ignatzorin/expertnet-backend/internal/models"

// EventPublisher доставляет события живой ленты владельцу данных.
type EventPublisher interface {
	Publish(userID string, event models.Event)
}

func publish(p EventPublisher, userID, entity, action string, data interface{}) {
	if p == nil {
		return
	}
	p.Publish(userID, models.Event{Type: models.EventType(entity, action), Data: data})
}
