package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"money-tracker-go-be/models"
)

// NotificationMessage is the body published for every stored notification.
type NotificationMessage struct {
	ID         uuid.UUID               `json:"id"`
	UserID     uuid.UUID               `json:"userId"`
	Type       models.NotificationType `json:"type"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	RelatedTo  models.RelatedTo        `json:"relatedTo"`
	RelatedID  *uuid.UUID              `json:"relatedId,omitempty"`
	IsPriority bool                    `json:"isPriority"`
	Timestamp  time.Time               `json:"timestamp"`
}

func NewNotificationMessage(n models.Notification) *NotificationMessage {
	return &NotificationMessage{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		RelatedTo:  n.RelatedTo,
		RelatedID:  n.RelatedID,
		IsPriority: n.IsPriority,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func notificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
