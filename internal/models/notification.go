package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeOrder    NotificationType = "order"
	NotificationTypeProduct  NotificationType = "product"
	NotificationTypeSystem   NotificationType = "system"
	NotificationTypeContacts NotificationType = "contacts"
)

// Notification is a single document fanned out to a recipient list.
// ReadBy tracks which recipients acknowledged it and is always a subset
// of Recipients.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	Type        NotificationType `json:"type"`
	Recipients  []uuid.UUID      `json:"recipients"`
	ReadBy      []uuid.UUID      `json:"read_by"`
	CreatedBy   *uuid.UUID       `json:"created_by,omitempty"`
	RelatedUser *uuid.UUID       `json:"related_user,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ReadByUser reports whether the given recipient already acknowledged it.
func (n *Notification) ReadByUser(userID uuid.UUID) bool {
	for _, id := range n.ReadBy {
		if id == userID {
			return true
		}
	}

	return false
}
