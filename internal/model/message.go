package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	SenderID           uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID        uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	Body               string     `json:"body" db:"body"`
	SentAt             time.Time  `json:"sent_at" db:"sent_at"`
	ReadAt             *time.Time `json:"read_at,omitempty" db:"read_at"`
	DeletedBySender    bool       `json:"-" db:"deleted_by_sender"`
	DeletedByRecipient bool       `json:"-" db:"deleted_by_recipient"`
}

// VisibleTo reports whether the account still sees the message, i.e. it
// has not soft-deleted it on its own side.
func (m *Message) VisibleTo(accountID uuid.UUID) bool {
	switch accountID {
	case m.SenderID:
		return !m.DeletedBySender
	case m.RecipientID:
		return !m.DeletedByRecipient
	}
	return false
}

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Body        string    `json:"body" binding:"required,max=10000"`
}
