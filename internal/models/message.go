package models

import "time"

type CommunityMessage struct {
	MessageID string    `firestore:"messageId" json:"messageId"`
	UserID    string    `firestore:"userId" json:"userId"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Edited reports whether the message content changed after it was posted.
func (m CommunityMessage) Edited() bool {
	return !m.UpdatedAt.Equal(m.CreatedAt)
}
