package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a two-party conversation stored in MongoDB. The normalized
// pair is written twice: as the scalar ParticipantLo/ParticipantHi
// fields carrying the compound unique index that deduplicates threads,
// and as the ParticipantIDs array used for membership filters. The
// index cannot live on the array: a unique multikey index is unique
// per element, which would cap every user at one thread total.
type Thread struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ParticipantLo  uint               `json:"-" bson:"participant_lo"`
	ParticipantHi  uint               `json:"-" bson:"participant_hi"`
	ParticipantIDs []uint             `json:"participant_ids" bson:"participant_ids"`
	Messages       []Message          `json:"messages" bson:"messages"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// Message is one entry of a thread's append-only message list.
type Message struct {
	SenderID uint      `json:"sender_id" bson:"sender_id"`
	Text     string    `json:"text" bson:"text"`
	SentAt   time.Time `json:"sent_at" bson:"sent_at"`
}

// HasParticipant reports whether id is one of the thread's two parties.
func (t *Thread) HasParticipant(id uint) bool {
	for _, p := range t.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Peer returns the other participant relative to id.
func (t *Thread) Peer(id uint) uint {
	for _, p := range t.ParticipantIDs {
		if p != id {
			return p
		}
	}
	return id
}

// ThreadSummary is the inbox view of a thread: the peer resolved to a
// profile summary plus the message count.
type ThreadSummary struct {
	ThreadID     string      `json:"thread_id"`
	Peer         UserCompact `json:"peer"`
	MessageCount int         `json:"message_count"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ResolvedMessage is a message with its sender resolved for display.
type ResolvedMessage struct {
	Sender UserCompact `json:"sender"`
	Text   string      `json:"text"`
	SentAt time.Time   `json:"sent_at"`
}

// AppendMessageRequest defines the request body for posting to a thread.
type AppendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}
