package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Entity types an interaction can refer to
const (
	EntityService        = "service"
	EntityTroc           = "troc"
	EntityEvent          = "event"
	EntityAbsence        = "absence"
	EntityMessage        = "message"
	EntityView           = "view"
	EntityRecommendation = "recommendation"
)

// Interaction types
const (
	InteractionCreated     = "created"
	InteractionBooked      = "booked"
	InteractionAccepted    = "accepted"
	InteractionCancelled   = "cancelled"
	InteractionCompleted   = "completed"
	InteractionDeclined    = "declined"
	InteractionJoined      = "joined"
	InteractionLeft        = "left"
	InteractionAttended    = "attended"
	InteractionOrganized   = "organized"
	InteractionOffered     = "offered"
	InteractionRequested   = "requested"
	InteractionExchanged   = "exchanged"
	InteractionSent        = "sent"
	InteractionReceived    = "received"
	InteractionReplied     = "replied"
	InteractionViewed      = "viewed"
	InteractionRecommended = "recommended"
	InteractionRated       = "rated"
)

// JSONMap is a free-form JSON object column
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(s)
	}
	return json.Unmarshal(bytes, m)
}

// Interaction is one logged behavioral event between two users.
// Self-authored events (e.g. "created") carry the author's id in both
// UserA and UserB. After creation only Rating, Notes and Metadata may
// change, via an explicit update.
type Interaction struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	UserA           int64     `gorm:"column:user_a;not null;index" json:"user_a"`
	UserB           int64     `gorm:"column:user_b;not null;index" json:"user_b"`
	EntityType      string    `gorm:"size:20;not null;index" json:"entity_type"` // service, troc, event, absence, message, view, recommendation
	InteractionType string    `gorm:"size:20;not null" json:"interaction_type"`
	Category        string    `gorm:"size:100;index" json:"category"`
	EntityID        int64     `gorm:"not null" json:"entity_id"`
	EntityTitle     string    `gorm:"size:200" json:"entity_title"`
	Date            time.Time `gorm:"index" json:"date"` // business time, may predate CreatedAt for backfilled data
	Rating          *int      `json:"rating,omitempty"`  // 1-5
	Notes           *string   `gorm:"type:text" json:"notes,omitempty"`
	Metadata        JSONMap   `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}
