package dto

import (
	"time"
)

// RecordInteractionRequest creates one interaction event
type RecordInteractionRequest struct {
	UserB           int64                  `json:"user_b"`
	EntityType      string                 `json:"entity_type"`
	InteractionType string                 `json:"interaction_type"`
	Category        string                 `json:"category"`
	EntityID        int64                  `json:"entity_id"`
	EntityTitle     string                 `json:"entity_title"`
	Date            *time.Time             `json:"date,omitempty"` // defaults to now
	Rating          *int                   `json:"rating,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateInteractionRequest updates the mutable fields of an interaction
type UpdateInteractionRequest struct {
	Rating *int    `json:"rating,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// CategoryCount is one row of the per-user category ranking
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// InteractionStats aggregates a user's interaction history
type InteractionStats struct {
	TotalInteractions int64            `json:"total_interactions"`
	ByType            map[string]int64 `json:"by_type"`
	ByCategory        map[string]int64 `json:"by_category"`
	AverageRating     *float64         `json:"average_rating,omitempty"`
	RecentActivity    int64            `json:"recent_activity"` // interactions over the trailing 30 days
}
