package dto

import (
	"time"
)

// SuggestionItem is one ranked recommendation. Ephemeral: built per
// request, never stored. EntityType tags which domain object the item
// refers to; the aggregator treats all variants uniformly.
type SuggestionItem struct {
	ID             int64     `json:"id"`
	EntityType     string    `json:"entity_type"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	SourceUserID   int64     `json:"source_user_id"`
	SourceUserName string    `json:"source_user_name"`
	Score          int       `json:"score"`
	Reason         string    `json:"reason"`
	ReferenceDate  time.Time `json:"reference_date"`
}

// SuggestionFilters narrows what the sources may propose
type SuggestionFilters struct {
	Categories  []string `json:"categories,omitempty"`
	EntityTypes []string `json:"entity_types,omitempty"`
	ExcludeOwn  bool     `json:"exclude_own,omitempty"`
	MinScore    int      `json:"min_score,omitempty"`
}

// RealtimeSuggestionRequest carries the single fresh event that
// triggers a realtime suggestion round
type RealtimeSuggestionRequest struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	EntityID int64  `json:"entity_id"`
}

// SuggestionViewRequest records that a suggestion was shown
type SuggestionViewRequest struct {
	SuggestionID   int64  `json:"suggestion_id"`
	SuggestionType string `json:"suggestion_type"`
	TargetUserID   int64  `json:"target_user_id"`
	Category       string `json:"category"`
	Title          string `json:"title"`
}

// SuggestionFeedbackRequest records what the user did with a suggestion
type SuggestionFeedbackRequest struct {
	SuggestionID   int64  `json:"suggestion_id"`
	SuggestionType string `json:"suggestion_type"`
	Action         string `json:"action"` // contacted, liked, viewed, ignored
	TargetUserID   *int64 `json:"target_user_id,omitempty"`
}

// CatalogItem is the uniform read-only view of a domain entity
// (service, troc, event or absence) served to the suggestion sources.
type CatalogItem struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entity_type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	OwnerID       int64     `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	ReferenceDate time.Time `json:"reference_date"`
}
