package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/repository"
)

var (
	ErrInvalidInteraction  = errors.New("interaction invalide")
	ErrInvalidRating       = errors.New("la note doit être comprise entre 1 et 5")
	ErrInteractionNotFound = errors.New("interaction introuvable")
)

// InteractionService is the write boundary of the interaction log.
// Validation happens here, before anything touches the store; the
// scoring code below this layer assumes well-formed ids.
type InteractionService struct {
	interactionRepo *repository.InteractionRepository
}

func NewInteractionService(interactionRepo *repository.InteractionRepository) *InteractionService {
	return &InteractionService{interactionRepo: interactionRepo}
}

// Record validates and appends one event
func (s *InteractionService) Record(userID int64, req *dto.RecordInteractionRequest) (*model.Interaction, error) {
	if req.UserB <= 0 || req.EntityType == "" || req.InteractionType == "" || req.EntityID <= 0 {
		return nil, ErrInvalidInteraction
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, ErrInvalidRating
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	interaction := &model.Interaction{
		UserA:           userID,
		UserB:           req.UserB,
		EntityType:      req.EntityType,
		InteractionType: req.InteractionType,
		Category:        req.Category,
		EntityID:        req.EntityID,
		EntityTitle:     req.EntityTitle,
		Date:            date,
		Rating:          req.Rating,
		Notes:           req.Notes,
		Metadata:        model.JSONMap(req.Metadata),
	}

	if err := s.interactionRepo.Create(interaction); err != nil {
		return nil, err
	}
	return interaction, nil
}

// UpdateFeedback updates rating and/or notes of an existing event
func (s *InteractionService) UpdateFeedback(id int64, req *dto.UpdateInteractionRequest) (*model.Interaction, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, ErrInvalidRating
	}

	interaction, err := s.interactionRepo.UpdateFeedback(id, req.Rating, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, err
	}
	return interaction, nil
}

// Recent lists the user's latest events
func (s *InteractionService) Recent(userID int64, limit int, entityType string) ([]*model.Interaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.interactionRepo.Recent(userID, limit, entityType)
}

// Stats aggregates the user's history
func (s *InteractionService) Stats(userID int64) (*dto.InteractionStats, error) {
	return s.interactionRepo.Stats(userID)
}

// Track appends one event on behalf of a business operation (booking
// accepted, event joined, ...). Best effort: errors are logged and
// swallowed so tracking can never fail the triggering operation.
func (s *InteractionService) Track(userID int64, req *dto.RecordInteractionRequest) {
	if _, err := s.Record(userID, req); err != nil {
		log.Printf("Failed to track interaction for user %d (%s/%s): %v",
			userID, req.EntityType, req.InteractionType, err)
	}
}
