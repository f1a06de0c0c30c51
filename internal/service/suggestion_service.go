package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/pkg/pubsub"
	"github.com/voisinage/voisin_go_server/internal/repository"
)

const (
	DefaultSuggestionLimit = 10
	DefaultRealtimeLimit   = 5
	realtimeAffinityUsers  = 10
)

// Source shares of the requested limit: affinity 40%, category 30%,
// popularity 30%, each rounded up.
var sourceShares = []float64{0.4, 0.3, 0.3}

type weightedSource struct {
	source suggestionSource
	share  float64
}

// SuggestionService blends the three ranking heuristics into one
// deduplicated, score-sorted list. Stateless between calls: every
// request recomputes from the interaction log.
type SuggestionService struct {
	affinity        *AffinityService
	interactionRepo *repository.InteractionRepository
	catalogRepo     *repository.CatalogRepository
	sources         []weightedSource
	publisher       *pubsub.Publisher // optional, nil disables push
	realtimeLimit   int
}

func NewSuggestionService(
	affinity *AffinityService,
	interactionRepo *repository.InteractionRepository,
	catalogRepo *repository.CatalogRepository,
	publisher *pubsub.Publisher,
	realtimeLimit int,
) *SuggestionService {
	if realtimeLimit <= 0 {
		realtimeLimit = DefaultRealtimeLimit
	}

	// Registration order matters: on duplicates the earliest source wins.
	ordered := []suggestionSource{
		&affinitySource{affinity: affinity, catalogRepo: catalogRepo},
		&categorySource{affinity: affinity, catalogRepo: catalogRepo},
		&popularitySource{catalogRepo: catalogRepo},
	}

	sources := make([]weightedSource, len(ordered))
	for i, src := range ordered {
		sources[i] = weightedSource{source: src, share: sourceShares[i]}
	}

	return &SuggestionService{
		affinity:        affinity,
		interactionRepo: interactionRepo,
		catalogRepo:     catalogRepo,
		sources:         sources,
		publisher:       publisher,
		realtimeLimit:   realtimeLimit,
	}
}

// Generate fans out to the sources concurrently, then merges:
// concatenate in registration order, dedupe by (entity type, id)
// keeping the first occurrence, drop below-minimum scores, sort by
// score descending, truncate to limit.
func (s *SuggestionService) Generate(userID int64, limit int, filters dto.SuggestionFilters) ([]dto.SuggestionItem, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	results := make([][]dto.SuggestionItem, len(s.sources))
	errs := make([]error, len(s.sources))

	var wg sync.WaitGroup
	for i, ws := range s.sources {
		wg.Add(1)
		go func(i int, ws weightedSource) {
			defer wg.Done()
			subLimit := int(math.Ceil(float64(limit) * ws.share))
			results[i], errs[i] = ws.source.Generate(userID, subLimit, filters)
		}(i, ws)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.sources[i].source.Name(), err)
		}
	}

	var merged []dto.SuggestionItem
	for _, items := range results {
		merged = append(merged, items...)
	}

	return s.finalize(merged, limit, filters.MinScore), nil
}

// GenerateRealTime reacts to one fresh event: items from affine users
// matching the triggering type and category, stamped with the affinity
// score, own items always excluded. Capped at the realtime limit.
func (s *SuggestionService) GenerateRealTime(userID int64, trigger dto.RealtimeSuggestionRequest) ([]dto.SuggestionItem, error) {
	affinities, err := s.affinity.FindAffinities(userID, realtimeAffinityUsers)
	if err != nil {
		return nil, err
	}

	var entityTypes []string
	if trigger.Type != "" {
		entityTypes = []string{trigger.Type}
	}

	var candidates []dto.SuggestionItem
	for _, aff := range affinities {
		items, err := s.catalogRepo.RecentByOwner(aff.TargetUserID, entityTypes, s.realtimeLimit)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			if item.OwnerID == userID {
				continue
			}
			if trigger.Category != "" && item.Category != trigger.Category {
				continue
			}

			reason := fmt.Sprintf("Un voisin compatible propose aussi « %s »", item.Category)
			candidates = append(candidates, toSuggestion(item, aff.Score, reason))
		}
	}

	suggestions := s.finalize(candidates, s.realtimeLimit, 0)
	s.publishRealtime(userID, trigger, suggestions)
	return suggestions, nil
}

// RecordSuggestionShown folds suggestion exposure back into the log.
// Best effort: a store failure is logged, never surfaced.
func (s *SuggestionService) RecordSuggestionShown(userID, suggestionID int64, suggestionType string, targetUserID int64, category, title string) {
	interaction := &model.Interaction{
		UserA:           userID,
		UserB:           targetUserID,
		EntityType:      suggestionType,
		InteractionType: model.InteractionRecommended,
		Category:        fmt.Sprintf("suggestion_%s_%s", suggestionType, category),
		EntityID:        suggestionID,
		EntityTitle:     title,
		Date:            time.Now(),
	}

	if err := s.interactionRepo.Create(interaction); err != nil {
		log.Printf("Failed to record suggestion exposure for user %d: %v", userID, err)
	}
}

// RecordUserFeedback folds what the user did with a suggestion back
// into the log. Only contacted and liked leave a trace; viewed and
// ignored are explicit no-ops. Best effort, like exposure recording.
func (s *SuggestionService) RecordUserFeedback(userID, suggestionID int64, suggestionType, action string, targetUserID *int64) {
	var category string
	var rating int

	switch action {
	case "contacted":
		category = "suggestion_contact"
		rating = 4
	case "liked":
		category = "suggestion_like"
		rating = 3
	default:
		return
	}
	if targetUserID == nil {
		return
	}

	interaction := &model.Interaction{
		UserA:           userID,
		UserB:           *targetUserID,
		EntityType:      suggestionType,
		InteractionType: model.InteractionViewed,
		Category:        category,
		EntityID:        suggestionID,
		Rating:          &rating,
		Date:            time.Now(),
	}

	if err := s.interactionRepo.Create(interaction); err != nil {
		log.Printf("Failed to record suggestion feedback for user %d: %v", userID, err)
	}
}

// finalize re-establishes the deterministic merge order after the
// concurrent fan-out: dedupe first-wins, min-score filter, stable sort
// by score descending, truncate.
func (s *SuggestionService) finalize(items []dto.SuggestionItem, limit, minScore int) []dto.SuggestionItem {
	type key struct {
		entityType string
		id         int64
	}

	seen := make(map[key]struct{}, len(items))
	deduped := make([]dto.SuggestionItem, 0, len(items))
	for _, item := range items {
		k := key{entityType: item.EntityType, id: item.ID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if minScore > 0 && item.Score < minScore {
			continue
		}
		deduped = append(deduped, item)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

func (s *SuggestionService) publishRealtime(userID int64, trigger dto.RealtimeSuggestionRequest, suggestions []dto.SuggestionItem) {
	if s.publisher == nil || len(suggestions) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg := &pubsub.SuggestionMessage{
		UserID:          userID,
		TriggerType:     trigger.Type,
		TriggerCategory: trigger.Category,
		Suggestions:     suggestions,
	}
	if err := s.publisher.PublishSuggestions(ctx, msg); err != nil {
		log.Printf("Failed to publish realtime suggestions for user %d: %v", userID, err)
	}
}
