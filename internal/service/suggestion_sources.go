package service

import (
	"fmt"
	"math"
	"time"

	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/repository"
)

const (
	affinitySourceUsers     = 10 // affine users considered by the affinity source
	categorySourceFavorites = 5  // favorite categories considered by the category source
	popularityBaseScore     = 70
	freshnessDecayPerDay    = 2
)

// suggestionSource is one ranking heuristic. Sources produce raw,
// partially-scored candidates; the aggregator merges them.
type suggestionSource interface {
	Name() string
	Generate(userID int64, limit int, filters dto.SuggestionFilters) ([]dto.SuggestionItem, error)
}

// freshness decays 2 points per day from the item's own reference
// date, floored at 0. Future-dated items are not capped.
func freshness(ref time.Time, now time.Time) float64 {
	ageDays := int(now.Sub(ref).Hours() / 24)
	f := float64(100 - ageDays*freshnessDecayPerDay)
	if f < 0 {
		return 0
	}
	return f
}

func categoryAllowed(filters dto.SuggestionFilters, category string) bool {
	if len(filters.Categories) == 0 {
		return true
	}
	for _, c := range filters.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func toSuggestion(item dto.CatalogItem, score int, reason string) dto.SuggestionItem {
	return dto.SuggestionItem{
		ID:             item.ID,
		EntityType:     item.EntityType,
		Title:          item.Title,
		Description:    item.Description,
		Category:       item.Category,
		SourceUserID:   item.OwnerID,
		SourceUserName: item.OwnerName,
		Score:          score,
		Reason:         reason,
		ReferenceDate:  item.ReferenceDate,
	}
}

// affinitySource proposes recent items from the users most affine to
// the requester. It does not self-filter: the requester's own items
// can surface when they co-interacted with themselves via self-loop
// events.
type affinitySource struct {
	affinity    *AffinityService
	catalogRepo *repository.CatalogRepository
}

func (s *affinitySource) Name() string { return "affinity" }

func (s *affinitySource) Generate(userID int64, limit int, filters dto.SuggestionFilters) ([]dto.SuggestionItem, error) {
	affinities, err := s.affinity.FindAffinities(userID, affinitySourceUsers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	suggestions := make([]dto.SuggestionItem, 0, limit)
	for _, aff := range affinities {
		if len(suggestions) >= limit {
			break
		}

		items, err := s.catalogRepo.RecentByOwner(aff.TargetUserID, filters.EntityTypes, limit)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			if len(suggestions) >= limit {
				break
			}
			if !categoryAllowed(filters, item.Category) {
				continue
			}

			score := int(math.Round(float64(aff.Score)*0.7 + freshness(item.ReferenceDate, now)*0.3))
			reason := fmt.Sprintf("Proposé par %s, voisin compatible à %d%%", item.OwnerName, aff.Score)
			suggestions = append(suggestions, toSuggestion(item, score, reason))
		}
	}

	return suggestions, nil
}

// categorySource proposes fresh items from the requester's favorite
// categories. The category weight count/10*100 is deliberately not
// clamped: a category with more than 10 interactions pushes the blend
// above 100.
type categorySource struct {
	affinity    *AffinityService
	catalogRepo *repository.CatalogRepository
}

func (s *categorySource) Name() string { return "category" }

func (s *categorySource) Generate(userID int64, limit int, filters dto.SuggestionFilters) ([]dto.SuggestionItem, error) {
	favorites, err := s.affinity.FavoriteCategories(userID, categorySourceFavorites)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	suggestions := make([]dto.SuggestionItem, 0, limit)
	for _, favorite := range favorites {
		if len(suggestions) >= limit {
			break
		}
		if !categoryAllowed(filters, favorite.Category) {
			continue
		}

		items, err := s.catalogRepo.RecentByCategory(favorite.Category, filters.EntityTypes, limit)
		if err != nil {
			return nil, err
		}

		categoryScore := float64(favorite.Count) / 10 * 100
		for _, item := range items {
			if len(suggestions) >= limit {
				break
			}
			if filters.ExcludeOwn && item.OwnerID == userID {
				continue
			}

			score := int(math.Round(categoryScore*0.6 + freshness(item.ReferenceDate, now)*0.4))
			reason := fmt.Sprintf("Dans votre catégorie préférée « %s » (%d interactions)",
				favorite.Category, favorite.Count)
			suggestions = append(suggestions, toSuggestion(item, score, reason))
		}
	}

	return suggestions, nil
}

// popularitySource proposes globally recent items, no per-user signal
type popularitySource struct {
	catalogRepo *repository.CatalogRepository
}

func (s *popularitySource) Name() string { return "popularity" }

func (s *popularitySource) Generate(userID int64, limit int, filters dto.SuggestionFilters) ([]dto.SuggestionItem, error) {
	items, err := s.catalogRepo.RecentGlobal(filters.EntityTypes, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	suggestions := make([]dto.SuggestionItem, 0, limit)
	for _, item := range items {
		if len(suggestions) >= limit {
			break
		}
		if filters.ExcludeOwn && item.OwnerID == userID {
			continue
		}
		if !categoryAllowed(filters, item.Category) {
			continue
		}

		score := int(math.Round(popularityBaseScore*0.5 + freshness(item.ReferenceDate, now)*0.5))
		suggestions = append(suggestions, toSuggestion(item, score, "Populaire dans votre quartier"))
	}

	return suggestions, nil
}
