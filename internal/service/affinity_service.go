package service

import (
	"math"
	"sort"

	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/repository"
)

// Affinity weights. The three terms cap at 40/30/30 so the total stays
// within 0-100.
const (
	affinityPerInteraction = 10
	affinityInteractionCap = 40
	affinityPerCategory    = 6
	affinityCategoryCap    = 30
	affinityRatingWeight   = 30
)

// AffinityService derives pairwise compatibility from the interaction
// log. Scores are recomputed from scratch on every call; nothing is
// cached or persisted.
type AffinityService struct {
	interactionRepo *repository.InteractionRepository
}

func NewAffinityService(interactionRepo *repository.InteractionRepository) *AffinityService {
	return &AffinityService{interactionRepo: interactionRepo}
}

// Score computes the 0-100 compatibility between two users
func (s *AffinityService) Score(userA, userB int64) (int, error) {
	detail, err := s.ScoreDetail(userA, userB)
	if err != nil {
		return 0, err
	}
	return detail.Score, nil
}

// ScoreDetail computes the score together with the common-interaction
// count and the literal shared-category list. A pair with no direct
// history scores 0, whatever the two users do with third parties.
func (s *AffinityService) ScoreDetail(userA, userB int64) (*dto.AffinityScore, error) {
	detail := &dto.AffinityScore{
		TargetUserID:     userB,
		SharedCategories: []string{},
	}

	common, err := s.interactionRepo.CountPairInteractions(userA, userB)
	if err != nil {
		return nil, err
	}
	if common == 0 {
		return detail, nil
	}
	detail.CommonInteractions = common

	catsA, err := s.interactionRepo.DistinctCategories(userA)
	if err != nil {
		return nil, err
	}
	catsB, err := s.interactionRepo.DistinctCategories(userB)
	if err != nil {
		return nil, err
	}
	detail.SharedCategories = intersectCategories(catsA, catsB)

	score := math.Min(float64(common)*affinityPerInteraction, affinityInteractionCap)
	score += math.Min(float64(len(detail.SharedCategories))*affinityPerCategory, affinityCategoryCap)

	avgRating, err := s.interactionRepo.AveragePairRating(userA, userB)
	if err != nil {
		return nil, err
	}
	if avgRating != nil {
		score += *avgRating / 5 * affinityRatingWeight
	}

	detail.Score = clampScore(int(math.Round(score)))
	return detail, nil
}

// FindAffinities ranks the users most affine to userID, score
// descending, ties broken by ascending user id
func (s *AffinityService) FindAffinities(userID int64, limit int) ([]dto.AffinityScore, error) {
	others, err := s.interactionRepo.CoInteractedUsers(userID)
	if err != nil {
		return nil, err
	}

	affinities := make([]dto.AffinityScore, 0, len(others))
	for _, other := range others {
		detail, err := s.ScoreDetail(userID, other)
		if err != nil {
			return nil, err
		}
		affinities = append(affinities, *detail)
	}

	sort.Slice(affinities, func(i, j int) bool {
		if affinities[i].Score != affinities[j].Score {
			return affinities[i].Score > affinities[j].Score
		}
		return affinities[i].TargetUserID < affinities[j].TargetUserID
	})

	if limit > 0 && len(affinities) > limit {
		affinities = affinities[:limit]
	}
	return affinities, nil
}

// FavoriteCategories ranks the user's most-interacted-with categories
func (s *AffinityService) FavoriteCategories(userID int64, limit int) ([]dto.CategoryCount, error) {
	return s.interactionRepo.TopCategories(userID, limit)
}

func intersectCategories(catsA, catsB []string) []string {
	inA := make(map[string]struct{}, len(catsA))
	for _, c := range catsA {
		inA[c] = struct{}{}
	}

	shared := []string{}
	for _, c := range catsB {
		if _, ok := inA[c]; ok {
			shared = append(shared, c)
		}
	}
	sort.Strings(shared)
	return shared
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
