package repository

import (
	"database/sql"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
)

// InteractionRepository is the append-mostly interaction log. Events
// are immutable after creation except for rating/notes/metadata.
type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create appends one event and assigns its identity
func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	if interaction.Date.IsZero() {
		interaction.Date = time.Now()
	}
	return r.db.Create(interaction).Error
}

// GetByID loads one event
func (r *InteractionRepository) GetByID(id int64) (*model.Interaction, error) {
	var interaction model.Interaction
	err := r.db.Where("id = ?", id).First(&interaction).Error
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

// UpdateFeedback updates the mutable fields of one event. The
// immutable columns are never touched.
func (r *InteractionRepository) UpdateFeedback(id int64, rating *int, notes *string) (*model.Interaction, error) {
	var interaction model.Interaction
	if err := r.db.Where("id = ?", id).First(&interaction).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if rating != nil {
		updates["rating"] = *rating
		interaction.Rating = rating
	}
	if notes != nil {
		updates["notes"] = *notes
		interaction.Notes = notes
	}
	if len(updates) == 0 {
		return &interaction, nil
	}

	if err := r.db.Model(&model.Interaction{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

// CountPairInteractions counts events between the unordered pair
// {userA, userB}, any type or category
func (r *InteractionRepository) CountPairInteractions(userA, userB int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Interaction{}).
		Where("(user_a = ? AND user_b = ?) OR (user_a = ? AND user_b = ?)", userA, userB, userB, userA).
		Count(&count).Error
	return count, err
}

// DistinctCategories lists the categories touched by events where the
// user appears on either side
func (r *InteractionRepository) DistinctCategories(userID int64) ([]string, error) {
	var categories []string
	err := r.db.Model(&model.Interaction{}).
		Distinct("category").
		Where("(user_a = ? OR user_b = ?) AND category <> ''", userID, userID).
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// AveragePairRating returns the mean of non-null ratings among the
// pair's events, or nil when none carries a rating
func (r *InteractionRepository) AveragePairRating(userA, userB int64) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.Model(&model.Interaction{}).
		Select("AVG(rating)").
		Where("((user_a = ? AND user_b = ?) OR (user_a = ? AND user_b = ?)) AND rating IS NOT NULL",
			userA, userB, userB, userA).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// CoInteractedUsers lists every other user appearing opposite userID
// in at least one event, ascending by id
func (r *InteractionRepository) CoInteractedUsers(userID int64) ([]int64, error) {
	var asA, asB []int64
	err := r.db.Model(&model.Interaction{}).
		Distinct("user_b").
		Where("user_a = ? AND user_b <> ?", userID, userID).
		Pluck("user_b", &asA).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&model.Interaction{}).
		Distinct("user_a").
		Where("user_b = ? AND user_a <> ?", userID, userID).
		Pluck("user_a", &asB).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(asA)+len(asB))
	users := make([]int64, 0, len(asA)+len(asB))
	for _, id := range append(asA, asB...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}

// TopCategories ranks the user's categories by event count descending
func (r *InteractionRepository) TopCategories(userID int64, limit int) ([]dto.CategoryCount, error) {
	var rows []dto.CategoryCount
	err := r.db.Model(&model.Interaction{}).
		Select("category, COUNT(*) as count").
		Where("(user_a = ? OR user_b = ?) AND category <> ''", userID, userID).
		Group("category").
		Order("count DESC, category ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Recent lists the user's latest events, date descending, optionally
// restricted to one entity type
func (r *InteractionRepository) Recent(userID int64, limit int, entityType string) ([]*model.Interaction, error) {
	query := r.db.Where("user_a = ? OR user_b = ?", userID, userID)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	var interactions []*model.Interaction
	err := query.Order("date DESC").Limit(limit).Find(&interactions).Error
	return interactions, err
}

// Stats aggregates the user's whole history
func (r *InteractionRepository) Stats(userID int64) (*dto.InteractionStats, error) {
	stats := &dto.InteractionStats{
		ByType:     make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	base := func() *gorm.DB {
		return r.db.Model(&model.Interaction{}).Where("user_a = ? OR user_b = ?", userID, userID)
	}

	if err := base().Count(&stats.TotalInteractions).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byType []bucket
	if err := base().Select("interaction_type as `key`, COUNT(*) as count").
		Group("interaction_type").Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	var byCategory []bucket
	if err := base().Select("category as `key`, COUNT(*) as count").
		Where("category <> ''").Group("category").Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, b := range byCategory {
		stats.ByCategory[b.Key] = b.Count
	}

	var avg sql.NullFloat64
	if err := base().Select("AVG(rating)").Where("rating IS NOT NULL").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AverageRating = &avg.Float64
	}

	since := time.Now().AddDate(0, 0, -30)
	if err := base().Where("date >= ?", since).Count(&stats.RecentActivity).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// DeleteOldViews prunes view events older than the cutoff. Retention
// lives outside the suggestion core; only cmd/cleanup calls this.
func (r *InteractionRepository) DeleteOldViews(before time.Time) (int64, error) {
	res := r.db.Where("entity_type = ? AND date < ?", model.EntityView, before).
		Delete(&model.Interaction{})
	return res.RowsAffected, res.Error
}
