package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
)

// CatalogRepository serves the read-only "recent items" lookups the
// suggestion sources need. The four entity tables are funneled into
// the uniform dto.CatalogItem view; reference_date is the creation
// date for services and trocs, the event date for events and the
// start date for absences.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// RecentByOwner lists a user's own active items: services and trocs
// created within the last 30 days, open or upcoming events, pending
// or future absences.
func (r *CatalogRepository) RecentByOwner(ownerID int64, entityTypes []string, limit int) ([]dto.CatalogItem, error) {
	now := time.Now()
	var items []dto.CatalogItem

	if typeEnabled(entityTypes, model.EntityService) {
		rows, err := r.scanItems(r.serviceQuery().
			Where("services.user_id = ? AND services.created_at >= ?", ownerID, now.AddDate(0, 0, -30)).
			Order("services.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityTroc) {
		rows, err := r.scanItems(r.trocQuery().
			Where("trocs.user_id = ? AND trocs.created_at >= ?", ownerID, now.AddDate(0, 0, -30)).
			Order("trocs.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityEvent) {
		rows, err := r.scanItems(r.eventQuery().
			Where("events.user_id = ? AND events.status IN ? AND events.date >= ?",
				ownerID, []string{model.EventOpen, model.EventUpcoming}, now).
			Order("events.date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityAbsence) {
		rows, err := r.scanItems(r.absenceQuery().
			Where("absences.user_id = ? AND (absences.status = ? OR absences.start_date >= ?)",
				ownerID, model.AbsencePending, now).
			Order("absences.start_date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	return items, nil
}

// RecentByCategory lists items of one category created within the last
// 7 days, any owner.
func (r *CatalogRepository) RecentByCategory(category string, entityTypes []string, limit int) ([]dto.CatalogItem, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	var items []dto.CatalogItem

	if typeEnabled(entityTypes, model.EntityService) {
		rows, err := r.scanItems(r.serviceQuery().
			Where("services.category = ? AND services.created_at >= ?", category, weekAgo).
			Order("services.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityTroc) {
		rows, err := r.scanItems(r.trocQuery().
			Where("trocs.category = ? AND trocs.created_at >= ?", category, weekAgo).
			Order("trocs.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityEvent) {
		rows, err := r.scanItems(r.eventQuery().
			Where("events.category = ? AND events.created_at >= ? AND events.status IN ? AND events.date >= ?",
				category, weekAgo, []string{model.EventOpen, model.EventUpcoming}, now).
			Order("events.date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityAbsence) {
		rows, err := r.scanItems(r.absenceQuery().
			Where("absences.category = ? AND absences.created_at >= ? AND (absences.status = ? OR absences.start_date >= ?)",
				category, weekAgo, model.AbsencePending, now).
			Order("absences.start_date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	return items, nil
}

// RecentGlobal lists globally recent items irrespective of user:
// 7-day creation window, except absences which use a
// "starts within the next 7 days" window instead.
func (r *CatalogRepository) RecentGlobal(entityTypes []string, limit int) ([]dto.CatalogItem, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	var items []dto.CatalogItem

	if typeEnabled(entityTypes, model.EntityService) {
		rows, err := r.scanItems(r.serviceQuery().
			Where("services.created_at >= ?", weekAgo).
			Order("services.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityTroc) {
		rows, err := r.scanItems(r.trocQuery().
			Where("trocs.created_at >= ?", weekAgo).
			Order("trocs.created_at DESC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityEvent) {
		rows, err := r.scanItems(r.eventQuery().
			Where("events.created_at >= ? AND events.status IN ? AND events.date >= ?",
				weekAgo, []string{model.EventOpen, model.EventUpcoming}, now).
			Order("events.date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	if typeEnabled(entityTypes, model.EntityAbsence) {
		rows, err := r.scanItems(r.absenceQuery().
			Where("absences.start_date >= ? AND absences.start_date <= ?", now, now.AddDate(0, 0, 7)).
			Order("absences.start_date ASC").Limit(limit))
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)
	}

	return items, nil
}

func (r *CatalogRepository) serviceQuery() *gorm.DB {
	return r.db.Table("services").
		Select("services.id, 'service' AS entity_type, services.title, services.description, services.category, services.user_id AS owner_id, users.username AS owner_name, services.created_at AS reference_date").
		Joins("JOIN users ON users.id = services.user_id")
}

func (r *CatalogRepository) trocQuery() *gorm.DB {
	return r.db.Table("trocs").
		Select("trocs.id, 'troc' AS entity_type, trocs.title, trocs.description, trocs.category, trocs.user_id AS owner_id, users.username AS owner_name, trocs.created_at AS reference_date").
		Joins("JOIN users ON users.id = trocs.user_id")
}

func (r *CatalogRepository) eventQuery() *gorm.DB {
	return r.db.Table("events").
		Select("events.id, 'event' AS entity_type, events.title, events.description, events.category, events.user_id AS owner_id, users.username AS owner_name, events.date AS reference_date").
		Joins("JOIN users ON users.id = events.user_id")
}

func (r *CatalogRepository) absenceQuery() *gorm.DB {
	return r.db.Table("absences").
		Select("absences.id, 'absence' AS entity_type, absences.title, absences.description, absences.category, absences.user_id AS owner_id, users.username AS owner_name, absences.start_date AS reference_date").
		Joins("JOIN users ON users.id = absences.user_id")
}

func (r *CatalogRepository) scanItems(query *gorm.DB) ([]dto.CatalogItem, error) {
	var items []dto.CatalogItem
	err := query.Scan(&items).Error
	return items, err
}

func typeEnabled(entityTypes []string, entityType string) bool {
	if len(entityTypes) == 0 {
		return true
	}
	for _, t := range entityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}
