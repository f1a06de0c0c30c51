package model

import (
	"time"
)

// Event statuses
const (
	EventOpen      = "open"
	EventUpcoming  = "upcoming"
	EventCancelled = "cancelled"
	EventDone      = "done"
)

// Absence statuses
const (
	AbsencePending   = "pending"
	AbsenceConfirmed = "confirmed"
	AbsenceDone      = "done"
)

// Service is a help offer or request published by a neighbor.
type Service struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Type        string    `gorm:"size:20;default:offer" json:"type"` // offer, request
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// Troc is a barter offer (object or skill exchange).
type Troc struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Offered     string    `gorm:"size:200" json:"offered"`
	Wanted      string    `gorm:"size:200" json:"wanted"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Troc) TableName() string {
	return "trocs"
}

// Event is a neighborhood gathering.
type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Location    string    `gorm:"size:200" json:"location"`
	Date        time.Time `gorm:"index" json:"date"`
	Status      string    `gorm:"size:20;default:open;index" json:"status"` // open, upcoming, cancelled, done
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// Absence is a period during which a neighbor asks for home watching
// (plants, mail, pets).
type Absence struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	StartDate   time.Time `gorm:"index" json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `gorm:"size:20;default:pending;index" json:"status"` // pending, confirmed, done
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Absence) TableName() string {
	return "absences"
}
