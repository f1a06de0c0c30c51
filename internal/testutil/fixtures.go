package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/voisinage/voisin_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser creates a user
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("voisin_%d@example.com", seq)
	user := &model.User{
		Username:     fmt.Sprintf("voisin_%d", seq),
		Email:        &email,
		Neighborhood: "Les Lilas",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername sets the username
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// TestInteraction creates an event between two users
func TestInteraction(t *testing.T, db *gorm.DB, userA, userB int64, opts ...func(*model.Interaction)) *model.Interaction {
	t.Helper()

	interaction := &model.Interaction{
		UserA:           userA,
		UserB:           userB,
		EntityType:      model.EntityService,
		InteractionType: model.InteractionBooked,
		EntityID:        nextSeq(),
		EntityTitle:     "Coup de main",
		Date:            time.Now(),
	}

	for _, opt := range opts {
		opt(interaction)
	}

	if err := db.Create(interaction).Error; err != nil {
		t.Fatalf("Failed to create test interaction: %v", err)
	}

	return interaction
}

// WithCategory sets the interaction category
func WithCategory(category string) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.Category = category
	}
}

// WithRating sets the interaction rating
func WithRating(rating int) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.Rating = &rating
	}
}

// WithInteractionType sets the interaction type
func WithInteractionType(interactionType string) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.InteractionType = interactionType
	}
}

// WithEntityType sets the interaction entity type
func WithEntityType(entityType string) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.EntityType = entityType
	}
}

// WithDate sets the business date
func WithDate(date time.Time) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.Date = date
	}
}

// TestService creates a service offer
func TestService(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Service)) *model.Service {
	t.Helper()

	service := &model.Service{
		UserID:   userID,
		Title:    fmt.Sprintf("Service %d", nextSeq()),
		Category: "bricolage",
		Type:     "offer",
	}

	for _, opt := range opts {
		opt(service)
	}

	if err := db.Create(service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}

	return service
}

// WithServiceCategory sets the service category
func WithServiceCategory(category string) func(*model.Service) {
	return func(s *model.Service) {
		s.Category = category
	}
}

// WithServiceCreatedAt backdates the service
func WithServiceCreatedAt(createdAt time.Time) func(*model.Service) {
	return func(s *model.Service) {
		s.CreatedAt = createdAt
	}
}

// TestTroc creates a barter offer
func TestTroc(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Troc)) *model.Troc {
	t.Helper()

	troc := &model.Troc{
		UserID:   userID,
		Title:    fmt.Sprintf("Troc %d", nextSeq()),
		Category: "jardinage",
		Offered:  "graines de tomates",
		Wanted:   "boutures",
	}

	for _, opt := range opts {
		opt(troc)
	}

	if err := db.Create(troc).Error; err != nil {
		t.Fatalf("Failed to create test troc: %v", err)
	}

	return troc
}

// WithTrocCreatedAt backdates the troc
func WithTrocCreatedAt(createdAt time.Time) func(*model.Troc) {
	return func(tr *model.Troc) {
		tr.CreatedAt = createdAt
	}
}

// TestEvent creates an event
func TestEvent(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Event)) *model.Event {
	t.Helper()

	event := &model.Event{
		UserID:   userID,
		Title:    fmt.Sprintf("Fête des voisins %d", nextSeq()),
		Category: "convivialité",
		Date:     time.Now().AddDate(0, 0, 3),
		Status:   model.EventOpen,
	}

	for _, opt := range opts {
		opt(event)
	}

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return event
}

// WithEventDate sets the event date
func WithEventDate(date time.Time) func(*model.Event) {
	return func(e *model.Event) {
		e.Date = date
	}
}

// WithEventStatus sets the event status
func WithEventStatus(status string) func(*model.Event) {
	return func(e *model.Event) {
		e.Status = status
	}
}

// TestAbsence creates an absence
func TestAbsence(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Absence)) *model.Absence {
	t.Helper()

	absence := &model.Absence{
		UserID:    userID,
		Title:     fmt.Sprintf("Absence %d", nextSeq()),
		Category:  "garde",
		StartDate: time.Now().AddDate(0, 0, 2),
		EndDate:   time.Now().AddDate(0, 0, 9),
		Status:    model.AbsencePending,
	}

	for _, opt := range opts {
		opt(absence)
	}

	if err := db.Create(absence).Error; err != nil {
		t.Fatalf("Failed to create test absence: %v", err)
	}

	return absence
}

// WithAbsenceDates sets the absence window
func WithAbsenceDates(start, end time.Time) func(*model.Absence) {
	return func(a *model.Absence) {
		a.StartDate = start
		a.EndDate = end
	}
}

// WithAbsenceStatus sets the absence status
func WithAbsenceStatus(status string) func(*model.Absence) {
	return func(a *model.Absence) {
		a.Status = status
	}
}
