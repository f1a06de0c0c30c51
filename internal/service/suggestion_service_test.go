package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/repository"
	"github.com/voisinage/voisin_go_server/internal/testutil"
)

func newTestSuggestionService(db *gorm.DB) *SuggestionService {
	interactionRepo := repository.NewInteractionRepository(db)
	return NewSuggestionService(
		NewAffinityService(interactionRepo),
		interactionRepo,
		repository.NewCatalogRepository(db),
		nil, // no redis in unit tests
		DefaultRealtimeLimit,
	)
}

func TestSuggestionService_Generate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	carol := testutil.TestUser(t, db)

	// Alice is affine with Bob and favors jardinage
	for i := 0; i < 3; i++ {
		testutil.TestInteraction(t, db, alice.ID, bob.ID, testutil.WithCategory("jardinage"))
	}
	testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("jardinage"))
	testutil.TestService(t, db, carol.ID, testutil.WithServiceCategory("jardinage"))
	testutil.TestTroc(t, db, carol.ID)

	suggestions, err := svc.Generate(alice.ID, 10, dto.SuggestionFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 10)

	// Sorted by score descending
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Score, suggestions[i].Score)
	}

	// No (entity type, id) appears twice even though the sources overlap
	type key struct {
		entityType string
		id         int64
	}
	seen := make(map[key]bool)
	for _, sug := range suggestions {
		k := key{sug.EntityType, sug.ID}
		assert.False(t, seen[k], "duplicate suggestion %s/%d", sug.EntityType, sug.ID)
		seen[k] = true
	}
}

func TestSuggestionService_Generate_LimitAndMinScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	for i := 0; i < 6; i++ {
		testutil.TestService(t, db, bob.ID)
	}

	suggestions, err := svc.Generate(alice.ID, 2, dto.SuggestionFilters{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(suggestions), 2)

	// A prohibitive minimum empties the result
	suggestions, err = svc.Generate(alice.ID, 10, dto.SuggestionFilters{MinScore: 101})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestionService_Generate_CategoryFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("cuisine"))
	testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("bricolage"))

	suggestions, err := svc.Generate(alice.ID, 10, dto.SuggestionFilters{
		Categories: []string{"cuisine"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	for _, sug := range suggestions {
		assert.Equal(t, "cuisine", sug.Category)
	}
}

func TestCategorySource_ScoreNotClamped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	interactionRepo := repository.NewInteractionRepository(db)
	source := &categorySource{
		affinity:    NewAffinityService(interactionRepo),
		catalogRepo: repository.NewCatalogRepository(db),
	}

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	// 12 interactions in one category: weight 12/10*100 = 120, so a
	// fresh item blends to 120*0.6 + 100*0.4 = 112.
	for i := 0; i < 12; i++ {
		testutil.TestInteraction(t, db, alice.ID, bob.ID, testutil.WithCategory("cuisine"))
	}
	testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("cuisine"))

	suggestions, err := source.Generate(alice.ID, 10, dto.SuggestionFilters{})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 112, suggestions[0].Score)
}

func TestCategorySource_ExcludeOwn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	interactionRepo := repository.NewInteractionRepository(db)
	source := &categorySource{
		affinity:    NewAffinityService(interactionRepo),
		catalogRepo: repository.NewCatalogRepository(db),
	}

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	testutil.TestInteraction(t, db, alice.ID, bob.ID, testutil.WithCategory("cuisine"))
	own := testutil.TestService(t, db, alice.ID, testutil.WithServiceCategory("cuisine"))
	other := testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("cuisine"))

	// Without the flag the requester's own items pass through
	suggestions, err := source.Generate(alice.ID, 10, dto.SuggestionFilters{})
	require.NoError(t, err)
	assert.Len(t, suggestions, 2)

	suggestions, err = source.Generate(alice.ID, 10, dto.SuggestionFilters{ExcludeOwn: true})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, other.ID, suggestions[0].ID)
	assert.NotEqual(t, own.ID, suggestions[0].ID)
}

func TestAffinitySource_DoesNotExcludeOwn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	interactionRepo := repository.NewInteractionRepository(db)
	source := &affinitySource{
		affinity:    NewAffinityService(interactionRepo),
		catalogRepo: repository.NewCatalogRepository(db),
	}

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	// 3 plain interactions: affinity 30, fresh item freshness 100
	for i := 0; i < 3; i++ {
		testutil.TestInteraction(t, db, alice.ID, bob.ID)
	}
	item := testutil.TestService(t, db, bob.ID)

	// ExcludeOwn is ignored by this source on purpose
	suggestions, err := source.Generate(alice.ID, 10, dto.SuggestionFilters{ExcludeOwn: true})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, item.ID, suggestions[0].ID)
	// 30*0.7 + 100*0.3 = 51
	assert.Equal(t, 51, suggestions[0].Score)
	assert.Contains(t, suggestions[0].Reason, "compatible à 30%")
}

func TestPopularitySource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	source := &popularitySource{catalogRepo: repository.NewCatalogRepository(db)}

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	fresh := testutil.TestService(t, db, bob.ID)
	testutil.TestService(t, db, alice.ID) // own, filtered below

	suggestions, err := source.Generate(alice.ID, 10, dto.SuggestionFilters{ExcludeOwn: true})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, fresh.ID, suggestions[0].ID)
	// 70*0.5 + 100*0.5 = 85 for a same-day item
	assert.Equal(t, 85, suggestions[0].Score)
	assert.Equal(t, "Populaire dans votre quartier", suggestions[0].Reason)
}

func TestFreshness(t *testing.T) {
	now := time.Now()

	assert.Equal(t, float64(100), freshness(now, now))
	assert.Equal(t, float64(90), freshness(now.AddDate(0, 0, -5), now))
	assert.Equal(t, float64(0), freshness(now.AddDate(0, 0, -50), now), "decay floors at 0")
	// Future reference dates push freshness above 100
	assert.Equal(t, float64(110), freshness(now.AddDate(0, 0, 5).Add(time.Hour), now))
}

func TestSuggestionService_GenerateRealTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	// Affinity 30 between alice and bob
	for i := 0; i < 3; i++ {
		testutil.TestInteraction(t, db, alice.ID, bob.ID)
	}

	match := testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("jardinage"))
	testutil.TestService(t, db, bob.ID, testutil.WithServiceCategory("cuisine"))
	testutil.TestService(t, db, alice.ID, testutil.WithServiceCategory("jardinage")) // own, always excluded
	testutil.TestTroc(t, db, bob.ID, func(tr *model.Troc) { tr.Category = "jardinage" })

	suggestions, err := svc.GenerateRealTime(alice.ID, dto.RealtimeSuggestionRequest{
		Type:     model.EntityService,
		Category: "jardinage",
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, match.ID, suggestions[0].ID)
	assert.Equal(t, model.EntityService, suggestions[0].EntityType)
	// Realtime suggestions carry the raw affinity score
	assert.Equal(t, 30, suggestions[0].Score)
}

func TestSuggestionService_GenerateRealTime_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	testutil.TestInteraction(t, db, alice.ID, bob.ID)
	for i := 0; i < 8; i++ {
		testutil.TestService(t, db, bob.ID)
	}

	suggestions, err := svc.GenerateRealTime(alice.ID, dto.RealtimeSuggestionRequest{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(suggestions), DefaultRealtimeLimit)
}

func TestSuggestionService_RecordSuggestionShown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	svc.RecordSuggestionShown(alice.ID, 42, model.EntityService, bob.ID, "jardinage", "Tonte de pelouse")

	var interactions []model.Interaction
	require.NoError(t, db.Find(&interactions).Error)
	require.Len(t, interactions, 1)

	assert.Equal(t, alice.ID, interactions[0].UserA)
	assert.Equal(t, bob.ID, interactions[0].UserB)
	assert.Equal(t, model.InteractionRecommended, interactions[0].InteractionType)
	assert.Equal(t, "suggestion_service_jardinage", interactions[0].Category)
	assert.Equal(t, int64(42), interactions[0].EntityID)
}

func TestSuggestionService_RecordUserFeedback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	svc.RecordUserFeedback(alice.ID, 42, model.EntityService, "contacted", &bob.ID)

	var interactions []model.Interaction
	require.NoError(t, db.Find(&interactions).Error)
	require.Len(t, interactions, 1)
	assert.Equal(t, model.InteractionViewed, interactions[0].InteractionType)
	assert.Equal(t, "suggestion_contact", interactions[0].Category)
	require.NotNil(t, interactions[0].Rating)
	assert.Equal(t, 4, *interactions[0].Rating)

	svc.RecordUserFeedback(alice.ID, 43, model.EntityService, "liked", &bob.ID)

	interactions = nil
	require.NoError(t, db.Order("id").Find(&interactions).Error)
	require.Len(t, interactions, 2)
	assert.Equal(t, "suggestion_like", interactions[1].Category)
	require.NotNil(t, interactions[1].Rating)
	assert.Equal(t, 3, *interactions[1].Rating)
}

func TestSuggestionService_RecordUserFeedback_NoOpActions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	// Passive actions leave no trace
	svc.RecordUserFeedback(alice.ID, 42, model.EntityService, "viewed", &bob.ID)
	svc.RecordUserFeedback(alice.ID, 42, model.EntityService, "ignored", &bob.ID)
	// Actionable feedback without a counterpart is dropped too
	svc.RecordUserFeedback(alice.ID, 42, model.EntityService, "contacted", nil)

	var count int64
	require.NoError(t, db.Model(&model.Interaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSuggestionService_FinalizeKeepsFirstDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestSuggestionService(db)

	items := []dto.SuggestionItem{
		{ID: 1, EntityType: model.EntityService, Score: 50, Reason: "first"},
		{ID: 1, EntityType: model.EntityService, Score: 90, Reason: "second"},
		{ID: 1, EntityType: model.EntityTroc, Score: 70},
		{ID: 2, EntityType: model.EntityService, Score: 60},
	}

	merged := svc.finalize(items, 10, 0)
	require.Len(t, merged, 3)

	assert.Equal(t, []int{70, 60, 50}, []int{merged[0].Score, merged[1].Score, merged[2].Score})

	// The first occurrence won, even against a higher-scored duplicate
	assert.Equal(t, "first", merged[2].Reason)
}
