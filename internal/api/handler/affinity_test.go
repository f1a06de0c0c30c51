package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voisinage/voisin_go_server/internal/pkg/response"
	"github.com/voisinage/voisin_go_server/internal/repository"
	"github.com/voisinage/voisin_go_server/internal/service"
	"github.com/voisinage/voisin_go_server/internal/testutil"
)

func setupAffinityHandler(t *testing.T) (*AffinityHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	handler := NewAffinityHandler(
		service.NewAffinityService(repository.NewInteractionRepository(db)),
	)

	ctx := &testContext{DB: db}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

func TestAffinityHandler_List(t *testing.T) {
	handler, ctx, cleanup := setupAffinityHandler(t)
	defer cleanup()

	alice := testutil.TestUser(t, ctx.DB)
	bob := testutil.TestUser(t, ctx.DB)
	carol := testutil.TestUser(t, ctx.DB)

	testutil.TestInteraction(t, ctx.DB, alice.ID, bob.ID)
	testutil.TestInteraction(t, ctx.DB, alice.ID, bob.ID)
	testutil.TestInteraction(t, ctx.DB, carol.ID, alice.ID)

	router := gin.New()
	router.GET("/affinities", mockAuth(alice.ID), handler.List)

	w := performRequest(router, "GET", "/affinities", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	// Bob first: two interactions beat one
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(bob.ID), first["user_id"])
	assert.Equal(t, float64(20), first["score"])
}

func TestAffinityHandler_List_Limit(t *testing.T) {
	handler, ctx, cleanup := setupAffinityHandler(t)
	defer cleanup()

	alice := testutil.TestUser(t, ctx.DB)
	for i := 0; i < 3; i++ {
		other := testutil.TestUser(t, ctx.DB)
		testutil.TestInteraction(t, ctx.DB, alice.ID, other.ID)
	}

	router := gin.New()
	router.GET("/affinities", mockAuth(alice.ID), handler.List)

	w := performRequest(router, "GET", "/affinities?limit=2", nil)
	resp := parseResponse(t, w)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)

	// Out-of-range limits fall back to the default
	w = performRequest(router, "GET", "/affinities?limit=999", nil)
	resp = parseResponse(t, w)
	items, ok = resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 3)
}

func TestAffinityHandler_Get(t *testing.T) {
	handler, ctx, cleanup := setupAffinityHandler(t)
	defer cleanup()

	alice := testutil.TestUser(t, ctx.DB)
	bob := testutil.TestUser(t, ctx.DB)

	testutil.TestInteraction(t, ctx.DB, alice.ID, bob.ID,
		testutil.WithCategory("jardinage"), testutil.WithRating(5))

	router := gin.New()
	router.GET("/affinities/:targetUserId", mockAuth(alice.ID), handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/affinities/%d", bob.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	// 1 interaction (10) + 1 shared category (6) + rating 5 (30) = 46
	assert.Equal(t, float64(46), data["affinity_score"])
	assert.Equal(t, float64(alice.ID), data["user_a"])
	assert.Equal(t, float64(bob.ID), data["user_b"])
}

func TestAffinityHandler_Get_NoHistory(t *testing.T) {
	handler, ctx, cleanup := setupAffinityHandler(t)
	defer cleanup()

	alice := testutil.TestUser(t, ctx.DB)
	bob := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.GET("/affinities/:targetUserId", mockAuth(alice.ID), handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/affinities/%d", bob.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), data["affinity_score"])
}

func TestAffinityHandler_Get_BadID(t *testing.T) {
	handler, ctx, cleanup := setupAffinityHandler(t)
	defer cleanup()

	alice := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.GET("/affinities/:targetUserId", mockAuth(alice.ID), handler.Get)

	w := performRequest(router, "GET", "/affinities/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}
