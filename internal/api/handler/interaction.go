package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voisinage/voisin_go_server/internal/api/middleware"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/pkg/response"
	"github.com/voisinage/voisin_go_server/internal/service"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
	affinityService    *service.AffinityService
}

func NewInteractionHandler(interactionService *service.InteractionService, affinityService *service.AffinityService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		affinityService:    affinityService,
	}
}

// Record appends one interaction event
// POST /api/v1/interactions
func (h *InteractionHandler) Record(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "corps de requête invalide")
		return
	}

	interaction, err := h.interactionService.Record(userID, &req)
	if err != nil {
		switch err {
		case service.ErrInvalidInteraction, service.ErrInvalidRating:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, interaction)
}

// Update sets rating/notes on an existing interaction
// PUT /api/v1/interactions/:id
func (h *InteractionHandler) Update(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "identifiant d'interaction invalide")
		return
	}

	var req dto.UpdateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "corps de requête invalide")
		return
	}

	interaction, err := h.interactionService.UpdateFeedback(id, &req)
	if err != nil {
		switch err {
		case service.ErrInteractionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrInvalidRating:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, interaction)
}

// Recent lists the caller's latest interactions
// GET /api/v1/interactions/recent
func (h *InteractionHandler) Recent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entityType := c.Query("type")

	interactions, err := h.interactionService.Recent(userID, limit, entityType)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, interactions)
}

// Stats aggregates the caller's interaction history
// GET /api/v1/interactions/stats
func (h *InteractionHandler) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	stats, err := h.interactionService.Stats(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}

// Categories lists the caller's most-interacted-with categories
// GET /api/v1/interactions/categories
func (h *InteractionHandler) Categories(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	categories, err := h.affinityService.FavoriteCategories(userID, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, categories)
}
