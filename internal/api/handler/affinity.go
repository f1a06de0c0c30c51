package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voisinage/voisin_go_server/internal/api/middleware"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/pkg/response"
	"github.com/voisinage/voisin_go_server/internal/service"
)

type AffinityHandler struct {
	affinityService *service.AffinityService
}

func NewAffinityHandler(affinityService *service.AffinityService) *AffinityHandler {
	return &AffinityHandler{
		affinityService: affinityService,
	}
}

// List ranks the users most affine to the caller
// GET /api/v1/affinities
func (h *AffinityHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	affinities, err := h.affinityService.FindAffinities(userID, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, affinities)
}

// Get computes the affinity between the caller and one target user
// GET /api/v1/affinities/:targetUserId
func (h *AffinityHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetUserID, err := strconv.ParseInt(c.Param("targetUserId"), 10, 64)
	if err != nil {
		response.ParamError(c, "identifiant d'utilisateur invalide")
		return
	}

	score, err := h.affinityService.Score(userID, targetUserID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.PairAffinityResponse{
		AffinityScore: score,
		UserA:         userID,
		UserB:         targetUserID,
	})
}
