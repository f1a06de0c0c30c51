package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voisinage/voisin_go_server/internal/api/middleware"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/pkg/response"
	"github.com/voisinage/voisin_go_server/internal/service"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
	}
}

// List generates ranked suggestions for the caller
// GET /api/v1/suggestions?limit&categories&types&excludeOwn&minScore
func (h *SuggestionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	filters := dto.SuggestionFilters{
		Categories:  splitList(c.Query("categories")),
		EntityTypes: splitList(c.Query("types")),
		ExcludeOwn:  c.Query("excludeOwn") == "true",
	}
	if minScore, err := strconv.Atoi(c.Query("minScore")); err == nil {
		filters.MinScore = minScore
	}

	suggestions, err := h.suggestionService.Generate(userID, limit, filters)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, suggestions)
}

// Realtime generates suggestions triggered by one fresh event
// POST /api/v1/suggestions/realtime
func (h *SuggestionHandler) Realtime(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.RealtimeSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "corps de requête invalide")
		return
	}

	suggestions, err := h.suggestionService.GenerateRealTime(userID, req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, suggestions)
}

// View records that a suggestion was shown to the caller
// POST /api/v1/suggestions/view
func (h *SuggestionHandler) View(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SuggestionViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "corps de requête invalide")
		return
	}

	h.suggestionService.RecordSuggestionShown(userID, req.SuggestionID, req.SuggestionType,
		req.TargetUserID, req.Category, req.Title)

	response.Success(c, nil)
}

// Feedback records what the caller did with a suggestion
// POST /api/v1/suggestions/feedback
func (h *SuggestionHandler) Feedback(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SuggestionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "corps de requête invalide")
		return
	}

	h.suggestionService.RecordUserFeedback(userID, req.SuggestionID, req.SuggestionType,
		req.Action, req.TargetUserID)

	response.Success(c, nil)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
