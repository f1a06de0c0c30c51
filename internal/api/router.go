package api

import (
	"github.com/gin-gonic/gin"

	"github.com/voisinage/voisin_go_server/config"
	"github.com/voisinage/voisin_go_server/internal/api/handler"
	"github.com/voisinage/voisin_go_server/internal/api/middleware"
)

type Router struct {
	interactionHandler *handler.InteractionHandler
	affinityHandler    *handler.AffinityHandler
	suggestionHandler  *handler.SuggestionHandler
	websocketHandler   *handler.WebSocketHandler
	cfg                *config.Config
}

func NewRouter(
	interactionHandler *handler.InteractionHandler,
	affinityHandler *handler.AffinityHandler,
	suggestionHandler *handler.SuggestionHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		interactionHandler: interactionHandler,
		affinityHandler:    affinityHandler,
		suggestionHandler:  suggestionHandler,
		websocketHandler:   websocketHandler,
		cfg:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket (token in query string)
		api.GET("/ws", r.websocketHandler.Handle)

		// everything else requires an authenticated caller
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			interactions := authenticated.Group("/interactions")
			{
				interactions.POST("", r.interactionHandler.Record)
				interactions.PUT("/:id", r.interactionHandler.Update)
				interactions.GET("/recent", r.interactionHandler.Recent)
				interactions.GET("/stats", r.interactionHandler.Stats)
				interactions.GET("/categories", r.interactionHandler.Categories)
			}

			affinities := authenticated.Group("/affinities")
			{
				affinities.GET("", r.affinityHandler.List)
				affinities.GET("/:targetUserId", r.affinityHandler.Get)
			}

			suggestions := authenticated.Group("/suggestions")
			{
				suggestions.GET("", r.suggestionHandler.List)
				suggestions.POST("/view", r.suggestionHandler.View)
				suggestions.POST("/feedback", r.suggestionHandler.Feedback)
				suggestions.POST("/realtime", r.suggestionHandler.Realtime)
			}
		}
	}

	return engine
}
