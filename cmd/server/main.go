package main

import (
	"context"
	"fmt"
	"log"

	"github.com/voisinage/voisin_go_server/config"
	"github.com/voisinage/voisin_go_server/internal/api"
	"github.com/voisinage/voisin_go_server/internal/api/handler"
	"github.com/voisinage/voisin_go_server/internal/database"
	"github.com/voisinage/voisin_go_server/internal/pkg/pubsub"
	"github.com/voisinage/voisin_go_server/internal/pkg/ws"
	"github.com/voisinage/voisin_go_server/internal/repository"
	"github.com/voisinage/voisin_go_server/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// WebSocket hub plus the redis bridge that feeds it
	wsHub := ws.NewHub()

	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.SuggestionMessage) {
			if !wsHub.IsOnline(msg.UserID) {
				return
			}
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to push suggestions to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Suggestion subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	interactionRepo := repository.NewInteractionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	interactionService := service.NewInteractionService(interactionRepo)
	affinityService := service.NewAffinityService(interactionRepo)
	suggestionService := service.NewSuggestionService(
		affinityService,
		interactionRepo,
		catalogRepo,
		publisher,
		cfg.Suggestions.RealtimeLimit,
	)

	interactionHandler := handler.NewInteractionHandler(interactionService, affinityService)
	affinityHandler := handler.NewAffinityHandler(affinityService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	router := api.NewRouter(
		interactionHandler,
		affinityHandler,
		suggestionHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
