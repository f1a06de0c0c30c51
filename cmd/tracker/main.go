package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voisinage/voisin_go_server/config"
	"github.com/voisinage/voisin_go_server/internal/database"
	"github.com/voisinage/voisin_go_server/internal/model/dto"
	"github.com/voisinage/voisin_go_server/internal/pkg/queue"
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

	trackingQueue := queue.NewQueue(rdb, cfg.Queue.TrackingQueue)

	interactionRepo := repository.NewInteractionRepository(db)
	interactionService := service.NewInteractionService(interactionRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Tracker started, max workers: %d", cfg.Queue.MaxWorkers)

	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Tracker worker %d shutting down", workerID)
					return
				default:
					msg, err := trackingQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Tracker worker %d: failed to pop: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // timeout, keep waiting
					}

					interactionService.Track(msg.UserA, &dto.RecordInteractionRequest{
						UserB:           msg.UserB,
						EntityType:      msg.EntityType,
						InteractionType: msg.InteractionType,
						Category:        msg.Category,
						EntityID:        msg.EntityID,
						EntityTitle:     msg.EntityTitle,
						Date:            msg.Date,
						Rating:          msg.Rating,
						Metadata:        msg.Metadata,
					})
				}
			}
		}(i)
	}

	<-ctx.Done()
	log.Println("Tracker stopped")
}
