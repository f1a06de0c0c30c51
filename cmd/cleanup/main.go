package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/voisinage/voisin_go_server/config"
	"github.com/voisinage/voisin_go_server/internal/database"
	"github.com/voisinage/voisin_go_server/internal/model"
	"github.com/voisinage/voisin_go_server/internal/repository"
)

var (
	dryRun     = flag.Bool("dry-run", true, "Dry run mode, don't actually delete rows")
	viewExpire = flag.Int("view-expire", 0, "Days to keep view interactions (0 = config value)")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	expireDays := *viewExpire
	if expireDays <= 0 {
		expireDays = cfg.Retention.ViewExpireDays
	}
	cutoff := time.Now().AddDate(0, 0, -expireDays)
	log.Printf("Pruning view interactions older than %s (%d days)", cutoff.Format("2006-01-02"), expireDays)

	if *dryRun {
		var count int64
		err := db.Model(&model.Interaction{}).
			Where("entity_type = ? AND date < ?", model.EntityView, cutoff).
			Count(&count).Error
		if err != nil {
			log.Fatalf("Failed to count expired views: %v", err)
		}
		log.Printf("[DRY RUN] Would delete %d view interactions", count)
		return
	}

	interactionRepo := repository.NewInteractionRepository(db)
	deleted, err := interactionRepo.DeleteOldViews(cutoff)
	if err != nil {
		log.Fatalf("Failed to delete expired views: %v", err)
	}
	log.Printf("Deleted %d view interactions", deleted)
}
