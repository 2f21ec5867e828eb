package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"filebulletin/internal/api"
	"filebulletin/internal/bulletin"
	"filebulletin/internal/checkpoint"
	"filebulletin/internal/config"
	"filebulletin/internal/delivery"
	"filebulletin/internal/redis"
	"filebulletin/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	runOnce := flag.String("run", "", "comma-separated destination channels; run one announcement and exit")
	optionsPath := flag.String("options", "", "options file overriding the configured default")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := os.Getenv("FILEBULLETIN_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("FILEBULLETIN_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("create redis client: %v", err)
	}
	defer rdb.Close()

	// Create necessary tables: areas, files, file_tags, bulletins
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	service := bulletin.NewService(db, rdb, cfg)

	if *runOnce != "" {
		runAndExit(service, *runOnce, *optionsPath)
		return
	}

	checkpoints := checkpoint.NewStore(rdb, checkpoint.DefaultKey)
	handlers := api.NewHandler(service, checkpoints, cfg.BasicConfig.APIToken)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func runAndExit(service *bulletin.Service, destinationList, optionsPath string) {
	dests := delivery.ParseDestinations(destinationList)
	res, err := service.Run(context.Background(), dests, optionsPath)
	if err != nil {
		if errors.Is(err, bulletin.ErrNotInitialized) {
			log.Printf("checkpoint initialized; nothing to report until next run")
			return
		}
		log.Fatalf("bulletin run: %v", err)
	}
	if res.Skipped {
		log.Printf("no new files since %s", res.Since)
		return
	}
	log.Printf("announced %d files (%d bytes) to %d destinations", res.TotalFiles, res.TotalBytes, res.Delivered)
}
