package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"stationcal/config"
	"stationcal/database"
	stationRepo "stationcal/database/repository/station"
	"stationcal/database/seed"
	"stationcal/utils"
)

func main() {
	file := flag.String("file", "database/seed/stations.yaml", "YAML station fixture to load")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open fixture", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	stations, err := seed.LoadStations(f)
	if err != nil {
		logger.Fatal("Failed to load fixture", zap.String("file", *file), zap.Error(err))
	}

	client, err := database.InitDB()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	repo := stationRepo.NewMongoStationRepo(database.Database(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.UpsertStations(ctx, stations); err != nil {
		logger.Fatal("Failed to seed stations", zap.Error(err))
	}
	logger.Info("Seeded stations", zap.Int("count", len(stations)), zap.String("database", config.AppConfig.DatabaseName))
}
