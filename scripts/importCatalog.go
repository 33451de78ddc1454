package main

import (
	"context"
	"flag"
	"os"

	"techgo/config"
	"techgo/database"
	"techgo/importer"
	"techgo/logger"
	"techgo/services"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "catalog.csv", "catalog CSV to import")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	log := logger.Init(config.AppConfig.LogMode, config.AppConfig.LogFile)
	defer log.Sync()
	database.ConnectDb()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatal("failed to open catalog file", zap.String("file", *path), zap.Error(err))
	}
	defer file.Close()

	svc := services.New(database.Database.Db, nil)
	result, err := importer.ImportCatalog(context.Background(), svc, file)
	if err != nil {
		log.Fatal("catalog import failed", zap.Error(err))
	}

	log.Info("catalog import complete",
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total()),
	)
}
