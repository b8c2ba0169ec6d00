package main

import (
	"log"
	"time"

	"github.com/jaehokim/marketplace-service/config"
	"github.com/jaehokim/marketplace-service/internal/app"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/filestore"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/inference"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/message-queue/kafka"

	postgresDriver "github.com/jaehokim/marketplace-service/internal/infrastructure/database/postgres"
)

func main() {
	config := config.CreateNewConfig()
	db, err := postgresDriver.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	fileStore, err := filestore.CreateDiskStore(config.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	classifier := inference.CreateModelClient(
		config.InferenceConfig.Endpoint,
		config.InferenceConfig.ModelName,
		config.InferenceConfig.LabelsPath,
		time.Duration(config.InferenceConfig.TimeoutMs)*time.Millisecond,
	)

	kafkaProducer := kafka.CreateKafkaProducer(config)

	server := app.App{
		DB:         db,
		Config:     config,
		FileStore:  fileStore,
		Classifier: classifier,
		Producer:   kafkaProducer,
	}

	server.Start()
}
