package main

import (
	"log"
	"os"

	api "etsy-scanner-backend/cmd/api"
	exportdomain "etsy-scanner-backend/internal/export/domain"
	exportRepo "etsy-scanner-backend/internal/export/repository"
	exportUsecase "etsy-scanner-backend/internal/export/usecase"
	orderdomain "etsy-scanner-backend/internal/order/domain"
	orderRepo "etsy-scanner-backend/internal/order/repository"
	orderUsecase "etsy-scanner-backend/internal/order/usecase"
	"etsy-scanner-backend/pkg/config"
	"etsy-scanner-backend/pkg/database"
	"etsy-scanner-backend/pkg/gmail"
	"etsy-scanner-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&orderdomain.OrderRecord{}, &orderdomain.ScanMetadata{}, &exportdomain.ExportJob{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	orderRepository := orderRepo.NewOrderRepository(db)
	scanMetadataRepository := orderRepo.NewScanMetadataRepository(db)
	exportJobRepository := exportRepo.NewExportJobRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize Gmail service
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize use cases (dependency injection)
	scanUsecaseInstance := orderUsecase.NewScanUsecase(orderRepository, scanMetadataRepository, gmailService, cfg.ScanBatchSize)
	scanUsecaseInstance.SetEventService(sseManager)

	exportUsecaseInstance := exportUsecase.NewExportUsecase(exportJobRepository, orderRepository, cfg.ExportDir, cfg.ExportSecret, cfg.ExportWorkerCount)
	exportUsecaseInstance.SetEventService(sseManager)

	// Initialize HTTP handler
	handler := api.NewHandler(scanUsecaseInstance, exportUsecaseInstance, sseManager, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
