package api

import (
	"net/http"

	exportDelivery "etsy-scanner-backend/internal/export/delivery"
	exportUsecase "etsy-scanner-backend/internal/export/usecase"
	orderDelivery "etsy-scanner-backend/internal/order/delivery"
	orderUsecase "etsy-scanner-backend/internal/order/usecase"
	"etsy-scanner-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, scanUsecase orderUsecase.ScanUsecase, exportUc exportUsecase.ExportUsecase, sseManager *sse.Manager) {
	orderHandler := orderDelivery.NewOrderHandler(scanUsecase)
	exportHandler := exportDelivery.NewExportHandler(exportUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Export download is authorized by its signed link, not by a bearer token
		api.GET("/exports/:id/download", exportHandler.Download)

		// SSE endpoint
		api.GET("/events", orderDelivery.CredentialsMiddleware(scanUsecase), func(c *gin.Context) {
			ownerEmail := c.GetString("ownerEmail")
			sseManager.ServeHTTP(c, ownerEmail)
		})

		// Scan routes (protected)
		scan := api.Group("/scan")
		scan.Use(orderDelivery.CredentialsMiddleware(scanUsecase))
		{
			scan.POST("", orderHandler.StartScan)
			scan.GET("/status", orderHandler.ScanStatus)
		}

		// Order routes (protected)
		orders := api.Group("/orders")
		orders.Use(orderDelivery.CredentialsMiddleware(scanUsecase))
		{
			orders.GET("", orderHandler.GetOrders)
		}

		// Export routes (protected)
		exports := api.Group("/exports")
		exports.Use(orderDelivery.CredentialsMiddleware(scanUsecase))
		{
			exports.POST("", exportHandler.CreateExport)
			exports.GET("", exportHandler.ListExports)
		}
	}
}
