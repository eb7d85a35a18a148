package api

import (
	"log"

	exportUsecasePkg "etsy-scanner-backend/internal/export/usecase"
	orderUsecasePkg "etsy-scanner-backend/internal/order/usecase"
	"etsy-scanner-backend/pkg/config"
	"etsy-scanner-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	scanUsecase   orderUsecasePkg.ScanUsecase
	exportUsecase exportUsecasePkg.ExportUsecase
	sseManager    *sse.Manager
	config        *config.Config
}

func NewHandler(scanUc orderUsecasePkg.ScanUsecase, exportUc exportUsecasePkg.ExportUsecase, sseManager *sse.Manager, cfg *config.Config) *Handler {
	// Start background export workers
	exportUc.Start()
	log.Println("Export worker service started")

	return &Handler{
		scanUsecase:   scanUc,
		exportUsecase: exportUc,
		sseManager:    sseManager,
		config:        cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Refresh-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.scanUsecase, h.exportUsecase, h.sseManager)

	return r.Run(addr)
}
