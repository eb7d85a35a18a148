package delivery

import (
	"net/http"

	"etsy-scanner-backend/internal/export/usecase"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportUsecase usecase.ExportUsecase
}

func NewExportHandler(exportUsecase usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{
		exportUsecase: exportUsecase,
	}
}

// CreateExport creates a pending export job for the owner and enqueues it.
func (h *ExportHandler) CreateExport(c *gin.Context) {
	ownerEmail := c.GetString("ownerEmail")

	job, err := h.exportUsecase.CreateExport(ownerEmail)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, job)
}

// ListExports returns the owner's export jobs newest-first.
func (h *ExportHandler) ListExports(c *gin.Context) {
	ownerEmail := c.GetString("ownerEmail")

	jobs, err := h.exportUsecase.ListExports(ownerEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exports": jobs})
}

// Download streams the export file referenced by a signed, time-limited link.
// The link itself is the credential, so this route skips the auth middleware.
func (h *ExportHandler) Download(c *gin.Context) {
	jobID := c.Param("id")
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "download token required"})
		return
	}

	filePath, err := h.exportUsecase.ResolveDownload(jobID, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.FileAttachment(filePath, "orders.csv")
}
