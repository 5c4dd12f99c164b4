package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/services"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type ExportHandler struct {
	exportService services.ExportService
	log           *logger.Logger
}

func NewExportHandler(exportService services.ExportService, log *logger.Logger) *ExportHandler {
	handlerLog := log.With("handler", "ExportHandler")
	return &ExportHandler{exportService: exportService, log: handlerLog}
}

func (eh *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", services.FormatJSON)
	result, err := eh.exportService.Export(c.Request.Context(), c.Param("key"), format)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (eh *ExportHandler) Import(c *gin.Context) {
	format := c.DefaultQuery("format", services.FormatJSON)
	createdBy := c.DefaultQuery("createdBy", "system")

	var payload types.ImportValueSetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	created, err := eh.exportService.Import(c.Request.Context(), &payload, format, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
