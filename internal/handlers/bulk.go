package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/services"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type BulkHandler struct {
	bulkService services.BulkService
	log         *logger.Logger
}

func NewBulkHandler(bulkService services.BulkService, log *logger.Logger) *BulkHandler {
	handlerLog := log.With("handler", "BulkHandler")
	return &BulkHandler{bulkService: bulkService, log: handlerLog}
}

func (bh *BulkHandler) Create(c *gin.Context) {
	var req types.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := bh.bulkService.BulkCreate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (bh *BulkHandler) AddItems(c *gin.Context) {
	var req types.BulkAddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := bh.bulkService.BulkAddItems(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (bh *BulkHandler) UpdateItems(c *gin.Context) {
	var req types.BulkUpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := bh.bulkService.BulkUpdateItems(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (bh *BulkHandler) UpdateMetadata(c *gin.Context) {
	var req types.BulkUpdateValueSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := bh.bulkService.BulkUpdateMetadata(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
