package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/services"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type ValueSetHandler struct {
	valueSetService services.ValueSetService
	log             *logger.Logger
}

func NewValueSetHandler(valueSetService services.ValueSetService, log *logger.Logger) *ValueSetHandler {
	handlerLog := log.With("handler", "ValueSetHandler")
	return &ValueSetHandler{valueSetService: valueSetService, log: handlerLog}
}

func (vh *ValueSetHandler) Create(c *gin.Context) {
	var req types.CreateValueSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	created, err := vh.valueSetService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (vh *ValueSetHandler) Get(c *gin.Context) {
	key := c.Param("key")
	vs, err := vh.valueSetService.GetByKey(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	if vs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "value set with key '" + key + "' not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, vs)
}

func (vh *ValueSetHandler) Update(c *gin.Context) {
	var req types.UpdateValueSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := vh.valueSetService.UpdateMetadata(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (vh *ValueSetHandler) AddItem(c *gin.Context) {
	var req types.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := vh.valueSetService.AddItem(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (vh *ValueSetHandler) UpdateItem(c *gin.Context) {
	var req types.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := vh.valueSetService.UpdateItem(c.Request.Context(), c.Param("key"), c.Param("code"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (vh *ValueSetHandler) ReplaceItemCode(c *gin.Context) {
	var req types.ReplaceItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := vh.valueSetService.ReplaceItemCode(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (vh *ValueSetHandler) Archive(c *gin.Context) {
	var req types.ArchiveRestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := vh.valueSetService.Archive(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (vh *ValueSetHandler) Restore(c *gin.Context) {
	var req types.ArchiveRestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := vh.valueSetService.Restore(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (vh *ValueSetHandler) Validate(c *gin.Context) {
	var req types.ValidateValueSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := vh.valueSetService.Validate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
