package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/services"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type SearchHandler struct {
	searchService services.SearchService
	log           *logger.Logger
}

func NewSearchHandler(searchService services.SearchService, log *logger.Logger) *SearchHandler {
	handlerLog := log.With("handler", "SearchHandler")
	return &SearchHandler{searchService: searchService, log: handlerLog}
}

func (sh *SearchHandler) List(c *gin.Context) {
	var q types.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page, err := sh.searchService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (sh *SearchHandler) SearchItems(c *gin.Context) {
	var q types.SearchItemsQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := sh.searchService.SearchItems(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (sh *SearchHandler) SearchByLabel(c *gin.Context) {
	labelText := c.Query("labelText")
	languageCode := c.DefaultQuery("languageCode", types.DefaultLanguage)

	var status *types.Status
	if raw := c.Query("status"); raw != "" {
		s := types.Status(raw)
		if s != types.StatusActive && s != types.StatusArchived {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + raw, "code": "validation_error"})
			return
		}
		status = &s
	}

	matched, err := sh.searchService.SearchByLabel(c.Request.Context(), labelText, languageCode, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": matched, "total": len(matched)})
}
