package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
	log          *logger.Logger
}

func NewStatsHandler(statsService services.StatsService, log *logger.Logger) *StatsHandler {
	handlerLog := log.With("handler", "StatsHandler")
	return &StatsHandler{statsService: statsService, log: handlerLog}
}

func (sh *StatsHandler) Statistics(c *gin.Context) {
	stats, err := sh.statsService.Compute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
