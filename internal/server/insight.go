package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
)

func (s *Server) GenerateInsight(c *gin.Context) {
	var kpis insightdomain.EnergyKPIs
	if err := c.ShouldBindJSON(&kpis); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.insights.GenerateInsight(c.Request.Context(), kpis)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) DeviceAdvice(c *gin.Context) {
	resp, err := s.telemetry.List(c.Request.Context(), telemetrydomain.ListReadingsRequest{
		DeviceID: c.Query("device_id"),
		PageSize: 50,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.insights.DeviceAdvice(c.Request.Context(), resp.Readings)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
