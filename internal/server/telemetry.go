package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
)

func (s *Server) IngestReading(c *gin.Context) {
	var req telemetrydomain.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reading, err := s.telemetry.Ingest(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reading": reading})
}

func (s *Server) ListReadings(c *gin.Context) {
	var req telemetrydomain.ListReadingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.telemetry.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
