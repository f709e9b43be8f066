package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListAccountBalances(c *gin.Context) {
	if s.dashboard == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.dashboard.ListAccountBalances(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListPaymentActivity(c *gin.Context) {
	if s.dashboard == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, newValidationError("limit", "numeric", "limit must be a number"))
			return
		}
		limit = parsed
	}

	resp, err := s.dashboard.ListPaymentActivity(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
