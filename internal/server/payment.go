package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
)

func (s *Server) InitiateSTKPush(c *gin.Context) {
	var req paymentdomain.InitiateSTKPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// Rate limit on the normalized number so formatting variants share
	// one bucket. Invalid numbers fall through to service validation.
	key := req.Phone
	if normalized, err := paymentdomain.NormalizeMSISDN(req.Phone); err == nil {
		key = normalized
	}
	if !s.stkLimiter.Allow(key) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	resp, err := s.payments.InitiateSTKPush(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
