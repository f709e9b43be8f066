package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ticketdomain "github.com/samogera/BrightEco-Pay-sub000/internal/ticket/domain"
)

func (s *Server) SubmitTicket(c *gin.Context) {
	var req ticketdomain.SubmitTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tickets.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
