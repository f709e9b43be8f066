package server

import (
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
)

type applyPaymentRequest struct {
	Amount int64 `json:"amount"`
}

type walletTopupRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) GetBillingState(c *gin.Context) {
	state, err := s.billing.GetState(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (s *Server) ApplyPayment(c *gin.Context) {
	var req applyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.billing.ApplyPayment(c.Request.Context(), req.Amount); err != nil {
		AbortWithError(c, err)
		return
	}

	state, err := s.billing.GetState(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": state})
}

func (s *Server) AddToWallet(c *gin.Context) {
	var req walletTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	balance, err := s.billing.AddToWallet(c.Request.Context(), req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wallet_balance": balance})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req billingdomain.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billing.ListInvoices(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) AddInvoice(c *gin.Context) {
	var req billingdomain.AddInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.billing.AddInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

func (s *Server) ListPaymentMethods(c *gin.Context) {
	methods, err := s.billing.ListPaymentMethods(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

func (s *Server) AddPaymentMethod(c *gin.Context) {
	var req billingdomain.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	method, err := s.billing.AddPaymentMethod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment_method": method})
}

func (s *Server) SetPreferredMethod(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("id", "numeric", "id must be a numeric method ID"))
		return
	}

	if err := s.billing.SetPreferredMethod(c.Request.Context(), snowflake.ID(id)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
