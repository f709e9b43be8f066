package server

import (
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
)

type markAllReadRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) ListNotifications(c *gin.Context) {
	var req notificationdomain.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notifications.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("id", "numeric", "id must be a numeric notification ID"))
		return
	}

	if err := s.notifications.MarkAsRead(c.Request.Context(), snowflake.ID(id)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	var req markAllReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, newValidationError("ids", "numeric", "ids must be numeric notification IDs"))
			return
		}
		ids = append(ids, snowflake.ID(id))
	}

	updated, err := s.notifications.MarkAllAsRead(c.Request.Context(), ids)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
