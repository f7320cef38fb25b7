package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) listNotifications(c *gin.Context) {
	notes, err := s.svc.Notifications.List(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]notificationView, 0, len(notes))
	for _, n := range notes {
		out = append(out, newNotificationView(n))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) markAllRead(c *gin.Context) {
	n, err := s.svc.Notifications.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (s *Server) updateNotification(c *gin.Context) {
	var req notificationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}
	n, err := s.svc.Notifications.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), models.NotificationStatus(req.Status))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newNotificationView(n))
}

func (s *Server) clearNotifications(c *gin.Context) {
	n, err := s.svc.Notifications.Clear(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
